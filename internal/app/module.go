package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gootp/internal/identity"
	"github.com/shandysiswandi/gootp/internal/identity/inbound"
)

func (a *App) initModules() {
	dep := identity.Dependency{
		Router:     a.router,
		Mail:       a.mail,
		Validator:  a.validator,
		Hash:       a.hash,
		OTP:        a.otp,
		JWT:        a.jwt,
		UID:        a.uid,
		Clock:      a.clock,
		Instrument: a.ins,
		OTPTTL:     a.settings.OTP.TTL,
		Cookie: inbound.CookieConfig{
			Name:   a.settings.Cookie.Name,
			MaxAge: a.settings.Cookie.MaxAge,
			Secure: a.settings.App.IsProduction(),
		},
	}

	switch {
	case a.mongo != nil:
		db, err := a.mongo.Connect(a.ctx)
		if err != nil {
			slog.Error("failed to get mongodb handle", "error", err)
			os.Exit(1)
		}
		dep.MongoDB = db
	case a.pgsql != nil:
		pool, err := a.pgsql.Connect(a.ctx)
		if err != nil {
			slog.Error("failed to get database pool", "error", err)
			os.Exit(1)
		}
		dep.DBConn = pool
	}

	if err := identity.New(a.ctx, dep); err != nil {
		slog.Error("failed to init module identity", "error", err)
		os.Exit(1)
	}
}
