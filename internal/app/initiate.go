package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/rs/cors"
	"github.com/shandysiswandi/gootp/internal/pkg/clock"
	"github.com/shandysiswandi/gootp/internal/pkg/config"
	"github.com/shandysiswandi/gootp/internal/pkg/goroutine"
	"github.com/shandysiswandi/gootp/internal/pkg/hash"
	"github.com/shandysiswandi/gootp/internal/pkg/instrument"
	"github.com/shandysiswandi/gootp/internal/pkg/jwt"
	"github.com/shandysiswandi/gootp/internal/pkg/mail"
	"github.com/shandysiswandi/gootp/internal/pkg/mongodb"
	"github.com/shandysiswandi/gootp/internal/pkg/otp"
	"github.com/shandysiswandi/gootp/internal/pkg/pgsql"
	"github.com/shandysiswandi/gootp/internal/pkg/router"
	"github.com/shandysiswandi/gootp/internal/pkg/uid"
	"github.com/shandysiswandi/gootp/internal/pkg/validator"
)

// ConfigPath returns CONFIG_PATH or the default ./config/config.yaml.
func ConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "./config/config.yaml"
}

func (a *App) initConfig() {
	cfg, err := config.NewViper(ConfigPath(), config.WithDefaults(Defaults))
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	a.config = cfg
}

func (a *App) initSettings() {
	v, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = v

	s, err := LoadSettings(a.config, a.validator)
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		os.Exit(1)
	}
	a.settings = s
}

func (a *App) initInstrument() {
	s := a.settings.Instrument

	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          s.Enabled,
		ServiceName:      s.ServiceName,
		ServiceVersion:   s.ServiceVersion,
		Environment:      a.settings.App.Env,
		OTLPEndpoint:     s.OTLPEndpoint,
		OTLPSecure:       s.OTLPSecure,
		TraceSampleRatio: s.TraceSampleRatio,
		MetricsInterval:  s.MetricsInterval,
		LogLevel:         s.LogLevel,
		MaskFields:       s.MaskFields,
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.settings.App.MaxGoroutine)

	h, err := hash.New(hash.Config{
		Driver:     a.settings.Hash.Driver,
		BcryptCost: a.settings.Hash.BcryptCost,
		Pepper:     a.settings.Hash.Pepper,
	})
	if err != nil {
		slog.Error("failed to init hash", "error", err)
		os.Exit(1)
	}
	a.hash = h

	snow, err := uid.NewSnowflake(a.settings.App.SnowflakeNode)
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow

	a.otp = otp.NewNumeric(otp.Config{
		Digits: a.settings.OTP.Digits,
		TTL:    a.settings.OTP.TTL,
		Clock:  a.clock,
	})
}

func (a *App) initJWT() {
	issuer, err := jwt.NewHS256(jwt.Config{
		Secret:    []byte(a.settings.JWT.Secret),
		Issuer:    a.settings.JWT.Issuer,
		Audiences: a.settings.JWT.Audiences,
		TTL:       a.settings.JWT.TTL,
		Clock:     a.clock,
		UUID:      a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = issuer
}

func (a *App) initDatabase() {
	switch a.settings.Store.Driver {
	case StoreDriverMongoDB:
		s := a.settings.Mongo
		a.mongo = mongodb.NewConnector(mongodb.Config{
			URI:            s.URI,
			Database:       s.Database,
			ConnectTimeout: s.ConnectTimeout,
			SocketTimeout:  s.SocketTimeout,
			MaxPoolSize:    s.MaxPoolSize,
			ConnectRetries: a.settings.Database.ConnectRetries,
		})
		if _, err := a.mongo.Connect(a.ctx); err != nil {
			slog.Error("failed to connect mongodb", "error", err)
			os.Exit(1)
		}

	default:
		s := a.settings.Database
		a.pgsql = pgsql.NewConnector(pgsql.Config{
			URL:               s.URL,
			MaxConns:          s.MaxConns,
			MinConns:          s.MinConns,
			MaxConnLifetime:   s.MaxConnLifetime,
			MaxConnIdleTime:   s.MaxConnIdleTime,
			HealthCheckPeriod: s.HealthCheckPeriod,
			ConnectRetries:    s.ConnectRetries,
		})
		if _, err := a.pgsql.Connect(a.ctx); err != nil {
			slog.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
	}
}

func (a *App) initMail() {
	s := a.settings.Mail

	client, err := mail.NewSMTP(mail.SMTPConfig{
		Host:     s.Host,
		Port:     s.Port,
		Username: s.Username,
		Password: s.Password,
		From:     s.From,
		FromName: s.FromName,
		Timeout:  s.Timeout,
	})
	if err != nil {
		slog.Error("failed to init mail", "error", err)
		os.Exit(1)
	}

	a.mail = client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})
	a.router.GET("/health", healthHandler(a.clock))

	a.httpServer = &http.Server{
		Addr:              a.settings.HTTP.Address,
		Handler:           withCORS(a.router, a.settings.HTTP.CORSOrigins),
		ReadTimeout:       a.settings.HTTP.ReadTimeout,
		ReadHeaderTimeout: a.settings.HTTP.ReadHeaderTimeout,
		WriteTimeout:      a.settings.HTTP.WriteTimeout,
		IdleTimeout:       a.settings.HTTP.IdleTimeout,
	}
}

func withCORS(h http.Handler, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(h)
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				if a.pgsql != nil {
					a.pgsql.Close()
				}

				return nil
			},
		},
		{
			name: "MongoDB",
			fn: func(ctx context.Context) error {
				if a.mongo != nil {
					return a.mongo.Close(ctx)
				}

				return nil
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
