package inbound

import (
	"context"
	"time"

	"github.com/shandysiswandi/gootp/internal/identity/usecase"
	"github.com/shandysiswandi/gootp/internal/pkg/router"
)

type uc interface {
	Signup(ctx context.Context, in usecase.SignupInput) (*usecase.SignupOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
}

// CookieConfig controls the session cookie set on login.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, cookie CookieConfig) {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = 24 * time.Hour
	}

	end := &HTTPEndpoint{uc: uc, cookie: cookie}

	r.POST("/api/auth/signup", end.Signup)
	r.POST("/api/auth/verify-otp", end.VerifyOTP)
	r.POST("/api/auth/login", end.Login)
}
