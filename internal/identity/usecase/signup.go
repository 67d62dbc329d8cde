package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gootp/internal/identity/entity"
	"github.com/shandysiswandi/gootp/internal/pkg/goerror"
)

type SignupInput struct {
	Email    string `validate:"required,emailshape"`
	Password string `validate:"required,min=6,maxbytes=72"`
}

type SignupOutput struct {
	Email      string
	IsVerified bool
}

func (s *Usecase) Signup(ctx context.Context, in SignupInput) (*SignupOutput, error) {
	ctx, span := s.startSpan(ctx, "Signup")
	defer span.End()

	in.Email = strings.TrimSpace(in.Email)

	if err := s.validate(ctx, in, "Email and password are required"); err != nil {
		return nil, err
	}

	_, err := s.repoDB.GetAccountByEmail(ctx, in.Email)
	if err == nil {
		slog.WarnContext(ctx, "account already exists", "email", in.Email)
		return nil, ErrAccountExists
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp", "error", err)
		return nil, goerror.NewServer(err)
	}

	otpHash, err := s.hash.Hash(code.Value)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp", "error", err)
		return nil, goerror.NewServer(err)
	}

	passwordHash, err := s.hash.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	otpHashStr := string(otpHash)
	acc := entity.Account{
		ID:           s.uid.Generate(),
		Email:        in.Email,
		PasswordHash: string(passwordHash),
		IsVerified:   false,
		OTPHash:      &otpHashStr,
		OTPExpiry:    &code.ExpiresAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repoDB.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			slog.WarnContext(ctx, "account created concurrently", "email", in.Email)
			return nil, ErrAccountExists
		}
		slog.ErrorContext(ctx, "failed to repo create account", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.notifier.SendOTP(ctx, acc.Email, code.Value); err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "account_id", acc.ID, "error", err)

		if err := s.repoDB.DeleteAccountByID(context.WithoutCancel(ctx), acc.ID); err != nil {
			slog.ErrorContext(ctx, "failed to repo delete account after delivery failure", "account_id", acc.ID, "error", err)
		}

		return nil, ErrDeliveryFailed
	}

	return &SignupOutput{Email: acc.Email, IsVerified: acc.IsVerified}, nil
}
