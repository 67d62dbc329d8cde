package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gootp/internal/identity/entity"
	"github.com/shandysiswandi/gootp/internal/pkg/goerror"
)

type VerifyOTPInput struct {
	Email string `validate:"required"`
	OTP   string `validate:"required"`
}

type VerifyOTPOutput struct {
	Email      string
	IsVerified bool
}

func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	in.Email = strings.TrimSpace(in.Email)
	in.OTP = strings.TrimSpace(in.OTP)

	if err := s.validate(ctx, in, "Email and OTP are required"); err != nil {
		return nil, err
	}

	acc, err := s.repoDB.GetAccountByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account not found", "email", in.Email)
		return nil, ErrAccountNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if acc.State() == entity.AccountStateVerified {
		return nil, ErrAlreadyVerified
	}

	if !acc.HasPendingOTP() {
		slog.WarnContext(ctx, "account has no pending otp", "account_id", acc.ID)
		return nil, ErrNoPendingOTP
	}

	if s.clock.Now().After(*acc.OTPExpiry) {
		return nil, ErrOTPExpired
	}

	if !s.hash.Verify(*acc.OTPHash, in.OTP) {
		slog.WarnContext(ctx, "otp does not match", "account_id", acc.ID)
		return nil, ErrInvalidOTP
	}

	verified := true
	err = s.repoDB.UpdateAccountByEmail(ctx, acc.Email, entity.PatchAccount{
		IsVerified:     &verified,
		ClearOTP:       true,
		OnlyUnverified: true,
		UpdatedAt:      s.clock.Now(),
	})
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account verified concurrently", "account_id", acc.ID)
		return nil, ErrAlreadyVerified
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update account verification", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VerifyOTPOutput{Email: acc.Email, IsVerified: true}, nil
}
