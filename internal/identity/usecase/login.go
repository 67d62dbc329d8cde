package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gootp/internal/identity/entity"
	"github.com/shandysiswandi/gootp/internal/pkg/goerror"
)

type LoginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	UserID     int64
	Email      string
	IsVerified bool
	Token      string
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = strings.TrimSpace(in.Email)

	if err := s.validate(ctx, in, "Email and password are required"); err != nil {
		return nil, err
	}

	acc, err := s.repoDB.GetAccountByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account not found", "email", in.Email)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get account by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if acc.State() != entity.AccountStateVerified {
		slog.WarnContext(ctx, "account not verified", "account_id", acc.ID)
		return nil, ErrNotVerified
	}

	if !s.hash.Verify(acc.PasswordHash, in.Password) {
		slog.WarnContext(ctx, "password account not match", "account_id", acc.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.Generate(acc.ID, acc.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate jwt token", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginOutput{
		UserID:     acc.ID,
		Email:      acc.Email,
		IsVerified: acc.IsVerified,
		Token:      token,
	}, nil
}
