package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gootp/internal/identity/entity"
	"github.com/shandysiswandi/gootp/internal/pkg/clock"
	"github.com/shandysiswandi/gootp/internal/pkg/goerror"
	"github.com/shandysiswandi/gootp/internal/pkg/hash"
	"github.com/shandysiswandi/gootp/internal/pkg/instrument"
	"github.com/shandysiswandi/gootp/internal/pkg/jwt"
	"github.com/shandysiswandi/gootp/internal/pkg/otp"
	"github.com/shandysiswandi/gootp/internal/pkg/uid"
	"github.com/shandysiswandi/gootp/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error)
	CreateAccount(ctx context.Context, acc entity.Account) error
	UpdateAccountByEmail(ctx context.Context, email string, patch entity.PatchAccount) error
	DeleteAccountByID(ctx context.Context, id int64) error
}

type notifier interface {
	SendOTP(ctx context.Context, email, code string) error
}

type Usecase struct {
	repoDB    repoDB
	notifier  notifier
	validator validator.Validator
	hash      hash.Hash
	otp       otp.Generator
	jwt       jwt.JWT
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Notifier   notifier
	Validator  validator.Validator
	Hash       hash.Hash
	OTP        otp.Generator
	JWT        jwt.JWT
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		notifier:  dep.Notifier,
		validator: dep.Validator,
		hash:      dep.Hash,
		otp:       dep.OTP,
		jwt:       dep.JWT,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

type tagger interface {
	Tag(field string) string
	Fields() []string
}

// validate runs struct validation and turns the first relevant failure into
// one user-facing message. Missing fields are reported before malformed ones.
func (s *Usecase) validate(ctx context.Context, in any, requiredMsg string) error {
	err := s.validator.Validate(in)
	if err == nil {
		return nil
	}

	var te tagger
	if !errors.As(err, &te) {
		slog.ErrorContext(ctx, "failed to validate input", "error", err)
		return goerror.NewServer(err)
	}

	for _, f := range te.Fields() {
		if te.Tag(f) == "required" {
			return goerror.NewInvalidInputMsg(requiredMsg, err)
		}
	}

	switch {
	case te.Tag("email") == "emailshape":
		return goerror.NewInvalidInputMsg("Invalid email format", err)
	case te.Tag("password") == "min":
		return goerror.NewInvalidInputMsg("Password must be at least 6 characters long", err)
	case te.Tag("password") == "maxbytes":
		return goerror.NewInvalidInputMsg("Password must be at most 72 bytes long", err)
	default:
		return goerror.NewInvalidInput(err)
	}
}
