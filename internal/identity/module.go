package identity

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/gootp/internal/identity/entity"
	"github.com/shandysiswandi/gootp/internal/identity/inbound"
	"github.com/shandysiswandi/gootp/internal/identity/outbound/db"
	identitymail "github.com/shandysiswandi/gootp/internal/identity/outbound/mail"
	"github.com/shandysiswandi/gootp/internal/identity/outbound/nosql"
	"github.com/shandysiswandi/gootp/internal/identity/usecase"
	"github.com/shandysiswandi/gootp/internal/pkg/clock"
	"github.com/shandysiswandi/gootp/internal/pkg/hash"
	"github.com/shandysiswandi/gootp/internal/pkg/instrument"
	"github.com/shandysiswandi/gootp/internal/pkg/jwt"
	"github.com/shandysiswandi/gootp/internal/pkg/mail"
	"github.com/shandysiswandi/gootp/internal/pkg/otp"
	"github.com/shandysiswandi/gootp/internal/pkg/router"
	"github.com/shandysiswandi/gootp/internal/pkg/uid"
	"github.com/shandysiswandi/gootp/internal/pkg/validator"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ErrStoreRequired is returned when neither a Postgres pool nor a Mongo
// database is provided.
var ErrStoreRequired = errors.New("identity: an account store connection is required")

type store interface {
	GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error)
	CreateAccount(ctx context.Context, acc entity.Account) error
	UpdateAccountByEmail(ctx context.Context, email string, patch entity.PatchAccount) error
	DeleteAccountByID(ctx context.Context, id int64) error
}

type Dependency struct {
	// Exactly one of DBConn or MongoDB selects the account store. MongoDB wins
	// when both are set.
	DBConn  db.Pool
	MongoDB *mongo.Database

	Router     *router.Router             `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Hash       hash.Hash                  `validate:"required"`
	OTP        otp.Generator              `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`

	OTPTTL time.Duration
	Cookie inbound.CookieConfig
}

func New(ctx context.Context, dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	var repo store
	switch {
	case dep.MongoDB != nil:
		ns := nosql.NewNoSQL(dep.MongoDB, dep.Clock, dep.Instrument)
		if err := ns.EnsureIndexes(ctx); err != nil {
			return err
		}
		repo = ns
	case dep.DBConn != nil:
		repo = db.NewDB(dep.DBConn, dep.Instrument)
	default:
		return ErrStoreRequired
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:     repo,
		Notifier:   identitymail.New(dep.Mail, dep.OTPTTL, dep.Instrument),
		Validator:  dep.Validator,
		Hash:       dep.Hash,
		OTP:        dep.OTP,
		JWT:        dep.JWT,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Cookie)

	return nil
}
