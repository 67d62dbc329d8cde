// Package nosql stores accounts in a MongoDB collection.
package nosql

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/gootp/internal/identity/entity"
	"github.com/shandysiswandi/gootp/internal/pkg/goerror"
	"github.com/shandysiswandi/gootp/internal/pkg/instrument"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CollectionName is the collection holding account documents.
const CollectionName = "accounts"

type accountDoc struct {
	ID           int64      `bson:"_id"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password_hash"`
	IsVerified   bool       `bson:"is_verified"`
	OTPHash      *string    `bson:"otp_hash"`
	OTPExpiry    *time.Time `bson:"otp_expiry"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

func toDoc(a entity.Account) accountDoc {
	return accountDoc{
		ID:           a.ID,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		IsVerified:   a.IsVerified,
		OTPHash:      a.OTPHash,
		OTPExpiry:    a.OTPExpiry,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (d accountDoc) toEntity() *entity.Account {
	acc := &entity.Account{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		IsVerified:   d.IsVerified,
		OTPHash:      d.OTPHash,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if d.OTPExpiry != nil {
		exp := d.OTPExpiry.UTC()
		acc.OTPExpiry = &exp
	}
	return acc
}

type clocker interface {
	Now() time.Time
}

type NoSQL struct {
	coll  *mongo.Collection
	clock clocker
	ins   instrument.Instrumentation
}

// NewNoSQL returns the Mongo account store. clk stamps updated_at when a patch
// does not carry its own time.
func NewNoSQL(db *mongo.Database, clk clocker, ins instrument.Instrumentation) *NoSQL {
	return &NoSQL{coll: db.Collection(CollectionName), clock: clk, ins: ins}
}

// EnsureIndexes creates the unique email index. It is safe to call repeatedly.
func (s *NoSQL) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return err
}

func (s *NoSQL) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return goerror.ErrNotFound
	}

	if mongo.IsDuplicateKeyError(err) {
		return goerror.ErrConflict
	}

	return err
}

func (s *NoSQL) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.outbound.nosql").Start(ctx, name)
}

func (s *NoSQL) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *NoSQL) GetAccountByEmail(ctx context.Context, email string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByEmail")
	defer func() { s.endSpan(span, err) }()

	var doc accountDoc
	if err = s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return doc.toEntity(), nil
}

func (s *NoSQL) CreateAccount(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccount")
	defer func() { s.endSpan(span, err) }()

	_, err = s.coll.InsertOne(ctx, toDoc(acc))
	err = s.mapError(err)
	return err
}

// buildUpdate renders the filter and update documents for p.
func buildUpdate(email string, p entity.PatchAccount, now time.Time) (bson.M, bson.M) {
	filter := bson.M{"email": email}
	if p.OnlyUnverified {
		filter["is_verified"] = false
	}

	set := bson.M{}
	if p.IsVerified != nil {
		set["is_verified"] = *p.IsVerified
	}
	if p.ClearOTP {
		set["otp_hash"] = nil
		set["otp_expiry"] = nil
	} else {
		if p.OTPHash != nil {
			set["otp_hash"] = *p.OTPHash
		}
		if p.OTPExpiry != nil {
			set["otp_expiry"] = *p.OTPExpiry
		}
	}

	set["updated_at"] = now
	if !p.UpdatedAt.IsZero() {
		set["updated_at"] = p.UpdatedAt
	}

	return filter, bson.M{"$set": set}
}

func (s *NoSQL) updateDocs(email string, p entity.PatchAccount) (bson.M, bson.M) {
	return buildUpdate(email, p, s.clock.Now())
}

func (s *NoSQL) UpdateAccountByEmail(ctx context.Context, email string, p entity.PatchAccount) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateAccountByEmail")
	defer func() { s.endSpan(span, err) }()

	filter, update := s.updateDocs(email, p)

	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		err = s.mapError(err)
		return err
	}

	if res.MatchedCount == 0 {
		err = goerror.ErrNotFound
	}

	return err
}

func (s *NoSQL) DeleteAccountByID(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteAccountByID")
	defer func() { s.endSpan(span, err) }()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		err = s.mapError(err)
		return err
	}

	if res.DeletedCount == 0 {
		err = goerror.ErrNotFound
	}

	return err
}
