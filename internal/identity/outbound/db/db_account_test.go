package db

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shandysiswandi/gootp/internal/identity/entity"
	"github.com/shandysiswandi/gootp/internal/pkg/goerror"
	"github.com/shandysiswandi/gootp/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountColumns = []string{"id", "email", "password_hash", "is_verified", "otp_hash", "otp_expiry", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewDB(mock, instrument.NewNoop()), mock
}

func TestDB_GetAccountByEmail(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	otpHash := "$2a$10$hash"
	expiry := now.Add(5 * time.Minute)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		want      *entity.Account
		wantErr   error
	}{
		{
			name: "pending account",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(queryGetAccountByEmail)).
					WithArgs("a@b.com").
					WillReturnRows(pgxmock.NewRows(accountColumns).
						AddRow(int64(42), "a@b.com", "pw-hash", false, &otpHash, &expiry, now, now))
			},
			want: &entity.Account{
				ID: 42, Email: "a@b.com", PasswordHash: "pw-hash",
				OTPHash: &otpHash, OTPExpiry: &expiry, CreatedAt: now, UpdatedAt: now,
			},
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(queryGetAccountByEmail)).
					WithArgs("x@y.com").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: goerror.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockDB(t)
			tt.setupMock(mock)

			email := "a@b.com"
			if tt.wantErr != nil {
				email = "x@y.com"
			}

			got, err := s.GetAccountByEmail(context.Background(), email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDB_CreateAccount(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	acc := entity.Account{ID: 1, Email: "a@b.com", PasswordHash: "pw", CreatedAt: now, UpdatedAt: now}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "inserted",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(queryCreateAccount)).
					WithArgs(int64(1), "a@b.com", "pw", false, pgxmock.AnyArg(), pgxmock.AnyArg(), now, now).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "duplicate email",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(queryCreateAccount)).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "identity_accounts_email_key"})
			},
			wantErr: goerror.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockDB(t)
			tt.setupMock(mock)

			err := s.CreateAccount(context.Background(), acc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBuildUpdateAccount(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	verified := true
	h := "h"

	q, args := buildUpdateAccount("a@b.com", entity.PatchAccount{
		IsVerified: &verified, ClearOTP: true, OnlyUnverified: true, UpdatedAt: now,
	})
	assert.Equal(t, "UPDATE identity_accounts SET is_verified = $2, otp_hash = NULL, otp_expiry = NULL, updated_at = $3 WHERE email = $1 AND is_verified = FALSE", q)
	assert.Equal(t, []any{"a@b.com", true, now}, args)

	q, args = buildUpdateAccount("a@b.com", entity.PatchAccount{OTPHash: &h, OTPExpiry: &now})
	assert.Equal(t, "UPDATE identity_accounts SET otp_hash = $2, otp_expiry = $3, updated_at = NOW() WHERE email = $1", q)
	assert.Equal(t, []any{"a@b.com", "h", now}, args)
}

func TestDB_UpdateAccountByEmail(t *testing.T) {
	verified := true
	patch := entity.PatchAccount{IsVerified: &verified, ClearOTP: true, OnlyUnverified: true}
	q, _ := buildUpdateAccount("a@b.com", patch)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "updated",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(q)).
					WithArgs("a@b.com", true).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "guard not met",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(q)).
					WithArgs("a@b.com", true).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: goerror.ErrNotFound,
		},
		{
			name: "driver error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(q)).
					WithArgs("a@b.com", true).
					WillReturnError(errors.New("conn closed"))
			},
			wantErr: errors.New("conn closed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockDB(t)
			tt.setupMock(mock)

			err := s.UpdateAccountByEmail(context.Background(), "a@b.com", patch)
			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
			case errors.Is(tt.wantErr, goerror.ErrNotFound):
				assert.ErrorIs(t, err, goerror.ErrNotFound)
			default:
				assert.EqualError(t, err, tt.wantErr.Error())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDB_DeleteAccountByID(t *testing.T) {
	s, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(queryDeleteAccountByID)).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta(queryDeleteAccountByID)).
		WithArgs(int64(8)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, s.DeleteAccountByID(context.Background(), 7))
	assert.ErrorIs(t, s.DeleteAccountByID(context.Background(), 8), goerror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrations_Embedded(t *testing.T) {
	entries, err := Migrations.ReadDir(MigrationsDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
