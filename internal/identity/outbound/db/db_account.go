package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/shandysiswandi/gootp/internal/identity/entity"
	"github.com/shandysiswandi/gootp/internal/pkg/goerror"
)

const queryGetAccountByEmail = `SELECT id, email, password_hash, is_verified, otp_hash, otp_expiry, created_at, updated_at
FROM identity_accounts WHERE email = $1`

func (s *DB) GetAccountByEmail(ctx context.Context, email string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountByEmail")
	defer func() { s.endSpan(span, err) }()

	var acc entity.Account
	err = s.conn.QueryRow(ctx, queryGetAccountByEmail, email).Scan(
		&acc.ID,
		&acc.Email,
		&acc.PasswordHash,
		&acc.IsVerified,
		&acc.OTPHash,
		&acc.OTPExpiry,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		err = s.mapError(err)
		return nil, err
	}

	return &acc, nil
}

const queryCreateAccount = `INSERT INTO identity_accounts
(id, email, password_hash, is_verified, otp_hash, otp_expiry, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (s *DB) CreateAccount(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccount")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateAccount,
		acc.ID,
		acc.Email,
		acc.PasswordHash,
		acc.IsVerified,
		acc.OTPHash,
		acc.OTPExpiry,
		acc.CreatedAt,
		acc.UpdatedAt,
	)

	err = s.mapError(err)
	return err
}

// buildUpdateAccount renders the UPDATE statement for p. The email is always
// the first argument.
func buildUpdateAccount(email string, p entity.PatchAccount) (string, []any) {
	args := []any{email}
	sets := make([]string, 0, 4)

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if p.IsVerified != nil {
		add("is_verified", *p.IsVerified)
	}
	if p.ClearOTP {
		sets = append(sets, "otp_hash = NULL", "otp_expiry = NULL")
	} else {
		if p.OTPHash != nil {
			add("otp_hash", *p.OTPHash)
		}
		if p.OTPExpiry != nil {
			add("otp_expiry", *p.OTPExpiry)
		}
	}
	if p.UpdatedAt.IsZero() {
		sets = append(sets, "updated_at = NOW()")
	} else {
		add("updated_at", p.UpdatedAt)
	}

	q := "UPDATE identity_accounts SET " + strings.Join(sets, ", ") + " WHERE email = $1"
	if p.OnlyUnverified {
		q += " AND is_verified = FALSE"
	}

	return q, args
}

func (s *DB) UpdateAccountByEmail(ctx context.Context, email string, p entity.PatchAccount) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateAccountByEmail")
	defer func() { s.endSpan(span, err) }()

	q, args := buildUpdateAccount(email, p)

	tag, err := s.conn.Exec(ctx, q, args...)
	if err != nil {
		err = s.mapError(err)
		return err
	}

	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
	}

	return err
}

const queryDeleteAccountByID = `DELETE FROM identity_accounts WHERE id = $1`

func (s *DB) DeleteAccountByID(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteAccountByID")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryDeleteAccountByID, id)
	if err != nil {
		err = s.mapError(err)
		return err
	}

	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
	}

	return err
}
