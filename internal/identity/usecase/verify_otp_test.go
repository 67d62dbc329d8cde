package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shandysiswandi/gootp/internal/identity/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupPending(t *testing.T, f *fixture, email string) string {
	t.Helper()

	_, err := f.uc.Signup(context.Background(), SignupInput{Email: email, Password: "secret1"})
	require.NoError(t, err)

	return f.notifier.code(email)
}

func wrongCode(code string) string {
	if code == "1000" {
		return "1001"
	}
	return "1000"
}

func TestUsecase_VerifyOTP_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "a@b.com"})
	requireGoError(t, err, http.StatusBadRequest, "Email and OTP are required")

	_, err = f.uc.VerifyOTP(context.Background(), VerifyOTPInput{OTP: "1234"})
	requireGoError(t, err, http.StatusBadRequest, "Email and OTP are required")
}

func TestUsecase_VerifyOTP_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "x@y.com", OTP: "1234"})
	requireGoError(t, err, http.StatusNotFound, "User not found")
}

func TestUsecase_VerifyOTP_Success(t *testing.T) {
	f := newFixture(t)
	code := signupPending(t, f, "a@b.com")

	out, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "a@b.com", OTP: code})
	require.NoError(t, err)
	assert.Equal(t, &VerifyOTPOutput{Email: "a@b.com", IsVerified: true}, out)

	acc, _ := f.repo.get("a@b.com")
	assert.True(t, acc.IsVerified)
	assert.Nil(t, acc.OTPHash)
	assert.Nil(t, acc.OTPExpiry)

	_, err = f.uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "a@b.com", OTP: code})
	assert.ErrorIs(t, err, ErrAlreadyVerified)
	requireGoError(t, err, http.StatusBadRequest, "Account is already verified")
}

func TestUsecase_VerifyOTP_WrongCodeKeepsPending(t *testing.T) {
	f := newFixture(t)
	code := signupPending(t, f, "a@b.com")
	before, _ := f.repo.get("a@b.com")

	_, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "a@b.com", OTP: wrongCode(code)})
	requireGoError(t, err, http.StatusBadRequest, "Invalid OTP")

	after, _ := f.repo.get("a@b.com")
	assert.Equal(t, before, after)

	_, err = f.uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "a@b.com", OTP: code})
	assert.NoError(t, err)
}

func TestUsecase_VerifyOTP_Expiry(t *testing.T) {
	f := newFixture(t)
	code := signupPending(t, f, "a@b.com")

	f.clock.Advance(5 * time.Minute)
	_, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "a@b.com", OTP: wrongCode(code)})
	assert.ErrorIs(t, err, ErrInvalidOTP, "boundary instant is still valid")

	f.clock.Advance(time.Millisecond)
	_, err = f.uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "a@b.com", OTP: code})
	requireGoError(t, err, http.StatusBadRequest, "OTP has expired. Please request a new one.")
}

func TestUsecase_VerifyOTP_NoPendingOTP(t *testing.T) {
	f := newFixture(t)
	f.repo.accounts["a@b.com"] = entity.Account{ID: 7, Email: "a@b.com"}

	_, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "a@b.com", OTP: "1234"})
	requireGoError(t, err, http.StatusBadRequest, "No OTP found. Please request a new one.")
}

func TestUsecase_VerifyOTP_LostRace(t *testing.T) {
	f := newFixture(t)
	code := signupPending(t, f, "a@b.com")

	acc, _ := f.repo.get("a@b.com")
	stale := acc
	acc.IsVerified = true
	acc.OTPHash, acc.OTPExpiry = nil, nil
	f.repo.accounts["a@b.com"] = acc

	// Serve the stale pending snapshot to the read, but keep the verified row
	// for the guarded update.
	racing := &staleReadRepo{memRepo: f.repo, stale: stale}
	f.uc.repoDB = racing

	_, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "a@b.com", OTP: code})
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestUsecase_VerifyOTP_UpdateFailure(t *testing.T) {
	f := newFixture(t)
	code := signupPending(t, f, "a@b.com")
	f.repo.updateErr = errors.New("timeout")

	_, err := f.uc.VerifyOTP(context.Background(), VerifyOTPInput{Email: "a@b.com", OTP: code})
	requireGoError(t, err, http.StatusInternalServerError, "Internal server error")
}

type staleReadRepo struct {
	*memRepo
	stale entity.Account
}

func (r *staleReadRepo) GetAccountByEmail(context.Context, string) (*entity.Account, error) {
	acc := r.stale
	return &acc, nil
}
