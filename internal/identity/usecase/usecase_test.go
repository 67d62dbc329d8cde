package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/gootp/internal/identity/entity"
	"github.com/shandysiswandi/gootp/internal/pkg/clock"
	"github.com/shandysiswandi/gootp/internal/pkg/goerror"
	"github.com/shandysiswandi/gootp/internal/pkg/hash"
	"github.com/shandysiswandi/gootp/internal/pkg/instrument"
	"github.com/shandysiswandi/gootp/internal/pkg/jwt"
	"github.com/shandysiswandi/gootp/internal/pkg/otp"
	"github.com/shandysiswandi/gootp/internal/pkg/uid"
	"github.com/shandysiswandi/gootp/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu       sync.Mutex
	accounts map[string]entity.Account

	getErr    error
	createErr error
	updateErr error
	deleteErr error
	deleted   []int64
}

func newMemRepo() *memRepo {
	return &memRepo{accounts: map[string]entity.Account{}}
}

func (r *memRepo) GetAccountByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.getErr != nil {
		return nil, r.getErr
	}
	acc, ok := r.accounts[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &acc, nil
}

func (r *memRepo) CreateAccount(_ context.Context, acc entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.accounts[acc.Email]; ok {
		return goerror.ErrConflict
	}
	r.accounts[acc.Email] = acc
	return nil
}

func (r *memRepo) UpdateAccountByEmail(_ context.Context, email string, p entity.PatchAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return r.updateErr
	}
	acc, ok := r.accounts[email]
	if !ok || (p.OnlyUnverified && acc.IsVerified) {
		return goerror.ErrNotFound
	}
	if p.IsVerified != nil {
		acc.IsVerified = *p.IsVerified
	}
	if p.OTPHash != nil {
		acc.OTPHash = p.OTPHash
	}
	if p.OTPExpiry != nil {
		acc.OTPExpiry = p.OTPExpiry
	}
	if p.ClearOTP {
		acc.OTPHash, acc.OTPExpiry = nil, nil
	}
	acc.UpdatedAt = p.UpdatedAt
	r.accounts[email] = acc
	return nil
}

func (r *memRepo) DeleteAccountByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deleted = append(r.deleted, id)
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for email, acc := range r.accounts {
		if acc.ID == id {
			delete(r.accounts, email)
			return nil
		}
	}
	return goerror.ErrNotFound
}

func (r *memRepo) get(email string) (entity.Account, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[email]
	return acc, ok
}

type fakeNotifier struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (n *fakeNotifier) SendOTP(_ context.Context, email, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}
	if n.codes == nil {
		n.codes = map[string]string{}
	}
	n.codes[email] = code
	return nil
}

func (n *fakeNotifier) code(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[email]
}

type fixture struct {
	uc       *Usecase
	repo     *memRepo
	notifier *fakeNotifier
	clock    *clock.Fixed
	jwt      *jwt.Symmetric
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := clock.NewFixed(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	h, err := hash.New(hash.Config{Driver: hash.DriverBcrypt, BcryptCost: 4})
	require.NoError(t, err)

	issuer, err := jwt.NewHS256(jwt.Config{Secret: []byte("test-secret"), Clock: clk, UUID: uid.NewUUID()})
	require.NoError(t, err)

	sf, err := uid.NewSnowflake(1)
	require.NoError(t, err)

	f := &fixture{
		repo:     newMemRepo(),
		notifier: &fakeNotifier{},
		clock:    clk,
		jwt:      issuer,
	}
	f.uc = New(Dependency{
		RepoDB:     f.repo,
		Notifier:   f.notifier,
		Validator:  v,
		Hash:       h,
		OTP:        otp.NewNumeric(otp.Config{Clock: clk}),
		JWT:        issuer,
		UID:        sf,
		Clock:      clk,
		Instrument: instrument.NewNoop(),
	})

	return f
}

// requireGoError asserts err is a *goerror.Error with the given status and message.
func requireGoError(t *testing.T, err error, status int, msg string) {
	t.Helper()

	var ge *goerror.Error
	require.True(t, errors.As(err, &ge), "expected *goerror.Error, got %T: %v", err, err)
	require.Equal(t, status, ge.StatusCode())
	require.Equal(t, msg, ge.Msg())
}
