package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccount_State(t *testing.T) {
	var none *Account
	assert.Equal(t, AccountStateNone, none.State())
	assert.Equal(t, AccountStatePending, (&Account{}).State())
	assert.Equal(t, AccountStateVerified, (&Account{IsVerified: true}).State())
	assert.Equal(t, "Verified", AccountStateVerified.String())
	assert.Equal(t, "None", AccountState(42).String())
}

func TestAccount_HasPendingOTP(t *testing.T) {
	h := "hash"
	empty := ""
	exp := time.Now()

	assert.False(t, (&Account{}).HasPendingOTP())
	assert.False(t, (&Account{OTPHash: &h}).HasPendingOTP())
	assert.False(t, (&Account{OTPHash: &empty, OTPExpiry: &exp}).HasPendingOTP())
	assert.True(t, (&Account{OTPHash: &h, OTPExpiry: &exp}).HasPendingOTP())
}
