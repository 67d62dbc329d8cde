package entity

import "time"

type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	IsVerified   bool
	OTPHash      *string
	OTPExpiry    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// State reports the lifecycle stage of the account.
func (a *Account) State() AccountState {
	if a == nil {
		return AccountStateNone
	}
	if a.IsVerified {
		return AccountStateVerified
	}
	return AccountStatePending
}

// HasPendingOTP reports whether a code is outstanding. Hash and expiry are
// always written and cleared together.
func (a *Account) HasPendingOTP() bool {
	return a.OTPHash != nil && *a.OTPHash != "" && a.OTPExpiry != nil
}

// PatchAccount carries the columns an update may touch. Nil fields are left
// unchanged. ClearOTP nulls both OTP columns and wins over OTPHash/OTPExpiry.
type PatchAccount struct {
	IsVerified *bool
	OTPHash    *string
	OTPExpiry  *time.Time
	ClearOTP   bool
	// OnlyUnverified restricts the update to accounts that are still pending.
	OnlyUnverified bool
	UpdatedAt      time.Time
}
