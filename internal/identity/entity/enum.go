package entity

type AccountState int8

const (
	// AccountStateNone means no account exists for the email.
	AccountStateNone AccountState = iota

	// AccountStatePending means the account exists and waits for its OTP.
	AccountStatePending

	// AccountStateVerified means the OTP was confirmed and login is allowed.
	AccountStateVerified
)

func (s AccountState) String() string {
	switch s {
	case AccountStatePending:
		return "Pending"
	case AccountStateVerified:
		return "Verified"
	default:
		return "None"
	}
}
