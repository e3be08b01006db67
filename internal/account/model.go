package account

import "time"

// OTPChallenge is a pending one-time passcode bound to an account. It exists
// only between issuance and successful verification, replacement, or expiry.
type OTPChallenge struct {
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the challenge window has closed at the given time.
func (c OTPChallenge) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// Account represents a registered shopper.
type Account struct {
	ID           string
	Email        string
	PasswordHash []byte
	Name         string
	Phone        string
	Admin        bool
	Verified     bool

	// OTP and VerificationToken are independent pending-challenge fields.
	// Either may be set; they are issued and cleared separately.
	OTP               *OTPChallenge
	VerificationToken string

	CreatedAt time.Time
}
