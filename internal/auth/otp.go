package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"github.com/stride-sport/stride/internal/account"
)

const otpCodeSpace = 9000 // codes are drawn from [1000, 9999]

// generateOTPCode draws a 4-digit code uniformly at random. The space is
// deliberately small for manual entry; the expiry window and the rate limit
// on the request endpoints bound guessing attempts.
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpCodeSpace))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%04d", 1000+n.Int64()), nil
}

// checkOTP validates a submitted code against the account's pending
// challenge. Checks run in strict order: presence, expiry, match. The
// comparison is constant-time even though the code space is tiny.
func checkOTP(acct account.Account, submitted string, now time.Time) error {
	if acct.OTP == nil {
		return ErrNoPendingOTP
	}
	if acct.OTP.Expired(now) {
		return ErrOTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(acct.OTP.Code)) != 1 {
		return ErrOTPMismatch
	}
	return nil
}
