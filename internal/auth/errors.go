package auth

import "net/http"

// Kind is a machine-readable classification carried by every auth error.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindAlreadyExists      Kind = "already_exists"
	KindNoPendingChallenge Kind = "no_pending_challenge"
	KindOTPExpired         Kind = "otp_expired"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindEmailNotVerified   Kind = "email_not_verified"
	KindInvalidToken       Kind = "invalid_token"
	KindTokenExpired       Kind = "token_expired"
)

// Error is a caller-fault authentication failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus maps the error kind to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyExists:
		return http.StatusConflict
	case KindInvalidCredentials, KindInvalidToken, KindTokenExpired:
		return http.StatusUnauthorized
	case KindEmailNotVerified:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

var (
	// ErrNotFound reports an unresolved email on the OTP flows, which tell
	// the caller whether an account exists (signup must, to reject duplicates).
	ErrNotFound = &Error{Kind: KindNotFound, Message: "account not found"}

	// ErrEmailTaken rejects a duplicate signup.
	ErrEmailTaken = &Error{Kind: KindAlreadyExists, Message: "email already registered"}

	// ErrNoPendingOTP means no code is outstanding, including a replay after
	// a successful verification consumed it.
	ErrNoPendingOTP = &Error{Kind: KindNoPendingChallenge, Message: "no pending code, request a new one"}

	// ErrOTPExpired means the code window closed before verification.
	ErrOTPExpired = &Error{Kind: KindOTPExpired, Message: "code expired, request a new one"}

	// ErrOTPMismatch means the submitted code does not match the pending one.
	ErrOTPMismatch = &Error{Kind: KindInvalidCredentials, Message: "invalid code, try again"}

	// ErrInvalidCredentials is the single message for unknown email and wrong
	// password on the login path, so the response does not reveal which.
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid email or password"}

	// ErrEmailNotVerified gates login (and, by policy, OTP sign-in) on a
	// confirmed email.
	ErrEmailNotVerified = &Error{Kind: KindEmailNotVerified, Message: "email not verified"}

	// ErrInvalidToken covers unknown, malformed, and already-redeemed tokens.
	ErrInvalidToken = &Error{Kind: KindInvalidToken, Message: "invalid or expired token"}

	// ErrTokenExpired reports a bearer token past its embedded expiry.
	ErrTokenExpired = &Error{Kind: KindTokenExpired, Message: "session expired"}
)
