package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stride-sport/stride/internal/account"
	"github.com/stride-sport/stride/internal/config"
	"github.com/stride-sport/stride/internal/logging"
)

type captureMailer struct {
	mu        sync.Mutex
	lastOTP   string
	lastToken string
	otpCount  int
	fail      bool
}

func (m *captureMailer) SendOTP(_ context.Context, _, code, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp exploded")
	}
	m.lastOTP = code
	m.otpCount++
	return nil
}

func (m *captureMailer) SendVerificationLink(_ context.Context, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp exploded")
	}
	m.lastToken = token
	return nil
}

func (m *captureMailer) SendOrderConfirmation(_ context.Context, _, _ string, _ int64) error {
	return nil
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:        "test-secret",
		TokenTTL:         time.Hour,
		OTPTTL:           10 * time.Minute,
		VerificationMode: config.VerificationModeOTP,
		NotifyFailure:    config.NotifyFailurePropagate,
	}
}

func newTestService(cfg config.Config) (*Service, account.Repository, *captureMailer) {
	repo := account.NewMemoryRepository()
	mailer := &captureMailer{}
	tokens := NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)
	svc := NewService(cfg, repo, mailer, tokens, logging.Discard())
	return svc, repo, mailer
}

func signup(t *testing.T, svc *Service, email string) {
	t.Helper()
	if err := svc.Signup(context.Background(), SignupInput{Email: email, Password: "pw", Name: "Ann"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestService(testConfig())
	ctx := context.Background()

	signup(t, svc, "a@x.com")

	err := svc.Signup(ctx, SignupInput{Email: "a@x.com", Password: "other", Name: "Mallory"})
	if err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	acct, err := repo.FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if acct.Name != "Ann" {
		t.Fatalf("duplicate signup mutated the existing account: %+v", acct)
	}
}

func TestSignupOTPConfirmFlow(t *testing.T) {
	svc, repo, mailer := newTestService(testConfig())
	ctx := context.Background()

	signup(t, svc, "a@x.com")
	if mailer.lastOTP == "" {
		t.Fatal("expected an otp to be delivered")
	}

	if err := svc.ConfirmSignupOTP(ctx, "a@x.com", "0000"); err != ErrOTPMismatch {
		t.Fatalf("expected ErrOTPMismatch for wrong code, got %v", err)
	}

	if err := svc.ConfirmSignupOTP(ctx, "a@x.com", mailer.lastOTP); err != nil {
		t.Fatalf("confirm with correct code: %v", err)
	}

	acct, _ := repo.FindByEmail(ctx, "a@x.com")
	if !acct.Verified {
		t.Fatal("expected account to be verified")
	}
	if acct.OTP != nil {
		t.Fatal("expected pending otp to be cleared")
	}

	// The code was consumed; replaying it must not work.
	if err := svc.ConfirmSignupOTP(ctx, "a@x.com", mailer.lastOTP); err != ErrNoPendingOTP {
		t.Fatalf("expected ErrNoPendingOTP on replay, got %v", err)
	}
}

func TestConfirmOTPExpired(t *testing.T) {
	svc, _, mailer := newTestService(testConfig())
	ctx := context.Background()

	signup(t, svc, "a@x.com")

	svc.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	if err := svc.ConfirmSignupOTP(ctx, "a@x.com", mailer.lastOTP); err != ErrOTPExpired {
		t.Fatalf("expected ErrOTPExpired even with matching code, got %v", err)
	}
}

func TestConfirmOTPUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(testConfig())

	if err := svc.ConfirmSignupOTP(context.Background(), "nobody@x.com", "1234"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSigninOTPFlow(t *testing.T) {
	cfg := testConfig()
	svc, _, mailer := newTestService(cfg)
	ctx := context.Background()

	signup(t, svc, "a@x.com")
	if err := svc.ConfirmSignupOTP(ctx, "a@x.com", mailer.lastOTP); err != nil {
		t.Fatalf("confirm signup: %v", err)
	}

	if err := svc.RequestSigninOTP(ctx, "a@x.com"); err != nil {
		t.Fatalf("request signin otp: %v", err)
	}
	if mailer.otpCount != 2 {
		t.Fatalf("expected a second otp delivery, got %d", mailer.otpCount)
	}

	session, err := svc.ConfirmSigninOTP(ctx, "a@x.com", mailer.lastOTP)
	if err != nil {
		t.Fatalf("confirm signin otp: %v", err)
	}
	if session.Email != "a@x.com" || session.Token == "" {
		t.Fatalf("unexpected session: %+v", session)
	}

	subject, err := NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL).Verify(session.Token)
	if err != nil {
		t.Fatalf("verify minted token: %v", err)
	}
	if subject != "a@x.com" {
		t.Fatalf("expected token subject a@x.com, got %q", subject)
	}
}

func TestSigninOTPReissueReplacesPending(t *testing.T) {
	svc, _, mailer := newTestService(testConfig())
	ctx := context.Background()

	signup(t, svc, "a@x.com")
	first := mailer.lastOTP

	if err := svc.RequestSigninOTP(ctx, "a@x.com"); err != nil {
		t.Fatalf("request signin otp: %v", err)
	}
	second := mailer.lastOTP

	if first == second {
		t.Skip("independent draws collided; nothing to assert")
	}
	if _, err := svc.ConfirmSigninOTP(ctx, "a@x.com", first); err != ErrOTPMismatch {
		t.Fatalf("expected superseded code to fail with ErrOTPMismatch, got %v", err)
	}
	if _, err := svc.ConfirmSigninOTP(ctx, "a@x.com", second); err != nil {
		t.Fatalf("expected fresh code to succeed, got %v", err)
	}
}

func TestSigninOTPDefaultPolicySkipsVerifiedCheck(t *testing.T) {
	// As shipped, the OTP sign-in path mints a token without ever checking
	// the verified flag: confirming the sign-in code is itself the proof of
	// mailbox ownership (and flips the flag as a side effect).
	svc, _, mailer := newTestService(testConfig())
	ctx := context.Background()

	signup(t, svc, "a@x.com")

	if err := svc.RequestSigninOTP(ctx, "a@x.com"); err != nil {
		t.Fatalf("request signin otp for unverified account: %v", err)
	}
	if _, err := svc.ConfirmSigninOTP(ctx, "a@x.com", mailer.lastOTP); err != nil {
		t.Fatalf("confirm signin otp for unverified account: %v", err)
	}
}

func TestSigninOTPRequireVerifiedPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.SigninRequireVerified = true
	svc, _, mailer := newTestService(cfg)
	ctx := context.Background()

	signup(t, svc, "a@x.com")

	if err := svc.RequestSigninOTP(ctx, "a@x.com"); err != ErrEmailNotVerified {
		t.Fatalf("expected ErrEmailNotVerified before confirmation, got %v", err)
	}

	if err := svc.ConfirmSignupOTP(ctx, "a@x.com", mailer.lastOTP); err != nil {
		t.Fatalf("confirm signup: %v", err)
	}
	if err := svc.RequestSigninOTP(ctx, "a@x.com"); err != nil {
		t.Fatalf("request signin otp after verification: %v", err)
	}
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	svc, _, mailer := newTestService(testConfig())
	ctx := context.Background()

	signup(t, svc, "a@x.com")

	if _, err := svc.Login(ctx, "a@x.com", "pw"); err != ErrEmailNotVerified {
		t.Fatalf("expected ErrEmailNotVerified before confirmation, got %v", err)
	}

	if err := svc.ConfirmSignupOTP(ctx, "a@x.com", mailer.lastOTP); err != nil {
		t.Fatalf("confirm signup: %v", err)
	}

	session, err := svc.Login(ctx, "a@x.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Email != "a@x.com" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestLoginUniformCredentialError(t *testing.T) {
	svc, _, mailer := newTestService(testConfig())
	ctx := context.Background()

	signup(t, svc, "a@x.com")
	if err := svc.ConfirmSignupOTP(ctx, "a@x.com", mailer.lastOTP); err != nil {
		t.Fatalf("confirm signup: %v", err)
	}

	_, wrongPassword := svc.Login(ctx, "a@x.com", "nope")
	_, unknownEmail := svc.Login(ctx, "b@x.com", "pw")

	if wrongPassword != ErrInvalidCredentials || unknownEmail != ErrInvalidCredentials {
		t.Fatalf("expected identical credential errors, got %v and %v", wrongPassword, unknownEmail)
	}
}

func TestVerificationLinkFlow(t *testing.T) {
	cfg := testConfig()
	cfg.VerificationMode = config.VerificationModeLink
	svc, repo, mailer := newTestService(cfg)
	ctx := context.Background()

	signup(t, svc, "a@x.com")
	if mailer.lastToken == "" {
		t.Fatal("expected a verification link to be delivered")
	}
	if mailer.lastOTP != "" {
		t.Fatal("link mode must not issue an otp")
	}

	if err := svc.RedeemVerificationLink(ctx, mailer.lastToken); err != nil {
		t.Fatalf("redeem: %v", err)
	}

	acct, _ := repo.FindByEmail(ctx, "a@x.com")
	if !acct.Verified || acct.VerificationToken != "" {
		t.Fatalf("expected verified account with cleared token, got %+v", acct)
	}

	if err := svc.RedeemVerificationLink(ctx, mailer.lastToken); err != ErrInvalidToken {
		t.Fatalf("expected second redemption to fail with ErrInvalidToken, got %v", err)
	}
}

func TestRedeemUnknownToken(t *testing.T) {
	cfg := testConfig()
	cfg.VerificationMode = config.VerificationModeLink
	svc, _, _ := newTestService(cfg)

	if err := svc.RedeemVerificationLink(context.Background(), "bogus"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if err := svc.RedeemVerificationLink(context.Background(), ""); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestNotifyFailurePropagates(t *testing.T) {
	svc, repo, mailer := newTestService(testConfig())
	mailer.fail = true
	ctx := context.Background()

	err := svc.Signup(ctx, SignupInput{Email: "a@x.com", Password: "pw", Name: "Ann"})
	if err == nil {
		t.Fatal("expected delivery failure to propagate")
	}

	// The pending challenge survives the failed send, so the caller can
	// request a fresh code instead of re-registering.
	acct, findErr := repo.FindByEmail(ctx, "a@x.com")
	if findErr != nil {
		t.Fatalf("expected account to be persisted, got %v", findErr)
	}
	if acct.OTP == nil {
		t.Fatal("expected pending otp to survive the failed delivery")
	}

	mailer.fail = false
	if err := svc.RequestSigninOTP(ctx, "a@x.com"); err != nil {
		t.Fatalf("reissue after failed delivery: %v", err)
	}
}

func TestNotifyFailureIgnored(t *testing.T) {
	cfg := testConfig()
	cfg.NotifyFailure = config.NotifyFailureIgnore
	svc, _, mailer := newTestService(cfg)
	mailer.fail = true

	if err := svc.Signup(context.Background(), SignupInput{Email: "a@x.com", Password: "pw"}); err != nil {
		t.Fatalf("expected delivery failure to be swallowed, got %v", err)
	}
}
