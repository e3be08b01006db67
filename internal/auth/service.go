package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stride-sport/stride/internal/account"
	"github.com/stride-sport/stride/internal/config"
	"github.com/stride-sport/stride/internal/notification"
)

// Service sequences the verification and sign-in flows. It holds no state of
// its own; every flow reads and conditionally updates the account record.
type Service struct {
	repo   account.Repository
	mailer notification.Mailer
	tokens *TokenIssuer
	logger *slog.Logger

	otpTTL                time.Duration
	verificationMode      string
	signinRequireVerified bool
	propagateMailErrors   bool

	now func() time.Time
}

// NewService builds the authentication orchestrator from configuration.
func NewService(cfg config.Config, repo account.Repository, mailer notification.Mailer, tokens *TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		repo:                  repo,
		mailer:                mailer,
		tokens:                tokens,
		logger:                logger,
		otpTTL:                cfg.OTPTTL,
		verificationMode:      cfg.VerificationMode,
		signinRequireVerified: cfg.SigninRequireVerified,
		propagateMailErrors:   cfg.NotifyFailure == config.NotifyFailurePropagate,
		now:                   time.Now,
	}
}

// SignupInput captures the data required to register an account.
type SignupInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// Session is the result of a successful sign-in.
type Session struct {
	Token     string
	AccountID string
	Email     string
	Name      string
}

// Signup registers a new unverified account and starts the configured
// confirmation flow: an emailed OTP, or an emailed verification link.
func (s *Service) Signup(ctx context.Context, in SignupInput) error {
	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	acct := account.Account{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Phone:        in.Phone,
		CreatedAt:    s.now().UTC(),
	}

	var code string
	if s.verificationMode == config.VerificationModeLink {
		acct.VerificationToken = uuid.NewString()
	} else {
		code, err = generateOTPCode()
		if err != nil {
			return err
		}
		acct.OTP = &account.OTPChallenge{Code: code, ExpiresAt: s.now().Add(s.otpTTL)}
	}

	if err := s.repo.Create(ctx, acct); err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			return ErrEmailTaken
		}
		return err
	}

	if s.verificationMode == config.VerificationModeLink {
		return s.deliver("verification link", acct.Email,
			s.mailer.SendVerificationLink(ctx, acct.Email, acct.VerificationToken))
	}
	return s.deliver("signup otp", acct.Email,
		s.mailer.SendOTP(ctx, acct.Email, code, acct.Name))
}

// ConfirmSignupOTP redeems a signup code and marks the account verified.
func (s *Service) ConfirmSignupOTP(ctx context.Context, email, code string) error {
	acct, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.verifyOTP(ctx, acct, code)
}

// RequestSigninOTP issues a fresh sign-in code, replacing any pending one.
func (s *Service) RequestSigninOTP(ctx context.Context, email string) error {
	acct, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if s.signinRequireVerified && !acct.Verified {
		return ErrEmailNotVerified
	}

	code, err := generateOTPCode()
	if err != nil {
		return err
	}
	challenge := account.OTPChallenge{Code: code, ExpiresAt: s.now().Add(s.otpTTL)}
	if err := s.repo.SetOTPChallenge(ctx, acct.ID, challenge); err != nil {
		return err
	}
	return s.deliver("signin otp", acct.Email,
		s.mailer.SendOTP(ctx, acct.Email, code, acct.Name))
}

// ConfirmSigninOTP redeems a sign-in code and mints a bearer token.
func (s *Service) ConfirmSigninOTP(ctx context.Context, email, code string) (Session, error) {
	acct, err := s.findByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if s.signinRequireVerified && !acct.Verified {
		return Session{}, ErrEmailNotVerified
	}
	if err := s.verifyOTP(ctx, acct, code); err != nil {
		return Session{}, err
	}
	return s.mint(acct)
}

// Login authenticates with email and password. It requires a verified email
// and reports unknown-email and wrong-password identically.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	acct, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	if !acct.Verified {
		return Session{}, ErrEmailNotVerified
	}
	return s.mint(acct)
}

// RedeemVerificationLink exchanges an emailed token for verified status.
// Redemption is single-use: the token clears in the same statement that
// flips the flag, so a second presentation fails.
func (s *Service) RedeemVerificationLink(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	_, err := s.repo.RedeemVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, account.ErrChallengeGone) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (account.Account, error) {
	acct, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Account{}, ErrNotFound
		}
		return account.Account{}, err
	}
	return acct, nil
}

// verifyOTP runs the shared verification algorithm and consumes the code.
// The conditional consume keyed on the stored code turns a concurrent
// replacement or replay into ErrNoPendingOTP instead of a silent success.
func (s *Service) verifyOTP(ctx context.Context, acct account.Account, code string) error {
	if err := checkOTP(acct, code, s.now()); err != nil {
		return err
	}
	if err := s.repo.ConsumeOTPChallenge(ctx, acct.ID, acct.OTP.Code); err != nil {
		if errors.Is(err, account.ErrChallengeGone) {
			return ErrNoPendingOTP
		}
		return err
	}
	return nil
}

func (s *Service) mint(acct account.Account) (Session, error) {
	token, err := s.tokens.Mint(acct.Email)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, AccountID: acct.ID, Email: acct.Email, Name: acct.Name}, nil
}

// deliver applies the notifier failure policy. The pending state is already
// persisted by the time delivery runs, so under the ignore policy a failed
// send leaves a retryable challenge rather than a stranded signup.
func (s *Service) deliver(what, email string, err error) error {
	if err == nil {
		return nil
	}
	if s.propagateMailErrors {
		return err
	}
	if s.logger != nil {
		s.logger.Warn("mail delivery failed", "kind", what, "to", email, "error", err)
	}
	return nil
}
