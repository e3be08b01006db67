package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates no account matches the requested key.
	ErrNotFound = errors.New("account not found")

	// ErrEmailTaken indicates a create collided with an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrChallengeGone indicates a conditional challenge update matched no
	// row: the pending code or token was already consumed or replaced.
	ErrChallengeGone = errors.New("challenge no longer pending")
)

// Repository persists accounts. Challenge mutations are single conditional
// statements so that concurrent issuance and verification against the same
// account serialize on the row rather than racing read-modify-write cycles.
type Repository interface {
	Create(ctx context.Context, acct Account) error
	FindByID(ctx context.Context, id string) (Account, error)
	FindByEmail(ctx context.Context, email string) (Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id, name, phone string) error

	// SetOTPChallenge unconditionally replaces any pending OTP.
	SetOTPChallenge(ctx context.Context, id string, challenge OTPChallenge) error
	// ConsumeOTPChallenge clears the pending OTP and marks the account
	// verified, but only while the stored code still equals code.
	ConsumeOTPChallenge(ctx context.Context, id, code string) error

	// SetVerificationToken stores the emailed link token.
	SetVerificationToken(ctx context.Context, id, token string) error
	// RedeemVerificationToken marks the owning account verified and clears
	// the token in one statement, making redemption single-use.
	RedeemVerificationToken(ctx context.Context, token string) (Account, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, email, password_hash, name, phone, is_admin, verified, otp_code, otp_expires_at, verification_token, created_at`

// Create inserts a new account.
func (r *PostgresRepository) Create(ctx context.Context, acct Account) error {
	acctID, err := uuid.Parse(acct.ID)
	if err != nil {
		return err
	}
	var otpCode *string
	var otpExpires *time.Time
	if acct.OTP != nil {
		otpCode = &acct.OTP.Code
		expires := acct.OTP.ExpiresAt.UTC()
		otpExpires = &expires
	}
	var token *string
	if acct.VerificationToken != "" {
		token = &acct.VerificationToken
	}
	_, err = r.db.Exec(ctx, `INSERT INTO accounts (id, email, password_hash, name, phone, is_admin, verified, otp_code, otp_expires_at, verification_token, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		acctID, acct.Email, acct.PasswordHash, acct.Name, acct.Phone, acct.Admin, acct.Verified, otpCode, otpExpires, token, acct.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// FindByID fetches an account by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Account, error) {
	acctID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, acctID)
	return scanAccount(row)
}

// FindByEmail fetches an account by email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

// ExistsByEmail reports whether an account already uses the email.
func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// UpdateProfile stores the owner-editable fields.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id, name, phone string) error {
	acctID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE accounts SET name = $1, phone = $2 WHERE id = $3`, name, phone, acctID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetOTPChallenge overwrites any pending code for the account.
func (r *PostgresRepository) SetOTPChallenge(ctx context.Context, id string, challenge OTPChallenge) error {
	acctID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE accounts SET otp_code = $1, otp_expires_at = $2 WHERE id = $3`,
		challenge.Code, challenge.ExpiresAt.UTC(), acctID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ConsumeOTPChallenge clears the code and flips verified in one statement.
// The WHERE clause on otp_code makes a repeat or concurrent consume a no-op.
func (r *PostgresRepository) ConsumeOTPChallenge(ctx context.Context, id, code string) error {
	acctID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE accounts SET otp_code = NULL, otp_expires_at = NULL, verified = TRUE
        WHERE id = $1 AND otp_code = $2`, acctID, code)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrChallengeGone
	}
	return nil
}

// SetVerificationToken stores the link token for later redemption.
func (r *PostgresRepository) SetVerificationToken(ctx context.Context, id, token string) error {
	acctID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE accounts SET verification_token = $1 WHERE id = $2`, token, acctID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RedeemVerificationToken flips verified and clears the token atomically.
func (r *PostgresRepository) RedeemVerificationToken(ctx context.Context, token string) (Account, error) {
	row := r.db.QueryRow(ctx, `UPDATE accounts SET verification_token = NULL, verified = TRUE
        WHERE verification_token = $1 RETURNING `+accountColumns, token)
	acct, err := scanAccount(row)
	if errors.Is(err, ErrNotFound) {
		return Account{}, ErrChallengeGone
	}
	return acct, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (Account, error) {
	var (
		acct       Account
		id         uuid.UUID
		otpCode    *string
		otpExpires *time.Time
		token      *string
		createdAt  time.Time
	)
	err := row.Scan(&id, &acct.Email, &acct.PasswordHash, &acct.Name, &acct.Phone, &acct.Admin,
		&acct.Verified, &otpCode, &otpExpires, &token, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	acct.ID = id.String()
	acct.CreatedAt = createdAt.UTC()
	if otpCode != nil && otpExpires != nil {
		acct.OTP = &OTPChallenge{Code: *otpCode, ExpiresAt: otpExpires.UTC()}
	}
	if token != nil {
		acct.VerificationToken = *token
	}
	return acct, nil
}
