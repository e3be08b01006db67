package account

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu       sync.Mutex
	accounts map[string]Account // keyed by id
	byEmail  map[string]string  // email -> id
}

// NewMemoryRepository builds an in-memory account store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		accounts: make(map[string]Account),
		byEmail:  make(map[string]string),
	}
}

func (r *memoryRepository) Create(_ context.Context, acct Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[acct.Email]; exists {
		return ErrEmailTaken
	}
	r.accounts[acct.ID] = cloneAccount(acct)
	r.byEmail[acct.Email] = acct.ID
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return cloneAccount(acct), nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return Account{}, ErrNotFound
	}
	return cloneAccount(r.accounts[id]), nil
}

func (r *memoryRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *memoryRepository) UpdateProfile(_ context.Context, id, name, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	acct.Name = name
	acct.Phone = phone
	r.accounts[id] = acct
	return nil
}

func (r *memoryRepository) SetOTPChallenge(_ context.Context, id string, challenge OTPChallenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	acct.OTP = &challenge
	r.accounts[id] = acct
	return nil
}

func (r *memoryRepository) ConsumeOTPChallenge(_ context.Context, id, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	if acct.OTP == nil || acct.OTP.Code != code {
		return ErrChallengeGone
	}
	acct.OTP = nil
	acct.Verified = true
	r.accounts[id] = acct
	return nil
}

func (r *memoryRepository) SetVerificationToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	acct.VerificationToken = token
	r.accounts[id] = acct
	return nil
}

func (r *memoryRepository) RedeemVerificationToken(_ context.Context, token string) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, acct := range r.accounts {
		if acct.VerificationToken != "" && acct.VerificationToken == token {
			acct.VerificationToken = ""
			acct.Verified = true
			r.accounts[id] = acct
			return cloneAccount(acct), nil
		}
	}
	return Account{}, ErrChallengeGone
}

func cloneAccount(acct Account) Account {
	if acct.OTP != nil {
		otp := *acct.OTP
		acct.OTP = &otp
	}
	if acct.PasswordHash != nil {
		hash := make([]byte, len(acct.PasswordHash))
		copy(hash, acct.PasswordHash)
		acct.PasswordHash = hash
	}
	return acct
}
