package account

import "context"

// Service exposes profile operations for the authenticated account.
type Service struct {
	repo Repository
}

// NewService creates a new account service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Profile resolves the account behind a bearer subject.
func (s *Service) Profile(ctx context.Context, email string) (Account, error) {
	return s.repo.FindByEmail(ctx, email)
}

// UpdateProfile changes the owner-editable fields. Empty values keep the
// current ones, matching the partial-update behavior of the profile endpoint.
func (s *Service) UpdateProfile(ctx context.Context, email, name, phone string) (Account, error) {
	acct, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return Account{}, err
	}
	if name != "" {
		acct.Name = name
	}
	if phone != "" {
		acct.Phone = phone
	}
	if err := s.repo.UpdateProfile(ctx, acct.ID, acct.Name, acct.Phone); err != nil {
		return Account{}, err
	}
	return acct, nil
}
