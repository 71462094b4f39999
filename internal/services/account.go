package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/csemotors/dealer/config"
	"github.com/csemotors/dealer/internal/auth"
	"github.com/csemotors/dealer/internal/mq"
	"github.com/csemotors/dealer/internal/store"
	"github.com/csemotors/dealer/types"
)

// ErrInvalidCredentials is returned when the email is unknown or the
// password does not match. The two cases are not distinguished.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id int) (types.Account, error)
	GetByEmail(ctx context.Context, email string) (types.Account, error)
	Create(ctx context.Context, account types.Account) (types.Account, error)
	UpdateProfile(ctx context.Context, id int, firstName, lastName, email string) (types.Account, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	UpsertDefault(ctx context.Context, account types.Account) (types.Account, error)
}

// EventPublisher receives domain events. Publishing never fails a use-case.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload any)
}

// AccountService encapsulates account use-cases.
type AccountService struct {
	repo   AccountRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenIssuer
	events EventPublisher
}

func NewAccountService(repo AccountRepository, hasher *auth.PasswordHasher, tokens *auth.TokenIssuer, events EventPublisher) *AccountService {
	return &AccountService{repo: repo, hasher: hasher, tokens: tokens, events: events}
}

func (s *AccountService) GetByID(ctx context.Context, id int) (types.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.Account{}, err
	}
	return account.WithoutPassword(), nil
}

// Register creates a Client account. The input is expected to be validated.
func (s *AccountService) Register(ctx context.Context, firstName, lastName, email, password string) (types.Account, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return types.Account{}, err
	}

	account, err := s.repo.Create(ctx, types.Account{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		Role:         types.RoleClient,
	})
	if err != nil {
		return types.Account{}, fmt.Errorf("create account: %w", err)
	}

	s.publish(ctx, mq.AccountRegistered, account)
	return account.WithoutPassword(), nil
}

// Authenticate checks the credentials and returns the account without its
// password hash.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (types.Account, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return types.Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return types.Account{}, fmt.Errorf("lookup account: %w", err)
	}
	if !s.hasher.Verify(password, account.PasswordHash) {
		return types.Account{}, ErrInvalidCredentials
	}
	return account.WithoutPassword(), nil
}

// IssueToken signs a session token for the account.
func (s *AccountService) IssueToken(account types.Account) (string, error) {
	return s.tokens.Issue(account)
}

// TokenMaxAge is the lifetime of issued tokens in seconds.
func (s *AccountService) TokenMaxAge() int {
	return int(s.tokens.TTL().Seconds())
}

// UpdateProfile changes name and email. Running it twice with the same
// values leaves the same row state.
func (s *AccountService) UpdateProfile(ctx context.Context, id int, firstName, lastName, email string) (types.Account, error) {
	account, err := s.repo.UpdateProfile(ctx, id, firstName, lastName, email)
	if err != nil {
		return types.Account{}, fmt.Errorf("update account %d: %w", id, err)
	}
	return account.WithoutPassword(), nil
}

// UpdatePassword replaces the password hash and returns the refreshed account.
func (s *AccountService) UpdatePassword(ctx context.Context, id int, password string) (types.Account, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return types.Account{}, err
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return types.Account{}, fmt.Errorf("update password %d: %w", id, err)
	}
	return s.GetByID(ctx, id)
}

// DefaultAccounts are the accounts created by the seed command.
func DefaultAccounts(seed config.SeedConfig) []DefaultAccount {
	return []DefaultAccount{
		{FirstName: "Basic", LastName: "Client", Email: "basic@340.edu", Role: types.RoleClient, Password: seed.ClientPassword},
		{FirstName: "Happy", LastName: "Employee", Email: "happy@340.edu", Role: types.RoleEmployee, Password: seed.EmployeePassword},
		{FirstName: "Manager", LastName: "User", Email: "manager@340.edu", Role: types.RoleAdmin, Password: seed.AdminPassword},
	}
}

type DefaultAccount struct {
	FirstName string
	LastName  string
	Email     string
	Role      types.Role
	Password  string
}

// EnsureDefaultAccounts inserts missing default accounts and refreshes the
// name and role of existing ones. Existing passwords are kept.
func (s *AccountService) EnsureDefaultAccounts(ctx context.Context, defaults []DefaultAccount) ([]types.Account, error) {
	accounts := make([]types.Account, 0, len(defaults))
	for _, d := range defaults {
		hash, err := s.hasher.Hash(d.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", d.Email, err)
		}
		account, err := s.repo.UpsertDefault(ctx, types.Account{
			FirstName:    d.FirstName,
			LastName:     d.LastName,
			Email:        d.Email,
			PasswordHash: hash,
			Role:         d.Role,
		})
		if err != nil {
			return nil, fmt.Errorf("upsert %s: %w", d.Email, err)
		}
		accounts = append(accounts, account.WithoutPassword())
	}
	return accounts, nil
}

func (s *AccountService) publish(ctx context.Context, event string, account types.Account) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, event, map[string]any{
		"account_id":   account.ID,
		"account_type": account.Role,
	})
}
