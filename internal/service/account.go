package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"dutytrip/internal/domain"
	"dutytrip/internal/repository"
)

// AccountService handles account registration and authentication. It is
// deliberately decoupled from the trip lifecycle: an orphaned DriverID on
// a trip is tolerated there.
type AccountService struct {
	accountRepo repository.AccountRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo repository.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// RegisterRequest contains the parameters for registering an account.
type RegisterRequest struct {
	Name   string
	Secret string
	Role   domain.Role
}

// Register creates a new account with a bcrypt-hashed secret.
func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*domain.Account, error) {
	if req.Name == "" {
		return nil, ErrInvalidName
	}

	if req.Secret == "" {
		return nil, ErrInvalidSecret
	}

	if _, err := domain.ParseRole(string(req.Role)); err != nil {
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Role:       req.Role,
		SecretHash: string(hash),
		CreatedAt:  time.Now().Truncate(time.Second),
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, ErrNameTaken
		}
		return nil, err
	}

	return account, nil
}

// Authenticate verifies name and secret, returning the account on
// success. Failures collapse into ErrBadCredentials so callers cannot
// probe for registered names.
func (s *AccountService) Authenticate(ctx context.Context, name, secret string) (*domain.Account, error) {
	if name == "" || secret == "" {
		return nil, ErrBadCredentials
	}

	account, err := s.accountRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.SecretHash), []byte(secret)); err != nil {
		return nil, ErrBadCredentials
	}

	return account, nil
}

// GetAllAccounts retrieves all accounts. Administrative action.
func (s *AccountService) GetAllAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.accountRepo.GetAll(ctx)
}
