package repository

import (
	"context"

	"dutytrip/internal/domain"
)

// AccountRepository defines the persistence operations for accounts.
type AccountRepository interface {
	// Create persists a new account. Returns ErrDuplicateName if the
	// name is already registered.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// GetByName retrieves an account by its unique name.
	GetByName(ctx context.Context, name string) (*domain.Account, error)

	// GetAll retrieves all accounts.
	GetAll(ctx context.Context) ([]*domain.Account, error)
}
