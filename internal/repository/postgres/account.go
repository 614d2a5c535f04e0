package postgres

import (
	"context"
	"database/sql"
	"errors"

	"dutytrip/internal/domain"
	"dutytrip/internal/repository"
)

// AccountRepository implements repository.AccountRepository using PostgreSQL.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create adds a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `INSERT INTO accounts (id, name, role, secret_hash, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Name,
		account.Role,
		account.SecretHash,
		account.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateName
		}
		return err
	}
	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT id, name, role, secret_hash, created_at FROM accounts WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByName retrieves an account by its unique name.
func (r *AccountRepository) GetByName(ctx context.Context, name string) (*domain.Account, error) {
	query := `SELECT id, name, role, secret_hash, created_at FROM accounts WHERE name = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

// GetAll retrieves all accounts.
func (r *AccountRepository) GetAll(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT id, name, role, secret_hash, created_at FROM accounts ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.ID, &account.Name, &account.Role, &account.SecretHash, &account.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, &account)
	}

	return accounts, rows.Err()
}

func (r *AccountRepository) scanOne(row *sql.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(&account.ID, &account.Name, &account.Role, &account.SecretHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// Ensure AccountRepository implements repository.AccountRepository.
var _ repository.AccountRepository = (*AccountRepository)(nil)
