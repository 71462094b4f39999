package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/csemotors/dealer/types"
	"github.com/jmoiron/sqlx"
)

const accountColumns = `account_id, account_firstname, account_lastname, account_email,
		account_password, account_type, created_at, updated_at`

// AccountRepository handles persistence for accounts.
type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, id int) (types.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM account WHERE account_id = $1`
	var account types.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Account{}, ErrNotFound
		}
		return types.Account{}, err
	}
	return account, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (types.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM account WHERE account_email = $1 LIMIT 1`
	var account types.Account
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Account{}, ErrNotFound
		}
		return types.Account{}, err
	}
	return account, nil
}

func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM account WHERE account_email = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *AccountRepository) Create(ctx context.Context, account types.Account) (types.Account, error) {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	const query = `
		INSERT INTO account (account_firstname, account_lastname, account_email, account_password, account_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING account_id`
	if err := r.db.QueryRowxContext(
		ctx,
		query,
		account.FirstName,
		account.LastName,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&account.ID); err != nil {
		return types.Account{}, mapWriteError(err)
	}
	return account, nil
}

// UpdateProfile changes the name and email of an account and returns the
// stored row.
func (r *AccountRepository) UpdateProfile(ctx context.Context, id int, firstName, lastName, email string) (types.Account, error) {
	const query = `
		UPDATE account
		SET account_firstname = $1,
			account_lastname = $2,
			account_email = $3,
			updated_at = $4
		WHERE account_id = $5
		RETURNING ` + accountColumns
	var account types.Account
	err := r.db.GetContext(ctx, &account, query, firstName, lastName, email, time.Now(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Account{}, ErrNotFound
		}
		return types.Account{}, mapWriteError(err)
	}
	return account, nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	const query = `
		UPDATE account
		SET account_password = $1,
			updated_at = $2
		WHERE account_id = $3`
	result, err := r.db.ExecContext(ctx, query, passwordHash, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertDefault inserts the account when its email is unknown. Otherwise it
// refreshes the name and role and keeps the stored password.
func (r *AccountRepository) UpsertDefault(ctx context.Context, account types.Account) (types.Account, error) {
	now := time.Now()
	const query = `
		INSERT INTO account (account_firstname, account_lastname, account_email, account_password, account_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (account_email) DO UPDATE
		SET account_firstname = EXCLUDED.account_firstname,
			account_lastname = EXCLUDED.account_lastname,
			account_type = EXCLUDED.account_type,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + accountColumns
	var stored types.Account
	if err := r.db.GetContext(
		ctx,
		&stored,
		query,
		account.FirstName,
		account.LastName,
		account.Email,
		account.PasswordHash,
		account.Role,
		now,
	); err != nil {
		return types.Account{}, err
	}
	return stored, nil
}
