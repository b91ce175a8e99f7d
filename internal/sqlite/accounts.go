package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bhuumii/Medium/internal/domain"
)

const accountColumns = `id, name, email, password_hash, short_bio, about, created_at`

// CreateAccount inserts a new account. A duplicate email is reported as
// domain.ErrConflict.
func (r *Repository) CreateAccount(ctx context.Context, account *domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, email, password_hash, short_bio, about, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		account.ID,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.ShortBio,
		account.About,
		account.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetAccount retrieves an account by ID.
func (r *Repository) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return r.scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
}

// GetAccountByEmail retrieves an account by exact email match.
func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.scanAccount(r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email))
}

// UpdateAccount persists the account's mutable fields. The email is part of
// the row's identity here and is never rewritten.
func (r *Repository) UpdateAccount(ctx context.Context, account *domain.Account) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET name = ?, password_hash = ?, short_bio = ?, about = ?
		WHERE id = ?`,
		account.Name,
		account.PasswordHash,
		account.ShortBio,
		account.About,
		account.ID,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.PasswordHash,
		&a.ShortBio,
		&a.About,
		&a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}
