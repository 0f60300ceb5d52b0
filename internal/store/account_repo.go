package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/freightwiz/loadscout/pkg/models"
)

const activeAccountKey = "active_account_id"

// SaveAccount inserts or updates a sender account. The first account saved
// is forced main; flagging another as main unsets the previous one.
func (s *Store) SaveAccount(ctx context.Context, acct *models.EmailAccount) error {
	if acct.ID == "" {
		acct.ID = "acc_" + uuid.NewString()
	}
	now := time.Now()

	tx, err := s.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM email_accounts WHERE id != ?`, acct.ID); err != nil {
		return fmt.Errorf("failed to count accounts: %w", err)
	}
	if count == 0 {
		acct.IsMain = true
	}
	if acct.IsMain {
		if _, err := tx.ExecContext(ctx, `UPDATE email_accounts SET is_main = false WHERE id != ?`, acct.ID); err != nil {
			return fmt.Errorf("failed to unset main account: %w", err)
		}
	}

	query := `
		INSERT INTO email_accounts (id, email, company, phone, is_main, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			company = excluded.company,
			phone = excluded.phone,
			is_main = excluded.is_main,
			updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, query, acct.ID, acct.Email, acct.Company, acct.Phone, acct.IsMain, now, now); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit account: %w", err)
	}
	acct.UpdatedAt = now
	return nil
}

// GetAccount returns an account by ID
func (s *Store) GetAccount(ctx context.Context, id string) (*models.EmailAccount, error) {
	var acct models.EmailAccount
	err := s.GetContext(ctx, &acct, `SELECT * FROM email_accounts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acct, nil
}

// GetAccounts returns all accounts, oldest first
func (s *Store) GetAccounts(ctx context.Context) ([]*models.EmailAccount, error) {
	var accts []*models.EmailAccount
	err := s.SelectContext(ctx, &accts, `SELECT * FROM email_accounts ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	return accts, nil
}

// ActiveAccount resolves the identity used for signatures and attribution:
// the account the active pointer references, else the first available.
func (s *Store) ActiveAccount(ctx context.Context) (*models.EmailAccount, error) {
	var id string
	err := s.GetContext(ctx, &id, `SELECT value FROM settings WHERE key = ?`, activeAccountKey)
	if err == nil && id != "" {
		acct, err := s.GetAccount(ctx, id)
		if err == nil {
			return acct, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		// Stale pointer; fall through to the first account.
	}

	var acct models.EmailAccount
	err = s.GetContext(ctx, &acct, `SELECT * FROM email_accounts ORDER BY created_at ASC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active account: %w", err)
	}
	return &acct, nil
}

// SetActiveAccount points the active identity at an existing account
func (s *Store) SetActiveAccount(ctx context.Context, id string) error {
	if _, err := s.GetAccount(ctx, id); err != nil {
		return err
	}
	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.ExecContext(ctx, query, activeAccountKey, id); err != nil {
		return fmt.Errorf("failed to set active account: %w", err)
	}
	return nil
}

// DeleteAccount removes an account. The collection must never become empty:
// deleting the last account fails with ErrLastAccount. When the deleted
// account was active or main, those roles move to the oldest survivor.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	tx, err := s.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM email_accounts`); err != nil {
		return fmt.Errorf("failed to count accounts: %w", err)
	}
	if count <= 1 {
		return ErrLastAccount
	}

	var acct models.EmailAccount
	err = tx.GetContext(ctx, &acct, `SELECT * FROM email_accounts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM email_accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	var successor models.EmailAccount
	if err := tx.GetContext(ctx, &successor, `SELECT * FROM email_accounts ORDER BY created_at ASC LIMIT 1`); err != nil {
		return fmt.Errorf("failed to find successor account: %w", err)
	}

	if acct.IsMain {
		if _, err := tx.ExecContext(ctx, `UPDATE email_accounts SET is_main = true WHERE id = ?`, successor.ID); err != nil {
			return fmt.Errorf("failed to reassign main account: %w", err)
		}
	}

	var activeID string
	err = tx.GetContext(ctx, &activeID, `SELECT value FROM settings WHERE key = ?`, activeAccountKey)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read active account: %w", err)
	}
	if activeID == id {
		query := `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`
		if _, err := tx.ExecContext(ctx, query, activeAccountKey, successor.ID); err != nil {
			return fmt.Errorf("failed to reassign active account: %w", err)
		}
	}

	return tx.Commit()
}
