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

// SaveTemplate inserts or updates a template. Saving a template flagged
// default unsets the flag on every other template in the same transaction,
// so at most one default exists at all times.
func (s *Store) SaveTemplate(ctx context.Context, tpl *models.Template) error {
	if tpl.ID == "" {
		tpl.ID = "tpl_" + uuid.NewString()
	}
	now := time.Now()

	tx, err := s.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if tpl.IsDefault {
		if _, err := tx.ExecContext(ctx, `UPDATE templates SET is_default = false WHERE id != ?`, tpl.ID); err != nil {
			return fmt.Errorf("failed to unset default templates: %w", err)
		}
	}

	query := `
		INSERT INTO templates (id, name, subject, body, is_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			subject = excluded.subject,
			body = excluded.body,
			is_default = excluded.is_default,
			updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, query, tpl.ID, tpl.Name, tpl.Subject, tpl.Body, tpl.IsDefault, now, now); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit template: %w", err)
	}
	tpl.UpdatedAt = now
	return nil
}

// GetTemplate returns a template by ID
func (s *Store) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	var tpl models.Template
	err := s.GetContext(ctx, &tpl, `SELECT * FROM templates WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &tpl, nil
}

// GetTemplates returns all templates, oldest first
func (s *Store) GetTemplates(ctx context.Context) ([]*models.Template, error) {
	var tpls []*models.Template
	err := s.SelectContext(ctx, &tpls, `SELECT * FROM templates ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get templates: %w", err)
	}
	return tpls, nil
}

// DefaultTemplate resolves the template used for one-click sends: the one
// flagged default, else the first available.
func (s *Store) DefaultTemplate(ctx context.Context) (*models.Template, error) {
	var tpl models.Template
	err := s.GetContext(ctx, &tpl, `SELECT * FROM templates ORDER BY is_default DESC, created_at ASC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default template: %w", err)
	}
	return &tpl, nil
}

// SetDefaultTemplate flags one template as default and unsets every other
func (s *Store) SetDefaultTemplate(ctx context.Context, id string) error {
	tx, err := s.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE templates SET is_default = false`); err != nil {
		return fmt.Errorf("failed to unset default templates: %w", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE templates SET is_default = true, updated_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set default template: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// DeleteTemplate deletes a template
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	_, err := s.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}
