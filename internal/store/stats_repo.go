package store

import (
	"context"
	"fmt"

	"github.com/freightwiz/loadscout/pkg/models"
)

// GetStats returns the running counters
func (s *Store) GetStats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	err := s.GetContext(ctx, &stats, `SELECT sent, today, matched, skipped FROM stats WHERE id = 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &stats, nil
}

// RecordSend bumps the sent and today counters after a successful hand-off
func (s *Store) RecordSend(ctx context.Context) error {
	_, err := s.ExecContext(ctx, `UPDATE stats SET sent = sent + 1, today = today + 1 WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("failed to record send: %w", err)
	}
	return nil
}

// SetMatched records how many loads matched the operator's criteria
func (s *Store) SetMatched(ctx context.Context, n int) error {
	_, err := s.ExecContext(ctx, `UPDATE stats SET matched = ? WHERE id = 1`, n)
	if err != nil {
		return fmt.Errorf("failed to set matched: %w", err)
	}
	return nil
}

// RecordSkipped bumps the skipped counter
func (s *Store) RecordSkipped(ctx context.Context, n int) error {
	_, err := s.ExecContext(ctx, `UPDATE stats SET skipped = skipped + ? WHERE id = 1`, n)
	if err != nil {
		return fmt.Errorf("failed to record skipped: %w", err)
	}
	return nil
}

// ResetToday zeroes the daily counter. Called by the external daily rollover.
func (s *Store) ResetToday(ctx context.Context) error {
	_, err := s.ExecContext(ctx, `UPDATE stats SET today = 0 WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("failed to reset today counter: %w", err)
	}
	return nil
}

// MarkEmailed appends a load id to the emailed set (idempotent)
func (s *Store) MarkEmailed(ctx context.Context, loadID string) error {
	_, err := s.ExecContext(ctx, `INSERT OR IGNORE INTO emailed_loads (load_id) VALUES (?)`, loadID)
	if err != nil {
		return fmt.Errorf("failed to mark load emailed: %w", err)
	}
	return nil
}

// WasEmailed reports whether a load id is in the emailed set
func (s *Store) WasEmailed(ctx context.Context, loadID string) (bool, error) {
	var count int
	err := s.GetContext(ctx, &count, `SELECT COUNT(*) FROM emailed_loads WHERE load_id = ?`, loadID)
	if err != nil {
		return false, fmt.Errorf("failed to check emailed set: %w", err)
	}
	return count > 0, nil
}

// EmailedCount returns the size of the emailed set
func (s *Store) EmailedCount(ctx context.Context) (int, error) {
	var count int
	err := s.GetContext(ctx, &count, `SELECT COUNT(*) FROM emailed_loads`)
	if err != nil {
		return 0, fmt.Errorf("failed to count emailed loads: %w", err)
	}
	return count, nil
}
