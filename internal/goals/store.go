// Package goals persists the per-group goal amount: one amount per group
// name, falling back to a default when absent.
package goals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Store answers per-group goals, falling back to its configured default for
// groups without one.
type Store struct {
	db          *sql.DB
	defaultGoal decimal.Decimal
}

func Open(dbPath string, defaultGoal decimal.Decimal) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, defaultGoal: defaultGoal}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Goal returns the stored goal for a group, or the default when none is set.
func (s *Store) Goal(ctx context.Context, group string) (decimal.Decimal, error) {
	var amount string
	err := s.db.QueryRowContext(ctx,
		`SELECT amount FROM group_goals WHERE group_name = ?`, group).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return s.defaultGoal, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("read goal for %q: %w", group, err)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		slog.WarnContext(ctx, "Stored goal is not a valid amount, using default",
			"group", group, "amount", amount)
		return s.defaultGoal, nil
	}
	return d, nil
}

// SetGoal upserts the goal for a group.
func (s *Store) SetGoal(ctx context.Context, group string, amount decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO group_goals (group_name, amount, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(group_name) DO UPDATE SET
			amount = excluded.amount,
			updated_at = excluded.updated_at`,
		group, amount.String())
	if err != nil {
		return fmt.Errorf("set goal for %q: %w", group, err)
	}
	slog.InfoContext(ctx, "Group goal updated", "group", group, "goal", amount.String())
	return nil
}
