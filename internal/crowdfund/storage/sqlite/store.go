// Package sqlite implements crowdfund persistence over SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/holiman/uint256"
	_ "modernc.org/sqlite"

	"github.com/louisbranch/crowdfund.space/internal/crowdfund/campaign"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/storage"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/storage/sqlite/migrations"
	apperrors "github.com/louisbranch/crowdfund.space/internal/platform/errors"
	"github.com/louisbranch/crowdfund.space/internal/platform/storage/sqlitemigrate"
)

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store implements crowdfund persistence over SQLite.
//
// A single SQLite file backs the whole contract so every entry point commits
// its campaign row, ledger row, and journal rows in one transaction.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a crowdfund SQLite store and applies bundled migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

const campaignColumns = `creator, asset, goal, deadline_ms, min_contribution, total_raised,
status, settled, admin, code_ref, title, description, socials,
initialized_at_ms, updated_at_ms`

// GetCampaign loads the aggregate row.
func (s *Store) GetCampaign(ctx context.Context) (campaign.Campaign, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+campaignColumns+` FROM campaign WHERE id = 1`)
	return scanCampaign(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (campaign.Campaign, error) {
	var (
		record          campaign.Campaign
		goal            string
		minContribution string
		totalRaised     string
		status          string
		settled         int64
		socials         string
		deadlineMs      int64
		initializedMs   int64
		updatedMs       int64
	)
	err := row.Scan(
		&record.Creator, &record.Asset, &goal, &deadlineMs, &minContribution, &totalRaised,
		&status, &settled, &record.Admin, &record.CodeRef, &record.Title, &record.Description,
		&socials, &initializedMs, &updatedMs,
	)
	if err == sql.ErrNoRows {
		return campaign.Campaign{}, storage.ErrNotFound
	}
	if err != nil {
		return campaign.Campaign{}, fmt.Errorf("scan campaign: %w", err)
	}

	if record.Goal, err = parseStoredAmount(goal); err != nil {
		return campaign.Campaign{}, fmt.Errorf("parse goal: %w", err)
	}
	if record.MinContribution, err = parseStoredAmount(minContribution); err != nil {
		return campaign.Campaign{}, fmt.Errorf("parse min contribution: %w", err)
	}
	if record.TotalRaised, err = parseStoredAmount(totalRaised); err != nil {
		return campaign.Campaign{}, fmt.Errorf("parse total raised: %w", err)
	}
	if socials != "" {
		if err := json.Unmarshal([]byte(socials), &record.Socials); err != nil {
			return campaign.Campaign{}, fmt.Errorf("parse socials: %w", err)
		}
	}
	record.Status = campaign.Status(status)
	record.Settled = settled != 0
	record.Deadline = fromMillis(deadlineMs)
	record.InitializedAt = fromMillis(initializedMs)
	record.UpdatedAt = fromMillis(updatedMs)
	return record, nil
}

// GetContribution loads one ledger balance, zero when absent.
func (s *Store) GetContribution(ctx context.Context, address string) (*uint256.Int, error) {
	var amount string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT amount FROM contributions WHERE address = ?1`, address,
	).Scan(&amount)
	if err == sql.ErrNoRows {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, fmt.Errorf("query contribution: %w", err)
	}
	return parseStoredAmount(amount)
}

// ListContributions returns the ledger ordered by address.
func (s *Store) ListContributions(ctx context.Context) ([]campaign.Contribution, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT address, amount FROM contributions ORDER BY address`)
	if err != nil {
		return nil, fmt.Errorf("query contributions: %w", err)
	}
	defer rows.Close()

	var entries []campaign.Contribution
	for rows.Next() {
		var (
			entry  campaign.Contribution
			amount string
		)
		if err := rows.Scan(&entry.Address, &amount); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		if entry.Amount, err = parseStoredAmount(amount); err != nil {
			return nil, fmt.Errorf("parse contribution amount: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ListRoadmapItems returns roadmap entries in insertion order.
func (s *Store) ListRoadmapItems(ctx context.Context) ([]campaign.RoadmapItem, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT seq, item_date_ms, description, added_at_ms FROM roadmap_items ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query roadmap items: %w", err)
	}
	defer rows.Close()

	var items []campaign.RoadmapItem
	for rows.Next() {
		var (
			item    campaign.RoadmapItem
			dateMs  int64
			addedMs int64
		)
		if err := rows.Scan(&item.Seq, &dateMs, &item.Description, &addedMs); err != nil {
			return nil, fmt.Errorf("scan roadmap item: %w", err)
		}
		item.Date = fromMillis(dateMs)
		item.AddedAt = fromMillis(addedMs)
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListStretchGoals returns stretch goals in insertion order. Thresholds are
// monotonic by construction, so insertion order is also threshold order.
func (s *Store) ListStretchGoals(ctx context.Context) ([]campaign.StretchGoal, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT seq, threshold, description, added_at_ms FROM stretch_goals ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query stretch goals: %w", err)
	}
	defer rows.Close()

	var goals []campaign.StretchGoal
	for rows.Next() {
		var (
			goal      campaign.StretchGoal
			threshold string
			addedMs   int64
		)
		if err := rows.Scan(&goal.Seq, &threshold, &goal.Description, &addedMs); err != nil {
			return nil, fmt.Errorf("scan stretch goal: %w", err)
		}
		if goal.Threshold, err = parseStoredAmount(threshold); err != nil {
			return nil, fmt.Errorf("parse stretch goal threshold: %w", err)
		}
		goal.AddedAt = fromMillis(addedMs)
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// ListJournal returns the newest journal entries, newest first.
func (s *Store) ListJournal(ctx context.Context, limit int) ([]storage.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT seq, event, actor, amount, note, at_ms FROM campaign_journal ORDER BY seq DESC LIMIT ?1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var entries []storage.JournalEntry
	for rows.Next() {
		var (
			entry storage.JournalEntry
			atMs  int64
		)
		if err := rows.Scan(&entry.Seq, &entry.Event, &entry.Actor, &entry.Amount, &entry.Note, &atMs); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entry.At = fromMillis(atMs)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Apply commits a changeset in one transaction.
func (s *Store) Apply(ctx context.Context, change storage.Changeset) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if change.Campaign != nil {
		if err := putCampaign(ctx, tx, change.InsertCampaign, *change.Campaign); err != nil {
			return err
		}
	}
	if change.Contribution != nil {
		if err := putContribution(ctx, tx, *change.Contribution); err != nil {
			return err
		}
	}
	if change.RoadmapItem != nil {
		item := *change.RoadmapItem
		_, err := tx.ExecContext(ctx,
			`INSERT INTO roadmap_items (item_date_ms, description, added_at_ms) VALUES (?1, ?2, ?3)`,
			toMillis(item.Date), item.Description, toMillis(item.AddedAt))
		if err != nil {
			return fmt.Errorf("insert roadmap item: %w", err)
		}
	}
	if change.StretchGoal != nil {
		goal := *change.StretchGoal
		_, err := tx.ExecContext(ctx,
			`INSERT INTO stretch_goals (threshold, description, added_at_ms) VALUES (?1, ?2, ?3)`,
			campaign.FormatAmount(goal.Threshold), goal.Description, toMillis(goal.AddedAt))
		if err != nil {
			return fmt.Errorf("insert stretch goal: %w", err)
		}
	}
	for _, entry := range change.Journal {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO campaign_journal (event, actor, amount, note, at_ms) VALUES (?1, ?2, ?3, ?4, ?5)`,
			entry.Event, entry.Actor, entry.Amount, entry.Note, toMillis(entry.At))
		if err != nil {
			return fmt.Errorf("insert journal entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func putCampaign(ctx context.Context, tx *sql.Tx, insert bool, record campaign.Campaign) error {
	socials, err := json.Marshal(record.Socials)
	if err != nil {
		return fmt.Errorf("encode socials: %w", err)
	}
	if record.Socials == nil {
		socials = []byte("{}")
	}
	settled := 0
	if record.Settled {
		settled = 1
	}
	args := []any{
		record.Creator, record.Asset, campaign.FormatAmount(record.Goal),
		toMillis(record.Deadline), campaign.FormatAmount(record.MinContribution),
		campaign.FormatAmount(record.TotalRaised), string(record.Status), settled,
		record.Admin, record.CodeRef, record.Title, record.Description, string(socials),
		toMillis(record.InitializedAt), toMillis(record.UpdatedAt),
	}

	if insert {
		_, err = tx.ExecContext(ctx, `INSERT INTO campaign (id, `+campaignColumns+`)
VALUES (1, ?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9, ?10, ?11, ?12, ?13, ?14, ?15)`, args...)
		if err != nil {
			if isConstraintError(err) {
				return campaign.ErrAlreadyInitialized
			}
			return fmt.Errorf("insert campaign: %w", err)
		}
		return nil
	}

	result, err := tx.ExecContext(ctx, `UPDATE campaign SET
creator = ?1, asset = ?2, goal = ?3, deadline_ms = ?4, min_contribution = ?5,
total_raised = ?6, status = ?7, settled = ?8, admin = ?9, code_ref = ?10,
title = ?11, description = ?12, socials = ?13, initialized_at_ms = ?14,
updated_at_ms = ?15
WHERE id = 1`, args...)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func putContribution(ctx context.Context, tx *sql.Tx, update storage.ContributionUpdate) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO contributions (address, amount, updated_at_ms)
VALUES (?1, ?2, ?3)
ON CONFLICT(address) DO UPDATE SET amount = excluded.amount, updated_at_ms = excluded.updated_at_ms`,
		update.Address, campaign.FormatAmount(update.Balance), toMillis(update.At))
	if err != nil {
		return fmt.Errorf("upsert contribution: %w", err)
	}
	return nil
}

func parseStoredAmount(value string) (*uint256.Int, error) {
	amount, err := campaign.ParseAmount(value)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnknown, "stored amount is corrupt", err)
	}
	return amount, nil
}

// isConstraintError detects SQLite constraint violations, which is how a
// second initialize surfaces against the single-row campaign table.
func isConstraintError(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "constraint") || strings.Contains(message, "unique")
}
