package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/jeopardy/internal/models"
)

// Repository provides data access to the clue bank
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite works best with a single connection; it also keeps :memory: dbs alive
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS clues (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category TEXT NOT NULL,
			air_date TEXT NOT NULL,
			question TEXT NOT NULL,
			value TEXT NOT NULL DEFAULT '',
			answer TEXT NOT NULL,
			round TEXT NOT NULL DEFAULT '',
			show_number TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_clues_category_date ON clues(category, air_date)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Clue Methods ====================

// ListClues returns every stored record in import order
func (r *Repository) ListClues(ctx context.Context) ([]models.ClueRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, air_date, question, value, answer, round, show_number
		FROM clues
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ClueRecord
	for rows.Next() {
		var rec models.ClueRecord
		var showNumber string
		if err := rows.Scan(&rec.Category, &rec.AirDate, &rec.Question, &rec.Value, &rec.Answer, &rec.Round, &showNumber); err != nil {
			return nil, err
		}
		rec.ShowNumber = models.FlexString(showNumber)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountClues returns the number of stored records
func (r *Repository) CountClues(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clues`).Scan(&count)
	return count, err
}

// ReplaceClues swaps the whole clue bank for records in one transaction.
// Source order is preserved through the autoincrement id.
func (r *Repository) ReplaceClues(ctx context.Context, records []models.ClueRecord) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM clues`); err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO clues (category, air_date, question, value, answer, round, show_number)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Category, rec.AirDate, rec.Question, rec.Value, rec.Answer, rec.Round, rec.ShowNumber.String()); err != nil {
			return 0, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting saves a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}
