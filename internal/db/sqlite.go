package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/jonathan/internship-checker/internal/types"
)

// SQLiteDB is a file-backed requirement store for single-machine runs.
type SQLiteDB struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path. Use ":memory:" for tests.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, createRequirementsTable); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to create requirements table: %w", err)
	}
	return &SQLiteDB{db: sqlDB}, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) RequirementExists(ctx context.Context, postingID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM internship_requirements WHERE company_id = ?)`,
		postingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check requirement %s: %w", postingID, err)
	}
	return exists, nil
}

func (s *SQLiteDB) InsertRequirement(ctx context.Context, rec *types.RequirementRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO internship_requirements (`+requirementColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.PostingID, rec.PostingName, rec.ShortName, rec.IsCV, rec.IsTranscript,
		rec.GPA, rec.SourceFile, rec.RunID, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert requirement %s: %w", rec.PostingID, err)
	}
	return nil
}

func (s *SQLiteDB) GetRequirement(ctx context.Context, postingID string) (*types.RequirementRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+requirementColumns+` FROM internship_requirements WHERE company_id = ?`,
		postingID,
	)
	rec, err := scanRequirement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get requirement %s: %w", postingID, err)
	}
	return rec, nil
}

func (s *SQLiteDB) ListRequirements(ctx context.Context) ([]types.RequirementRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+requirementColumns+` FROM internship_requirements ORDER BY company_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []types.RequirementRecord{}
	for rows.Next() {
		rec, err := scanRequirement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan requirement: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requirements: %w", err)
	}
	return records, nil
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*SQLiteDB)(nil)
)
