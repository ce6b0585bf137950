// Package db persists requirement records in PostgreSQL or SQLite.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/internship-checker/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and ensures the requirements table exists.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createRequirementsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create requirements table: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// RequirementExists reports whether a record for postingID is stored.
func (db *DB) RequirementExists(ctx context.Context, postingID string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM internship_requirements WHERE company_id = $1)`,
		postingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check requirement %s: %w", postingID, err)
	}
	return exists, nil
}

// InsertRequirement stores a new record. A duplicate posting id is an error.
func (db *DB) InsertRequirement(ctx context.Context, rec *types.RequirementRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO internship_requirements (`+requirementColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.PostingID, rec.PostingName, rec.ShortName, rec.IsCV, rec.IsTranscript,
		rec.GPA, rec.SourceFile, rec.RunID, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert requirement %s: %w", rec.PostingID, err)
	}
	return nil
}

// GetRequirement returns the record for postingID or ErrNotFound.
func (db *DB) GetRequirement(ctx context.Context, postingID string) (*types.RequirementRecord, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+requirementColumns+` FROM internship_requirements WHERE company_id = $1`,
		postingID,
	)
	rec, err := scanRequirement(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get requirement %s: %w", postingID, err)
	}
	return rec, nil
}

// ListRequirements returns every record ordered by posting id.
func (db *DB) ListRequirements(ctx context.Context) ([]types.RequirementRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+requirementColumns+` FROM internship_requirements ORDER BY company_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	defer rows.Close()

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

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRequirement(s scanner) (*types.RequirementRecord, error) {
	var rec types.RequirementRecord
	err := s.Scan(
		&rec.PostingID, &rec.PostingName, &rec.ShortName, &rec.IsCV, &rec.IsTranscript,
		&rec.GPA, &rec.SourceFile, &rec.RunID, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return &rec, nil
}
