package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/internship-checker/internal/types"
)

// ErrNotFound is returned when no requirement record exists for a posting.
var ErrNotFound = errors.New("requirement record not found")

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store persists requirement records keyed by posting id.
type Store interface {
	RequirementExists(ctx context.Context, postingID string) (bool, error)
	InsertRequirement(ctx context.Context, rec *types.RequirementRecord) error
	GetRequirement(ctx context.Context, postingID string) (*types.RequirementRecord, error)
	ListRequirements(ctx context.Context) ([]types.RequirementRecord, error)
	Close() error
}

// Open connects to the store selected by driver. dsn is a Postgres URL or
// an SQLite file path.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverPostgres, "":
		return Connect(ctx, dsn)
	case DriverSQLite:
		return OpenSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
}

const createRequirementsTable = `
CREATE TABLE IF NOT EXISTS internship_requirements (
	company_id    TEXT PRIMARY KEY,
	company_name  TEXT NOT NULL DEFAULT '',
	short_name    TEXT NOT NULL DEFAULT '',
	is_cv         BOOLEAN NOT NULL DEFAULT FALSE,
	is_transcript BOOLEAN NOT NULL DEFAULT FALSE,
	gpa           TEXT NOT NULL DEFAULT '0',
	source_file   TEXT NOT NULL DEFAULT '',
	run_id        TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL
)`

const requirementColumns = `company_id, company_name, short_name, is_cv, is_transcript, gpa, source_file, run_id, created_at`

func validateRecord(rec *types.RequirementRecord) error {
	if rec == nil {
		return errors.New("nil requirement record")
	}
	if rec.PostingID == "" {
		return errors.New("requirement record has no posting id")
	}
	return nil
}
