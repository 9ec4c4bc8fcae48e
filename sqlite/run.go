package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/abtech/carlytics"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ carlytics.RunService = (*RunService)(nil)

// RunService implements carlytics.RunService using SQLite.
type RunService struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db, Now: time.Now}
}

// Fingerprint computes an xxHash of a clean table and returns it as hex.
// Two tables with the same rows in the same order share a fingerprint.
func Fingerprint(listings []*carlytics.Listing) string {
	d := xxhash.New()
	for _, l := range listings {
		_, _ = d.WriteString(l.Name)
		_, _ = d.WriteString("\x1f")
		_, _ = d.WriteString(carlytics.FormatPrice(l.Price))
		_, _ = d.WriteString("\x1f")
		_, _ = d.WriteString(l.Location)
		_, _ = d.WriteString("\x1f")
		_, _ = d.WriteString(strconv.Itoa(l.Year))
		_, _ = d.WriteString("\n")
	}
	return hex.EncodeToString(binary.BigEndian.AppendUint64(nil, d.Sum64()))
}

// CreateRun stores a run and its listings in one transaction.
func (s *RunService) CreateRun(ctx context.Context, run *carlytics.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}
	for _, l := range run.Listings {
		if err := l.Validate(); err != nil {
			return err
		}
	}

	run.ID = uuid.New().String()
	run.CreatedAt = s.Now().UTC()
	run.Fingerprint = Fingerprint(run.Listings)
	run.ListingCount = len(run.Listings)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, url, fingerprint, listing_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, run.URL, run.Fingerprint, run.ListingCount, formatTime(run.CreatedAt)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_listings (run_id, position, name, price, location, year)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, l := range run.Listings {
		if _, err := stmt.ExecContext(ctx, run.ID, i, l.Name, l.Price, l.Location, l.Year); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a run with its listings.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*carlytics.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, source, url, fingerprint, listing_count, created_at
		FROM runs
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, carlytics.Errorf(carlytics.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, price, location, year
		FROM run_listings
		WHERE run_id = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l carlytics.Listing
		if err := rows.Scan(&l.Name, &l.Price, &l.Location, &l.Year); err != nil {
			return nil, err
		}
		run.Listings = append(run.Listings, &l)
	}

	return run, rows.Err()
}

// FindRuns retrieves runs matching the filter, newest first. Listings are
// not loaded.
func (s *RunService) FindRuns(ctx context.Context, filter carlytics.RunFilter) ([]*carlytics.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source, url, fingerprint, listing_count, created_at FROM runs WHERE 1=1")

	if filter.Source != nil {
		query.WriteString(" AND source = ? COLLATE NOCASE")
		args = append(args, *filter.Source)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*carlytics.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// DeleteRun permanently removes a run. Its listings go with it.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return carlytics.Errorf(carlytics.ENOTFOUND, "run not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*carlytics.Run, error) {
	var run carlytics.Run
	var createdAt string

	if err := row.Scan(&run.ID, &run.Source, &run.URL, &run.Fingerprint, &run.ListingCount, &createdAt); err != nil {
		return nil, err
	}

	var err error
	run.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}

	return &run, nil
}
