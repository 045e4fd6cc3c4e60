// Package repo contains all database access logic for the segments API.
// No business logic lives here; only SQL and the mapping between
// snake_case columns and domain types.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/kculafic/bikeThing/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, pgx.Tx
// and pgxmock pools. Integration tests pass a transaction that is rolled back
// after each test; unit tests pass a pgxmock pool.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SegmentRepo defines the persistence operations for Segments.
// The service layer depends on this interface, not the Postgres implementation.
type SegmentRepo interface {
	// Create inserts a new segment and returns the persisted record with its
	// generated id.
	Create(ctx context.Context, s domain.Segment) (domain.Segment, error)

	// GetByID retrieves a single segment. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id int64) (domain.Segment, error)

	// List returns every segment ordered by id ascending.
	List(ctx context.Context) ([]domain.Segment, error)

	// Update writes only the non-nil fields of patch and returns the updated
	// record. Returns domain.ErrNotFound if absent.
	Update(ctx context.Context, id int64, patch domain.SegmentPatch) (domain.Segment, error)

	// Delete removes a segment and returns the record as it was.
	// Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id int64) (domain.Segment, error)
}

const segmentColumns = `id, date, origin, destination, total_distance, total_elevation, waypoints, longtrips_id`

// pgSegmentRepo is the Postgres implementation of SegmentRepo.
type pgSegmentRepo struct {
	db db
}

// NewSegmentRepo constructs a SegmentRepo backed by the provided db connection.
func NewSegmentRepo(db db) SegmentRepo {
	return &pgSegmentRepo{db: db}
}

func (r *pgSegmentRepo) Create(ctx context.Context, s domain.Segment) (domain.Segment, error) {
	const q = `
		INSERT INTO routes_segments (date, origin, destination, total_distance, total_elevation, waypoints, longtrips_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + segmentColumns

	row := r.db.QueryRow(ctx, q,
		s.Date, s.Origin, s.Destination, s.TotalDistance, s.TotalElevation, s.Waypoints, s.LongtripsID)
	result, err := scanSegment(row)
	if err != nil {
		return domain.Segment{}, fmt.Errorf("repo.SegmentRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgSegmentRepo) GetByID(ctx context.Context, id int64) (domain.Segment, error) {
	const q = `SELECT ` + segmentColumns + ` FROM routes_segments WHERE id = $1`

	result, err := scanSegment(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return domain.Segment{}, fmt.Errorf("repo.SegmentRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgSegmentRepo) List(ctx context.Context) ([]domain.Segment, error) {
	const q = `SELECT ` + segmentColumns + ` FROM routes_segments ORDER BY id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.SegmentRepo.List: %w", err)
	}
	defer rows.Close()

	segments := []domain.Segment{}
	for rows.Next() {
		s, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SegmentRepo.List: scan: %w", err)
		}
		segments = append(segments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SegmentRepo.List: rows: %w", err)
	}
	return segments, nil
}

func (r *pgSegmentRepo) Update(ctx context.Context, id int64, patch domain.SegmentPatch) (domain.Segment, error) {
	set, args := patchAssignments(patch)
	if len(set) == 0 {
		return domain.Segment{}, fmt.Errorf("repo.SegmentRepo.Update: %w: empty patch", domain.ErrValidation)
	}
	args = append(args, id)

	q := `UPDATE routes_segments SET ` + strings.Join(set, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) +
		` RETURNING ` + segmentColumns

	result, err := scanSegment(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		return domain.Segment{}, fmt.Errorf("repo.SegmentRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgSegmentRepo) Delete(ctx context.Context, id int64) (domain.Segment, error) {
	const q = `DELETE FROM routes_segments WHERE id = $1 RETURNING ` + segmentColumns

	result, err := scanSegment(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return domain.Segment{}, fmt.Errorf("repo.SegmentRepo.Delete: %w", err)
	}
	return result, nil
}

// patchAssignments builds the SET list for patch in a fixed column order.
// Placeholders are numbered from $1; the caller appends the id last.
func patchAssignments(p domain.SegmentPatch) ([]string, []any) {
	var (
		set  []string
		args []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		set = append(set, column+" = $"+strconv.Itoa(len(args)))
	}
	if p.Date != nil {
		add("date", *p.Date)
	}
	if p.Origin != nil {
		add("origin", *p.Origin)
	}
	if p.Destination != nil {
		add("destination", *p.Destination)
	}
	if p.TotalDistance != nil {
		add("total_distance", *p.TotalDistance)
	}
	if p.TotalElevation != nil {
		add("total_elevation", *p.TotalElevation)
	}
	if p.Waypoints != nil {
		add("waypoints", *p.Waypoints)
	}
	if p.LongtripsID != nil {
		add("longtrips_id", *p.LongtripsID)
	}
	return set, args
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanSegment maps a single row into a domain.Segment, converting the
// nullable date, waypoints and longtrips_id columns.
func scanSegment(s scanner) (domain.Segment, error) {
	var (
		seg       domain.Segment
		date      pgtype.Date
		waypoints pgtype.Text
		longtrip  pgtype.Int8
	)

	err := s.Scan(&seg.ID, &date, &seg.Origin, &seg.Destination,
		&seg.TotalDistance, &seg.TotalElevation, &waypoints, &longtrip)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Segment{}, domain.ErrNotFound
		}
		return domain.Segment{}, err
	}

	if date.Valid {
		d := time.Date(date.Time.Year(), date.Time.Month(), date.Time.Day(), 0, 0, 0, 0, time.UTC)
		seg.Date = &d
	}
	if waypoints.Valid {
		w := waypoints.String
		seg.Waypoints = &w
	}
	if longtrip.Valid {
		id := longtrip.Int64
		seg.LongtripsID = &id
	}
	return seg, nil
}
