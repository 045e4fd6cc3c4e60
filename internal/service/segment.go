// Package service contains the business logic for the segments API.
// Services enforce the merge policy, call the geocoder and orchestrate repo
// calls. No SQL lives here.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/kculafic/bikeThing/internal/domain"
	"github.com/kculafic/bikeThing/internal/repo"
)

// Geocoder resolves a place name to coordinates.
// Implementations wrap their failures with domain.ErrUpstream.
type Geocoder interface {
	Lookup(ctx context.Context, address string) (domain.LatLng, error)
}

// SegmentService implements business logic for Segment operations.
type SegmentService struct {
	repo     repo.SegmentRepo
	geocoder Geocoder
}

// NewSegmentService constructs a SegmentService.
func NewSegmentService(r repo.SegmentRepo, g Geocoder) *SegmentService {
	return &SegmentService{repo: r, geocoder: g}
}

// Create geocodes the destination, stores it as a single stopover waypoint
// and inserts the segment. Caller-supplied waypoints are discarded.
// A geocoding failure fails the whole operation; nothing is inserted.
func (s *SegmentService) Create(ctx context.Context, seg domain.Segment) (domain.Segment, error) {
	if strings.TrimSpace(seg.Destination) == "" {
		return domain.Segment{}, fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}

	loc, err := s.geocoder.Lookup(ctx, seg.Destination)
	if err != nil {
		return domain.Segment{}, fmt.Errorf("service.SegmentService.Create: geocode: %w", err)
	}

	waypoints, err := domain.StopoverWaypoints(loc)
	if err != nil {
		return domain.Segment{}, fmt.Errorf("service.SegmentService.Create: %w", err)
	}
	seg.ID = 0
	seg.Waypoints = &waypoints

	created, err := s.repo.Create(ctx, seg)
	if err != nil {
		return domain.Segment{}, fmt.Errorf("service.SegmentService.Create: store: %w", err)
	}
	return created, nil
}

// GetByID returns a single segment.
// Returns domain.ErrNotFound if it does not exist.
func (s *SegmentService) GetByID(ctx context.Context, id int64) (domain.Segment, error) {
	seg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Segment{}, fmt.Errorf("service.SegmentService.GetByID: %w", err)
	}
	return seg, nil
}

// List returns all segments ordered by id ascending.
// Always returns a non-nil slice so callers can safely range over it.
func (s *SegmentService) List(ctx context.Context) ([]domain.Segment, error) {
	segs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.SegmentService.List: %w", err)
	}
	if segs == nil {
		return []domain.Segment{}, nil
	}
	return segs, nil
}

// Update applies the truthy fields of patch to an existing segment.
// Falsy values ("" and 0) are ignored, so they cannot clear a field. A patch
// with nothing truthy returns the stored segment without writing.
// Returns domain.ErrNotFound if the segment does not exist.
func (s *SegmentService) Update(ctx context.Context, id int64, patch domain.SegmentPatch) (domain.Segment, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Segment{}, fmt.Errorf("service.SegmentService.Update: %w", err)
	}

	patch = patch.Truthy()
	if patch.Waypoints != nil {
		if _, err := domain.ParseWaypoints(*patch.Waypoints); err != nil {
			return domain.Segment{}, fmt.Errorf("service.SegmentService.Update: %w", err)
		}
	}
	if patch.IsEmpty() {
		return existing, nil
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Segment{}, fmt.Errorf("service.SegmentService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a segment and returns it as it was before deletion.
// Returns domain.ErrNotFound if it does not exist.
func (s *SegmentService) Delete(ctx context.Context, id int64) (domain.Segment, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return domain.Segment{}, fmt.Errorf("service.SegmentService.Delete: %w", err)
	}
	return deleted, nil
}
