package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/kculafic/bikeThing/internal/domain"
)

// SegmentFields is a segment as the client sees it, minus its id.
// DELETE answers with this shape.
type SegmentFields struct {
	Date           *openapi_types.Date `json:"date"`
	Origin         string              `json:"origin"`
	Destination    string              `json:"destination"`
	TotalDistance  float64             `json:"totalDistance"`
	TotalElevation float64             `json:"totalElevation"`
	Waypoints      *string             `json:"waypoints"`
	LongtripsID    *int64              `json:"longtripsId"`
}

// Segment is the JSON representation of a stored segment.
type Segment struct {
	ID int64 `json:"id"`
	SegmentFields
}

// CreateSegmentRequest is the POST /segments body. Waypoints are not
// accepted; they come from geocoding the destination.
type CreateSegmentRequest struct {
	Date           string  `json:"date"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination" validate:"required"`
	TotalDistance  float64 `json:"totalDistance"`
	TotalElevation float64 `json:"totalElevation"`
	LongtripsID    *int64  `json:"longtripsId" validate:"omitempty,gt=0"`
}

// PatchSegmentRequest is the PATCH /segments/{id} body. Absent, null and
// falsy fields leave the stored value unchanged, so longtripsId 0 passes
// validation and is then ignored.
type PatchSegmentRequest struct {
	Date           *string  `json:"date"`
	Origin         *string  `json:"origin"`
	Destination    *string  `json:"destination"`
	TotalDistance  *float64 `json:"totalDistance"`
	TotalElevation *float64 `json:"totalElevation"`
	Waypoints      *string  `json:"waypoints"`
	LongtripsID    *int64   `json:"longtripsId" validate:"omitempty,gte=0"`
}

// ListSegments handles GET /segments.
func (s *Server) ListSegments(w http.ResponseWriter, r *http.Request) {
	segs, err := s.segments.List(r.Context())
	if err != nil {
		s.RespondError(w, r, err)
		return
	}

	out := make([]Segment, len(segs))
	for i, seg := range segs {
		out[i] = segmentToResponse(seg)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetSegment handles GET /segments/{id}.
func (s *Server) GetSegment(w http.ResponseWriter, r *http.Request) {
	id, err := segmentID(r)
	if err != nil {
		s.RespondError(w, r, err)
		return
	}

	seg, err := s.segments.GetByID(r.Context(), id)
	if err != nil {
		s.RespondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, segmentToResponse(seg))
}

// CreateSegment handles POST /segments.
func (s *Server) CreateSegment(w http.ResponseWriter, r *http.Request) {
	var req CreateSegmentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.RespondError(w, r, err)
		return
	}
	if err := validateRequest(req); err != nil {
		s.RespondError(w, r, err)
		return
	}

	seg, err := requestToSegment(req)
	if err != nil {
		s.RespondError(w, r, err)
		return
	}

	created, err := s.segments.Create(r.Context(), seg)
	if err != nil {
		s.RespondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, segmentToResponse(created))
}

// PatchSegment handles PATCH /segments/{id}.
func (s *Server) PatchSegment(w http.ResponseWriter, r *http.Request) {
	id, err := segmentID(r)
	if err != nil {
		s.RespondError(w, r, err)
		return
	}

	var req PatchSegmentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.RespondError(w, r, err)
		return
	}
	if err := validateRequest(req); err != nil {
		s.RespondError(w, r, err)
		return
	}

	patch, err := requestToPatch(req)
	if err != nil {
		s.RespondError(w, r, err)
		return
	}

	updated, err := s.segments.Update(r.Context(), id, patch)
	if err != nil {
		s.RespondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, segmentToResponse(updated))
}

// DeleteSegment handles DELETE /segments/{id}.
// The response echoes the deleted segment without its id.
func (s *Server) DeleteSegment(w http.ResponseWriter, r *http.Request) {
	id, err := segmentID(r)
	if err != nil {
		s.RespondError(w, r, err)
		return
	}

	deleted, err := s.segments.Delete(r.Context(), id)
	if err != nil {
		s.RespondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, segmentToResponse(deleted).SegmentFields)
}

// --- request helpers --------------------------------------------------------

// segmentID parses the {id} path parameter. Ids are positive integers, so
// anything else cannot name a stored segment and reads as not found.
func segmentID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

// decodeJSON decodes the request body into dst. An empty body decodes as {}.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return err
	}
	return fmt.Errorf("%w: %v", errMalformedBody, err)
}

// parseDate parses a YYYY-MM-DD date. A full RFC 3339 timestamp is also
// accepted and truncated to its calendar day, as a Postgres date column
// would. Empty input yields nil.
func parseDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(openapi_types.DateFormat, raw); err == nil {
		return &t, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a date in YYYY-MM-DD format", domain.ErrValidation, field)
	}
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	return &day, nil
}

// --- mapping helpers --------------------------------------------------------

func requestToSegment(req CreateSegmentRequest) (domain.Segment, error) {
	date, err := parseDate("date", req.Date)
	if err != nil {
		return domain.Segment{}, err
	}
	return domain.Segment{
		Date:           date,
		Origin:         req.Origin,
		Destination:    req.Destination,
		TotalDistance:  req.TotalDistance,
		TotalElevation: req.TotalElevation,
		LongtripsID:    req.LongtripsID,
	}, nil
}

func requestToPatch(req PatchSegmentRequest) (domain.SegmentPatch, error) {
	patch := domain.SegmentPatch{
		Origin:         req.Origin,
		Destination:    req.Destination,
		TotalDistance:  req.TotalDistance,
		TotalElevation: req.TotalElevation,
		Waypoints:      req.Waypoints,
		LongtripsID:    req.LongtripsID,
	}
	if req.Date != nil {
		date, err := parseDate("date", *req.Date)
		if err != nil {
			return domain.SegmentPatch{}, err
		}
		patch.Date = date
	}
	return patch, nil
}

// segmentToResponse converts a domain.Segment into its camelCase JSON form.
func segmentToResponse(seg domain.Segment) Segment {
	resp := Segment{
		ID: seg.ID,
		SegmentFields: SegmentFields{
			Origin:         seg.Origin,
			Destination:    seg.Destination,
			TotalDistance:  seg.TotalDistance,
			TotalElevation: seg.TotalElevation,
			Waypoints:      seg.Waypoints,
			LongtripsID:    seg.LongtripsID,
		},
	}
	if seg.Date != nil {
		resp.Date = &openapi_types.Date{Time: *seg.Date}
	}
	return resp
}
