// Package handler implements the HTTP surface of the segments API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, segment.go) but share the same Server struct and the central
// error responder in errors.go.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kculafic/bikeThing/internal/domain"
)

// SegmentServicer defines the business operations the segment handlers
// depend on. Defined here, in the consumer package, so handler tests can
// inject a mock without touching the database or the geocoder.
type SegmentServicer interface {
	Create(ctx context.Context, seg domain.Segment) (domain.Segment, error)
	GetByID(ctx context.Context, id int64) (domain.Segment, error)
	List(ctx context.Context) ([]domain.Segment, error)
	Update(ctx context.Context, id int64, patch domain.SegmentPatch) (domain.Segment, error)
	Delete(ctx context.Context, id int64) (domain.Segment, error)
}

// Pinger reports whether the database is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies shared by every handler.
type Server struct {
	segments SegmentServicer
	db       Pinger
	log      *slog.Logger
}

// NewServer constructs the Server. db may be nil, in which case /readyz
// always reports ready; log defaults to slog.Default().
func NewServer(segments SegmentServicer, db Pinger, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{segments: segments, db: db, log: log}
}

// RouteOptions carries the per-route middleware wired in main.go.
// Nil entries are treated as pass-through.
type RouteOptions struct {
	// Authorize gates PATCH /segments/{id}.
	Authorize func(http.Handler) http.Handler

	// CreateLimiter throttles POST /segments, which spends a geocoding call.
	CreateLimiter func(http.Handler) http.Handler
}

// Routes returns the router for every endpoint the API serves.
func (s *Server) Routes(opts RouteOptions) http.Handler {
	authorize := orPassThrough(opts.Authorize)
	limit := orPassThrough(opts.CreateLimiter)

	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/readyz", s.GetReady)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/segments", func(r chi.Router) {
		r.Get("/", s.ListSegments)
		r.With(limit).Post("/", s.CreateSegment)
		r.Get("/{id}", s.GetSegment)
		r.With(authorize).Patch("/{id}", s.PatchSegment)
		r.Delete("/{id}", s.DeleteSegment)
	})
	return r
}

func orPassThrough(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}
