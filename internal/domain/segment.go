// Package domain contains the core data types for the segments API.
// This package depends only on the standard library and is imported by every
// other internal package (repo, service, handler).
package domain

import "time"

// Segment is one leg of a longer trip.
// Date, Waypoints and LongtripsID are optional; the rest always carry a value
// (zero when the caller never supplied one).
type Segment struct {
	ID             int64
	Date           *time.Time
	Origin         string
	Destination    string
	TotalDistance  float64
	TotalElevation float64
	Waypoints      *string // serialized []Waypoint, see ParseWaypoints
	LongtripsID    *int64
}

// SegmentPatch carries the fields a caller asked to change.
// A nil field means "leave as is".
type SegmentPatch struct {
	Date           *time.Time
	Origin         *string
	Destination    *string
	TotalDistance  *float64
	TotalElevation *float64
	Waypoints      *string
	LongtripsID    *int64
}

// Truthy returns a copy of p holding only the fields whose values are
// truthy: non-empty strings, non-zero numbers, non-zero dates.
// Falsy values are dropped, so a PATCH cannot clear a field to "" or 0.
func (p SegmentPatch) Truthy() SegmentPatch {
	var out SegmentPatch
	if p.Date != nil && !p.Date.IsZero() {
		out.Date = p.Date
	}
	if p.Origin != nil && *p.Origin != "" {
		out.Origin = p.Origin
	}
	if p.Destination != nil && *p.Destination != "" {
		out.Destination = p.Destination
	}
	if p.TotalDistance != nil && *p.TotalDistance != 0 {
		out.TotalDistance = p.TotalDistance
	}
	if p.TotalElevation != nil && *p.TotalElevation != 0 {
		out.TotalElevation = p.TotalElevation
	}
	if p.Waypoints != nil && *p.Waypoints != "" {
		out.Waypoints = p.Waypoints
	}
	if p.LongtripsID != nil && *p.LongtripsID != 0 {
		out.LongtripsID = p.LongtripsID
	}
	return out
}

// IsEmpty reports whether the patch changes nothing.
func (p SegmentPatch) IsEmpty() bool {
	return p == SegmentPatch{}
}
