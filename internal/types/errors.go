package types

import (
	"errors"
	"fmt"
)

var (
	// Run-level failures.
	ErrNotFound      = errors.New("no geocoding match")
	ErrUpstream      = errors.New("upstream service error")
	ErrNoData        = errors.New("no lift features found")
	ErrInvalidBounds = errors.New("invalid bounds")

	// Per-feature failures, reported as warnings.
	ErrUnresolvedNode       = errors.New("unresolved node reference")
	ErrTooFewPoints         = errors.New("not enough coordinates")
	ErrInvalidRing          = errors.New("invalid ring")
	ErrInvalidTag           = errors.New("invalid tag value")
	ErrRender               = errors.New("render failed")
	ErrElevationUnavailable = errors.New("elevation unavailable")
)

// UpstreamError describes a failed or malformed response from an external
// service. It matches ErrUpstream under errors.Is.
type UpstreamError struct {
	Service    string
	StatusCode int
	Reason     string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := e.Service
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" returned status %d", e.StatusCode)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }
