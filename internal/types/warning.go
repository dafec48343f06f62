package types

import (
	"fmt"
	"log/slog"
)

// Warning records a non-fatal problem observed while processing one feature
// or one optional input. Err wraps one of the per-feature sentinel errors.
type Warning struct {
	Stage   string `json:"stage"`
	Subject string `json:"subject"`
	Err     error  `json:"-"`
}

func NewWarning(stage, subject string, err error) Warning {
	return Warning{Stage: stage, Subject: subject, Err: err}
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %v", w.Stage, w.Subject, w.Err)
}

// LogValue lets warnings be passed straight to slog.
func (w Warning) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("stage", w.Stage),
		slog.String("subject", w.Subject),
		slog.Any("error", w.Err),
	)
}
