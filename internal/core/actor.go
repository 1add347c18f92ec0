package core

import (
	"log/slog"
	"time"
)

// Actor is the operator performing a mutation. Its id is stamped into the
// uid_* audit columns.
type Actor struct {
	UserID int64
	Role   string
}

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

// Recorder receives workflow outcomes. The metrics package implements it.
type Recorder interface {
	Operation(op string, err error)
	StockPosted(productID int64, qty int64)
	StatusChanged(stage string, status Status)
}

type nopRecorder struct{}

func (nopRecorder) Operation(string, error)       {}
func (nopRecorder) StockPosted(int64, int64)      {}
func (nopRecorder) StatusChanged(string, Status) {}

// Options holds the collaborators shared by every service.
type Options struct {
	Logger   *slog.Logger
	Clock    Clock
	Recorder Recorder
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Clock == nil {
		o.Clock = SystemClock
	}
	if o.Recorder == nil {
		o.Recorder = nopRecorder{}
	}
	return o
}

// observe reports the outcome of op and returns err unchanged.
func (o Options) observe(op string, err error) error {
	o.Recorder.Operation(op, err)
	return err
}
