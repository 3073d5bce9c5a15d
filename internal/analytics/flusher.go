package analytics

import (
	"context"
	"errors"
	"time"

	"example.com/fitanalytics/internal/logger"
	"example.com/fitanalytics/internal/observability"
	"example.com/fitanalytics/internal/persistence"
)

// Flusher writes the encoded state to the key-value store in the background.
// Requests coalesce: at most one flush is pending at any time and it always
// writes the latest state.
type Flusher struct {
	store            persistence.Store
	key              string
	encode           func() ([]byte, error)
	timeout          time.Duration
	requests         chan struct{}
	shutdownComplete chan struct{}
	logger           *logger.Logger
}

// NewFlusher constructs a Flusher writing encode() under key.
func NewFlusher(store persistence.Store, key string, encode func() ([]byte, error), timeout time.Duration, log *logger.Logger) *Flusher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Flusher{
		store:            store,
		key:              key,
		encode:           encode,
		timeout:          timeout,
		requests:         make(chan struct{}, 1),
		shutdownComplete: make(chan struct{}),
		logger:           log.With("component", "flusher"),
	}
}

// Request schedules a flush without blocking.
func (f *Flusher) Request() {
	select {
	case f.requests <- struct{}{}:
	default:
	}
}

// Start runs the flush loop until ctx is cancelled, then drains a pending
// request. It should be called in a goroutine.
func (f *Flusher) Start(ctx context.Context) {
	defer close(f.shutdownComplete)

	for {
		select {
		case <-ctx.Done():
			select {
			case <-f.requests:
				f.flushLogged(context.Background())
			default:
			}
			return
		case <-f.requests:
			f.flushLogged(ctx)
		}
	}
}

// Wait blocks until Start returns.
func (f *Flusher) Wait() {
	<-f.shutdownComplete
}

// Flush writes the current state synchronously.
func (f *Flusher) Flush(ctx context.Context) error {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	payload, err := f.encode()
	if err != nil {
		observability.RecordFlush(observability.OutcomeFailure, time.Time{})
		return err
	}
	if err := f.store.Put(ctx, f.key, payload); err != nil {
		observability.RecordFlush(observability.OutcomeFailure, time.Time{})
		return err
	}
	observability.RecordFlush(observability.OutcomeSuccess, time.Now())
	return nil
}

func (f *Flusher) flushLogged(ctx context.Context) {
	if err := f.Flush(ctx); err != nil && !errors.Is(err, context.Canceled) {
		f.logger.Warn("state flush failed", "key", f.key, "error", err)
	}
}
