// Package supervisor keeps a board's event subscription alive: it
// reconnects with a fixed backoff after failures and forces a reconnect
// when the bus goes silent for too long.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/config"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
)

// ErrSilent is reported for an attempt that was torn down because no
// event arrived within the silence timeout.
var ErrSilent = errors.New("supervisor: no events within silence timeout")

// SubscribeFunc delivers events to out until ctx is done or the
// subscription fails. It must close out before returning.
type SubscribeFunc func(ctx context.Context, out chan<- transit.Event) error

// Supervisor restarts a SubscribeFunc according to the transport settings.
// A Supervisor runs one Supervise call at a time.
type Supervisor struct {
	maxRetries int
	backoff    time.Duration
	silence    time.Duration
	logger     *slog.Logger

	lastEventAt time.Time
}

// New creates a Supervisor from the transport configuration. A nil logger
// means slog.Default().
func New(cfg config.TransportConfig, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		maxRetries:  cfg.MaxRetries,
		backoff:     time.Duration(cfg.RetryBackoffSeconds) * time.Second,
		silence:     time.Duration(cfg.SilenceTimeoutSeconds) * time.Second,
		logger:      logger,
		lastEventAt: time.Now(),
	}
}

// Supervise runs subscribe and forwards its events to out, reconnecting
// after failures. An attempt that delivered at least one event resets the
// failure count. It returns nil when subscribe ends cleanly, ctx.Err()
// on cancellation, or the last error once the retries are exhausted.
// out is closed on return.
func (s *Supervisor) Supervise(ctx context.Context, subscribe SubscribeFunc, out chan<- transit.Event) error {
	defer close(out)

	var consecutiveErrors int
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.logger.Debug("subscribing", "attempt", consecutiveErrors+1, "max", s.maxRetries+1)
		s.touch()
		delivered, err := s.attempt(ctx, subscribe, out)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			return nil
		}
		if delivered {
			consecutiveErrors = 0
		}

		consecutiveErrors++
		if consecutiveErrors > s.maxRetries {
			s.logger.Error("subscription failed; giving up", "failures", consecutiveErrors, "error", err)
			return fmt.Errorf("supervisor: max retries exceeded after %d failures: %w", consecutiveErrors, err)
		}

		s.logger.Warn("subscription lost; reconnecting",
			"error", err,
			"backoff", s.backoff,
			"attempt", consecutiveErrors+1,
		)
		if s.backoff > 0 {
			timer := time.NewTimer(s.backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
}

// attempt runs one subscription, watching for silence. It reports whether
// any event was delivered.
func (s *Supervisor) attempt(ctx context.Context, subscribe SubscribeFunc, out chan<- transit.Event) (bool, error) {
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := make(chan transit.Event)
	errc := make(chan error, 1)
	go func() { errc <- subscribe(attemptCtx, in) }()

	var tick <-chan time.Time
	if s.silence > 0 {
		ticker := time.NewTicker(s.silence / 4)
		defer ticker.Stop()
		tick = ticker.C
	}

	delivered, silent := false, false
	for in != nil {
		select {
		case ev, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			delivered = true
			s.touch()
			select {
			case out <- ev:
			case <-ctx.Done():
				cancel()
			}
		case <-tick:
			if !silent && s.sinceLastEvent() >= s.silence {
				s.logger.Warn("no events received; reconnecting", "silence", s.silence)
				silent = true
				cancel()
			}
		}
	}

	err := <-errc
	if silent {
		err = ErrSilent
	}
	return delivered, err
}

// touch records event activity now.
func (s *Supervisor) touch() {
	s.lastEventAt = time.Now()
}

func (s *Supervisor) sinceLastEvent() time.Duration {
	return time.Since(s.lastEventAt)
}
