package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gomodule/redigo/redis"
	"github.com/pkg/errors"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
)

// Subscriber receives board events from the shared events channel. Every
// instance sees every event; correlation happens in the board.
type Subscriber struct {
	Pool    *redis.Pool
	Channel string
	Logger  *slog.Logger // nil = slog.Default()
}

// Subscribe delivers decoded events to out until ctx is cancelled or the
// connection fails. Messages that do not decode are logged and skipped.
// out is closed when Subscribe returns.
func (s *Subscriber) Subscribe(ctx context.Context, out chan<- transit.Event) error {
	defer close(out)

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := s.Pool.GetContext(ctx)
	if err != nil {
		return errors.Wrap(err, "cannot get Redis connection")
	}
	defer conn.Close()

	psc := redis.PubSubConn{Conn: conn}
	if err := psc.Subscribe(s.Channel); err != nil {
		return errors.Wrapf(err, "cannot subscribe to %s", s.Channel)
	}

	// Unsubscribing unblocks Receive once ctx is done.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			_ = psc.Unsubscribe()
		case <-stop:
		}
	}()
	defer func() {
		close(stop)
		wg.Wait()
	}()

	for {
		switch msg := psc.Receive().(type) {
		case redis.Message:
			ev, err := Decode(msg.Data)
			if err != nil {
				logger.Warn("undecodable event skipped", "channel", msg.Channel, "error", err)
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		case redis.Subscription:
			switch {
			case msg.Kind == "subscribe":
				logger.Debug("subscribed", "channel", msg.Channel)
			case msg.Count == 0:
				return ctx.Err()
			}
		case error:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrapf(msg, "cannot receive from %s", s.Channel)
		}
	}
}

// Decode parses one event message.
func Decode(data []byte) (transit.Event, error) {
	var ev transit.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return transit.Event{}, errors.Wrap(err, "cannot decode event")
	}
	return ev, nil
}
