package transport

import (
	"context"
	"encoding/json"

	"github.com/gomodule/redigo/redis"
	"github.com/pkg/errors"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
)

// Publisher sends messages to the collaborator.
type Publisher struct {
	Pool    *redis.Pool
	Channel string // registration channel
}

// Register publishes reg as JSON on the registration channel. It returns
// the number of subscribers that received it.
func (p *Publisher) Register(ctx context.Context, reg transit.Registration) (int, error) {
	payload, err := json.Marshal(reg)
	if err != nil {
		return 0, errors.Wrap(err, "cannot encode registration")
	}
	return p.publish(ctx, p.Channel, payload)
}

// PublishEvent publishes ev as JSON on channel. Collaborators use it to
// reach board instances; the CLI uses it to replay captured events.
func (p *Publisher) PublishEvent(ctx context.Context, channel string, ev transit.Event) (int, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return 0, errors.Wrapf(err, "cannot encode %s event", ev.Kind)
	}
	return p.publish(ctx, channel, payload)
}

func (p *Publisher) publish(ctx context.Context, channel string, payload []byte) (int, error) {
	conn, err := p.Pool.GetContext(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "cannot get Redis connection")
	}
	defer conn.Close()

	n, err := redis.Int(conn.Do("PUBLISH", channel, payload))
	if err != nil {
		return 0, errors.Wrapf(err, "cannot publish to %s", channel)
	}
	return n, nil
}
