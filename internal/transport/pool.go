// Package transport carries registrations and board events over Redis
// pub/sub, the bus shared by board instances and their polling collaborator.
package transport

import (
	"time"

	"github.com/gomodule/redigo/redis"
)

// PoolOption overrides one field of the pool built by NewPool.
type PoolOption struct {
	f func(*redis.Pool)
}

// PoolDial replaces the TCP dialer, mostly for tests.
func PoolDial(f func() (redis.Conn, error)) PoolOption {
	return PoolOption{func(p *redis.Pool) {
		p.Dial = f
	}}
}

// PoolIdleTimeout closes connections left idle for longer than timeout.
// Zero keeps idle connections forever.
func PoolIdleTimeout(timeout time.Duration) PoolOption {
	return PoolOption{func(p *redis.Pool) {
		p.IdleTimeout = timeout
	}}
}

// PoolMaxActive caps open connections. Zero means no cap.
func PoolMaxActive(i int) PoolOption {
	return PoolOption{func(p *redis.Pool) {
		p.MaxActive = i
	}}
}

// PoolMaxIdle caps connections kept for reuse.
func PoolMaxIdle(i int) PoolOption {
	return PoolOption{func(p *redis.Pool) {
		p.MaxIdle = i
	}}
}

// PoolWait makes Get block, instead of failing, once MaxActive is reached.
func PoolWait(b bool) PoolOption {
	return PoolOption{func(p *redis.Pool) {
		p.Wait = b
	}}
}

// PingOnBorrow checks idle connections before reuse.
func PingOnBorrow(c redis.Conn, t time.Time) error {
	if time.Since(t) < time.Minute {
		return nil
	}
	_, err := c.Do("PING")
	return err
}

// NewPool returns a pool dialing addr. A board holds one publishing and one
// subscribed connection, so the defaults are small.
func NewPool(addr string, options ...PoolOption) *redis.Pool {
	pool := &redis.Pool{
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr)
		},
		MaxIdle:      2,
		IdleTimeout:  4 * time.Minute,
		TestOnBorrow: PingOnBorrow,
	}

	for _, option := range options {
		option.f(pool)
	}

	return pool
}
