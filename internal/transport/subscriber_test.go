package transport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fortytw2/leaktest"
	"github.com/gomodule/redigo/redis"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
)

const eventsChannel = "metrotimes:events"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// waitForSubscribers polls until channel has n subscribers.
func waitForSubscribers(t *testing.T, s *miniredis.Miniredis, channel string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.PubSubNumSub(channel)[channel] >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d subscriber(s) on %s", n, channel)
}

func receive(t *testing.T, out <-chan transit.Event) transit.Event {
	t.Helper()
	select {
	case ev, ok := <-out:
		if !ok {
			t.Fatal("events channel closed early")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an event")
	}
	return transit.Event{}
}

func TestSubscribe(t *testing.T) {
	defer leaktest.Check(t)()

	s, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	pool := NewPool(s.Addr())
	defer pool.Close()

	sub := &Subscriber{Pool: pool, Channel: eventsChannel, Logger: discard}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan transit.Event)
	errc := make(chan error, 1)
	go func() { errc <- sub.Subscribe(ctx, out) }()

	waitForSubscribers(t, s, eventsChannel, 1)
	s.Publish(eventsChannel, `{"kind":"debug","message":"polling A01"}`)
	s.Publish(eventsChannel, `not json`)
	s.Publish(eventsChannel, `{"kind":"reboot"}`)
	s.Publish(eventsChannel, `{"kind":"incident_update","identifier":"abc","incidents":{"lines":["RD","BL"]}}`)
	s.Publish("some-other-channel", `{"kind":"debug","message":"elsewhere"}`)

	first := receive(t, out)
	if first.Kind != transit.KindDebug || first.Message != "polling A01" {
		t.Errorf("first event = %+v", first)
	}
	second := receive(t, out)
	if second.Kind != transit.KindIncidentUpdate || second.Identifier != "abc" || len(second.Incidents.Lines) != 2 {
		t.Errorf("second event = %+v", second)
	}

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Subscribe() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Subscribe did not return after cancel")
	}
	if _, ok := <-out; ok {
		t.Error("out should be closed when Subscribe returns")
	}
}

func TestSubscribeCancelWhileBlocked(t *testing.T) {
	defer leaktest.Check(t)()

	s, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	pool := NewPool(s.Addr())
	defer pool.Close()

	sub := &Subscriber{Pool: pool, Channel: eventsChannel, Logger: discard}
	ctx, cancel := context.WithCancel(context.Background())

	// Nobody reads out, so the first event blocks delivery.
	out := make(chan transit.Event)
	errc := make(chan error, 1)
	go func() { errc <- sub.Subscribe(ctx, out) }()

	waitForSubscribers(t, s, eventsChannel, 1)
	s.Publish(eventsChannel, `{"kind":"fatal_poll_error","identifier":"abc"}`)
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Subscribe() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Subscribe did not return after cancel")
	}
}

func TestSubscribeDialFailure(t *testing.T) {
	sub := &Subscriber{
		Pool: NewPool("", PoolDial(func() (redis.Conn, error) {
			return nil, errors.New("connection refused")
		})),
		Channel: eventsChannel,
		Logger:  discard,
	}
	out := make(chan transit.Event)
	err := sub.Subscribe(context.Background(), out)
	if err == nil || !strings.Contains(err.Error(), "cannot get Redis connection") {
		t.Errorf("unexpected error: %v", err)
	}
	if _, ok := <-out; ok {
		t.Error("out should be closed on failure")
	}
}

func TestSubscribeServerGone(t *testing.T) {
	defer leaktest.Check(t)()

	s, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}

	pool := NewPool(s.Addr())
	defer pool.Close()

	sub := &Subscriber{Pool: pool, Channel: eventsChannel, Logger: discard}
	out := make(chan transit.Event)
	errc := make(chan error, 1)
	go func() { errc <- sub.Subscribe(context.Background(), out) }()

	waitForSubscribers(t, s, eventsChannel, 1)
	s.Close()

	select {
	case err := <-errc:
		if err == nil || !strings.Contains(err.Error(), "cannot receive from "+eventsChannel) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Subscribe did not return after the server closed")
	}
}

func TestDecode(t *testing.T) {
	ev, err := Decode([]byte(`{"kind":"bus_stop_update","identifier":"abc","stops":{"1001451":{"name":"14th St","buses":[]}}}`))
	if err != nil {
		t.Fatal(err)
	}
	if ev.Kind != transit.KindBusStopUpdate || ev.Stops["1001451"].Name != "14th St" {
		t.Errorf("Decode() = %+v", ev)
	}

	if _, err := Decode([]byte(`{`)); err == nil || !strings.Contains(err.Error(), "cannot decode event") {
		t.Errorf("unexpected error: %v", err)
	}
}
