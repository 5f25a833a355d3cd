package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/board"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/config"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/logging"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/metrics"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/notify"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transport"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/tui"
)

// resolveIdentifier returns the first non-empty candidate, or a fresh
// random identifier.
func resolveIdentifier(candidates ...string) string {
	if id := firstNonEmpty(candidates...); id != "" {
		return id
	}
	return uuid.NewString()
}

// poolOptions maps the [transport] pool keys onto the Redis pool.
func poolOptions(cfg config.TransportConfig) []transport.PoolOption {
	return []transport.PoolOption{
		transport.PoolMaxIdle(cfg.PoolMaxIdle),
		transport.PoolMaxActive(cfg.PoolMaxActive),
		transport.PoolIdleTimeout(time.Duration(cfg.PoolIdleTimeoutSeconds) * time.Second),
		transport.PoolWait(cfg.PoolWait),
	}
}

// drainAndClose waits for a recording tee to close its output, then closes
// the capture behind it. The tee may still be appending when the run is
// cancelled.
func drainAndClose(events <-chan transit.Event, c io.Closer) error {
	for range events {
	}
	return c.Close()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// openLogger builds the process logger. Logs go to path when set. Without
// a path they go to stderr, or nowhere when the TUI owns the terminal.
func openLogger(level, path string, tuiMode bool) (*slog.Logger, func(), error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, fmt.Errorf("log: create directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("log: open %s: %w", path, err)
		}
		return logging.New(level, f), func() { f.Close() }, nil
	}
	if tuiMode {
		return logging.New(level, nil), func() {}, nil
	}
	return logging.New(level, os.Stderr), func() {}, nil
}

// newController builds the board controller with its render hooks: the
// notifier when configured, and plain-text output when there is no TUI.
func newController(cfg *config.Config, id string, logger *slog.Logger, inst *metrics.Instruments, headless bool, out io.Writer) *board.Controller {
	var hooks []func(board.RenderModel)
	if n := newNotifier(cfg); n != nil {
		hooks = append(hooks, n.Hook)
	}
	if headless {
		hooks = append(hooks, plainPrinter(out))
	}
	return board.New(cfg, id,
		board.WithLogger(logger),
		board.WithInstruments(inst),
		board.WithRenderHook(renderHooks(hooks...)),
	)
}

// newNotifier returns a notifier for cfg, or nil when notifications are off.
func newNotifier(cfg *config.Config) *notify.Notifier {
	nc := cfg.Notifications
	if nc.URL == "" || (!nc.OnError && !nc.OnRecover) {
		return nil
	}
	return notify.New(nc.URL, cfg.Display.HeaderText, nc.OnError, nc.OnRecover)
}

// renderHooks fans one render out to every hook in order.
func renderHooks(hooks ...func(board.RenderModel)) func(board.RenderModel) {
	if len(hooks) == 0 {
		return nil
	}
	return func(rm board.RenderModel) {
		for _, h := range hooks {
			h(rm)
		}
	}
}

// plainPrinter writes each render as plain text followed by a blank line.
func plainPrinter(w io.Writer) func(board.RenderModel) {
	return func(rm board.RenderModel) {
		fmt.Fprintf(w, "%s\n\n", board.Plain(rm))
	}
}

// runHeadless drives the controller without a terminal UI. Renders reach
// stdout through the render hook.
func runHeadless(ctx context.Context, ctrl *board.Controller, plan board.StartupPlan, events <-chan transit.Event) error {
	return ignoreCanceled(ctrl.Run(ctx, plan, events))
}

// runTUI hosts the controller in the bubbletea program until the user quits.
func runTUI(ctx context.Context, ctrl *board.Controller, plan board.StartupPlan, events <-chan transit.Event, opts tui.Options) error {
	model := tui.New(ctrl, events, plan, opts)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	return finishTUI(program)
}

// finishTUI runs the bubbletea program. A program stopped by context
// cancellation (signal) is a normal shutdown.
func finishTUI(program *tea.Program) error {
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// ignoreCanceled suppresses context cancellation, which is how user quit
// and signals end a run.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// paceEvents sends events to out, spacing them by their recorded
// timestamps divided by speed. A speed of 0 sends as fast as out is read.
// out is closed on return.
func paceEvents(ctx context.Context, events []transit.Event, speed float64, out chan<- transit.Event) error {
	defer close(out)

	var prev time.Time
	for _, ev := range events {
		if d := replayDelay(prev, ev.Timestamp, speed); d > 0 {
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		if !ev.Timestamp.IsZero() {
			prev = ev.Timestamp
		}

		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// replayDelay returns how long to wait before an event stamped next when
// the previous one was stamped prev. Unknown or out-of-order timestamps
// give no delay.
func replayDelay(prev, next time.Time, speed float64) time.Duration {
	if speed <= 0 || prev.IsZero() || next.IsZero() || !next.After(prev) {
		return 0
	}
	return time.Duration(float64(next.Sub(prev)) / speed)
}

// publishAll publishes every event from in to channel until in closes.
// It returns how many were published.
func publishAll(ctx context.Context, pub *transport.Publisher, channel string, in <-chan transit.Event) (int, error) {
	n := 0
	for ev := range in {
		if _, err := pub.PublishEvent(ctx, channel, ev); err != nil {
			return n, err
		}
		n++
	}
	return n, ctx.Err()
}
