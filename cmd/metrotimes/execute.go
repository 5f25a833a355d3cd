package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/board"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/config"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/metrics"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/store"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/supervisor"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transport"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/tui"
)

type runOptions struct {
	configPath string
	noTUI      bool
	logFile    string
	record     string
	identifier string
}

type replayOptions struct {
	file       string
	configPath string
	noTUI      bool
	logFile    string
	identifier string
	speed      float64
	publish    bool
}

// loadConfig loads and validates the configuration at path.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

// executeRun registers with the collaborator over Redis and shows the
// board until the user quits or a signal arrives.
func executeRun(opts runOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(cfg.Log.Level, firstNonEmpty(opts.logFile, cfg.Log.File), !opts.noTUI)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, cancel := signalContext()
	defer cancel()

	inst, shutdown, err := newInstruments(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	pool := transport.NewPool(cfg.Transport.RedisAddr, poolOptions(cfg.Transport)...)
	defer pool.Close()

	// Subscribe before registering so the first replies are not missed.
	raw := make(chan transit.Event, 64)
	sub := &transport.Subscriber{Pool: pool, Channel: cfg.Transport.EventsChannel, Logger: logger}
	sup := supervisor.New(cfg.Transport, logger)
	subErr := make(chan error, 1)
	go func() { subErr <- sup.Supervise(ctx, sub.Subscribe, raw) }()

	var events <-chan transit.Event = raw
	var rec *store.JSONL
	if opts.record != "" {
		rec, err = store.OpenJSONL(opts.record)
		if err != nil {
			cancel()
			<-subErr
			return err
		}
		events = store.Tee(ctx, raw, rec, logger)
		logger.Info("recording events", "path", rec.Path())
	}

	id := resolveIdentifier(opts.identifier, cfg.Instance.Identifier)
	ctrl := newController(cfg, id, logger, inst, opts.noTUI, os.Stdout)
	plan := ctrl.Start()
	if plan.Registration != nil {
		pub := &transport.Publisher{Pool: pool, Channel: cfg.Transport.RegisterChannel}
		register(ctx, pub, *plan.Registration, logger)
	}

	var hostErr error
	if opts.noTUI {
		hostErr = runHeadless(ctx, ctrl, plan, events)
	} else {
		hostErr = runTUI(ctx, ctrl, plan, events, tuiOptions(cfg))
	}

	cancel()
	if rec != nil {
		if err := drainAndClose(events, rec); err != nil {
			logger.Warn("closing event capture", "error", err)
		}
		logger.Info("event capture closed", "path", rec.Path(), "events", rec.Count())
	}
	if err := <-subErr; err != nil && !errors.Is(err, context.Canceled) && hostErr == nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	return hostErr
}

// executeReplay feeds a recorded event log to a local board, or publishes
// it to the events channel for other boards to consume.
func executeReplay(opts replayOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if errors.Is(err, config.ErrNotFound) && opts.configPath == "" {
		d := config.Defaults()
		cfg, err = &d, nil
	}
	if err != nil {
		return err
	}

	recorded, summary, err := store.ReadFile(opts.file)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(cfg.Log.Level, firstNonEmpty(opts.logFile, cfg.Log.File), !opts.noTUI && !opts.publish)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)
	logger.Info("replaying events", "file", opts.file, "events", summary.Events, "skipped", summary.Skipped)

	ctx, cancel := signalContext()
	defer cancel()

	events := make(chan transit.Event)
	paceErr := make(chan error, 1)
	go func() { paceErr <- paceEvents(ctx, recorded, opts.speed, events) }()

	if opts.publish {
		pool := transport.NewPool(cfg.Transport.RedisAddr, poolOptions(cfg.Transport)...)
		defer pool.Close()
		pub := &transport.Publisher{Pool: pool}
		n, err := publishAll(ctx, pub, cfg.Transport.EventsChannel, events)
		cancel()
		<-paceErr
		fmt.Printf("Published %d of %d events to %s\n", n, summary.Events, cfg.Transport.EventsChannel)
		return ignoreCanceled(err)
	}

	inst, shutdown, err := newInstruments(ctx)
	if err != nil {
		cancel()
		<-paceErr
		return err
	}
	defer shutdown()

	id := resolveIdentifier(opts.identifier, store.FirstIdentifier(recorded), cfg.Instance.Identifier)
	ctrl := newController(cfg, id, logger, inst, opts.noTUI, os.Stdout)
	plan := ctrl.Start()
	// There is no collaborator to register with.
	plan.Registration = nil

	var hostErr error
	if opts.noTUI {
		hostErr = runHeadless(ctx, ctrl, plan, events)
	} else {
		hostErr = runTUI(ctx, ctrl, plan, events, tuiOptions(cfg))
	}
	cancel()
	<-paceErr
	return hostErr
}

// newInstruments sets up metrics export. The returned shutdown flushes
// pending data.
func newInstruments(ctx context.Context) (*metrics.Instruments, func(), error) {
	meter, shutdown, err := metrics.Init(ctx)
	if err != nil {
		return nil, nil, err
	}
	inst, err := metrics.NewInstruments(meter)
	if err != nil {
		_ = shutdown(context.Background())
		return nil, nil, err
	}
	return inst, func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("metrics shutdown failed", "error", err)
		}
	}, nil
}

// register publishes the registration. Failures are logged: the board
// keeps showing its waiting state and the supervisor reports a dead bus.
func register(ctx context.Context, pub *transport.Publisher, reg transit.Registration, logger *slog.Logger) {
	n, err := pub.Register(ctx, reg)
	switch {
	case err != nil:
		logger.Error("registration failed", "channel", pub.Channel, "error", err)
	case n == 0:
		logger.Warn("no collaborator listening for registrations", "channel", pub.Channel)
	default:
		logger.Info("registered", "identifier", reg.Identifier, "receivers", n)
	}
}

// describeConfig summarizes what a board started from cfg would do.
func describeConfig(cfg *config.Config, id string) string {
	ctrl := board.New(cfg, id, board.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	plan := ctrl.Start()

	var b strings.Builder
	fmt.Fprintf(&b, "identifier:    %s\n", id)
	fmt.Fprintf(&b, "phase:         %s\n", ctrl.Phase())
	if plan.Registration != nil {
		fmt.Fprintf(&b, "registration:  %s on %s\n", cfg.Transport.RedisAddr, cfg.Transport.RegisterChannel)
	} else {
		fmt.Fprintf(&b, "registration:  none (%s)\n", ctrl.State().ErrorMessage)
	}
	fmt.Fprintf(&b, "events:        %s\n", cfg.Transport.EventsChannel)
	if plan.ArmDelay {
		fmt.Fprintf(&b, "first render:  after %s (%s)\n", plan.Delay, cfg.Startup.DelayPolicy)
	} else {
		fmt.Fprintf(&b, "first render:  immediate (%s)\n", cfg.Startup.DelayPolicy)
	}
	fmt.Fprintf(&b, "incidents:     %s\n", onOff(cfg.Display.ShowIncidents))
	fmt.Fprintf(&b, "stations:      %s\n", listOrOff(cfg.Display.ShowStationTrainTimes, cfg.Trains.Stations))
	fmt.Fprintf(&b, "stops:         %s\n", listOrOff(cfg.Display.ShowBusStopTimes, cfg.Buses.Stops))
	if cfg.Notifications.URL != "" {
		fmt.Fprintf(&b, "notifications: %s\n", cfg.Notifications.URL)
	} else {
		fmt.Fprintf(&b, "notifications: off\n")
	}
	fmt.Fprintf(&b, "\n%s\n", board.Plain(ctrl.Render()))
	return b.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func listOrOff(on bool, items []string) string {
	if !on {
		return "off"
	}
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func tuiOptions(cfg *config.Config) tui.Options {
	return tui.Options{
		AccentColor: cfg.TUI.AccentColor,
		LimitWidth:  cfg.Display.LimitWidth,
	}
}
