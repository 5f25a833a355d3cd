package board

import (
	"context"
	"log/slog"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/config"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/metrics"
	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
)

// Controller owns the state of one board instance and routes collaborator
// events into it. It is not safe for concurrent use: a single host
// goroutine (Run, or the bubbletea update loop) must own it.
type Controller struct {
	cfg   *config.Config
	id    string
	state State
	sched Scheduler

	started bool
	renders int
	last    RenderModel

	logger   *slog.Logger
	inst     *metrics.Instruments
	onRender func(RenderModel)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithInstruments records events and renders into inst.
func WithInstruments(inst *metrics.Instruments) Option {
	return func(c *Controller) { c.inst = inst }
}

// WithRenderHook registers fn to receive every render model the
// controller produces. It is how the controller asks the host to redraw.
func WithRenderHook(fn func(RenderModel)) Option {
	return func(c *Controller) { c.onRender = fn }
}

// New creates a controller for cfg. identifier correlates this instance
// with its polling collaborator. A missing credential puts the controller
// in PhaseConfigError immediately.
func New(cfg *config.Config, identifier string, opts ...Option) *Controller {
	c := &Controller{
		cfg:    cfg,
		id:     identifier,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.state.Phase = PhaseUninitialized
	if !cfg.HasCredential() {
		c.state.Phase = PhaseConfigError
		c.state.ErrorMessage = MsgMissingAPIKey
		c.logger.Error("wmata api key missing; registration will not be sent")
	}
	return c
}

// Identifier returns the correlation identifier of this instance.
func (c *Controller) Identifier() string { return c.id }

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase { return c.state.Phase }

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state }

// Renders returns how many render passes have run.
func (c *Controller) Renders() int { return c.renders }

// Start produces the startup plan. It must be called once, before any
// event is handled; later calls return a plan without a registration.
func (c *Controller) Start() StartupPlan {
	plan := StartupPlan{Delay: c.cfg.Startup.Delay()}
	first := !c.started
	c.started = true

	if first && c.state.Phase == PhaseUninitialized {
		plan.Registration = &transit.Registration{
			Identifier: c.id,
			Path:       c.cfg.Instance.Path,
			Config:     c.cfg,
		}
		c.state.Phase = PhaseAwaitingFirstData
	}

	switch c.cfg.Startup.DelayPolicy {
	case config.DelayNever:
		plan.ArmDelay = false
	case config.DelayOnConfigError:
		plan.ArmDelay = c.state.Phase == PhaseConfigError
	default:
		plan.ArmDelay = true
	}
	if !plan.ArmDelay {
		c.sched.Open()
	}

	c.logger.Info("board starting",
		"identifier", c.id,
		"phase", c.state.Phase.String(),
		"register", plan.Registration != nil,
		"delay", plan.Delay,
		"arm_delay", plan.ArmDelay,
	)
	return plan
}

// Handle applies one collaborator event. It reports whether a render ran
// as a result; renders requested inside the startup window are deferred
// to Release. Handle never fails: every condition ends up in the state.
func (c *Controller) Handle(ev transit.Event) bool {
	ctx := context.Background()

	if ev.Kind == transit.KindDebug {
		c.logger.Debug("collaborator debug", "identifier", ev.Identifier, "message", ev.Message)
		return false
	}
	if ev.Identifier != c.id {
		c.logger.Debug("event for another instance dropped", "kind", ev.Kind.String(), "identifier", ev.Identifier)
		c.inst.EventDropped(ctx, ev.Kind.String())
		return false
	}

	switch ev.Kind {
	case transit.KindIncidentUpdate:
		var incidents transit.Incidents
		if ev.Incidents != nil {
			incidents = *ev.Incidents
		}
		c.state.Incidents.Set(incidents)
		c.accept()
	case transit.KindStationTrainUpdate:
		c.state.Trains.Set(ev.Stations)
		c.accept()
	case transit.KindBusStopUpdate:
		c.state.Buses.Set(ev.Stops)
		c.accept()
	case transit.KindFatalPollError:
		if c.state.Phase == PhaseConfigError {
			c.logger.Warn("collaborator reported too many failures; keeping configuration error",
				"error", c.state.ErrorMessage)
			return false
		}
		c.state.ErrorMessage = MsgTooManyFailures
		c.logger.Warn("collaborator reported too many failures")
	default:
		c.logger.Warn("event of unknown kind ignored", "kind", ev.Kind.String())
		return false
	}
	c.inst.EventAccepted(ctx, ev.Kind.String())

	if !c.sched.Request() {
		c.inst.Coalesced(ctx)
		return false
	}
	c.render("event")
	return true
}

// accept records a successful stream update.
func (c *Controller) accept() {
	c.state.ErrorMessage = ""
	c.state.Phase = PhaseReady
}

// Release ends the startup window and renders once with whatever state
// has accumulated. Further calls simply render again.
func (c *Controller) Release() RenderModel {
	if n := c.sched.Open(); n > 0 {
		c.logger.Debug("startup window elapsed", "coalesced", n)
	}
	return c.render("release")
}

// Last returns the model produced by the most recent render pass, the one
// already handed to the render hook. It is the zero model before the
// first pass.
func (c *Controller) Last() RenderModel { return c.last }

// Render returns the current render model without side effects. Hosts
// call it whenever they want a fresh view.
func (c *Controller) Render() RenderModel {
	return Build(c.cfg, &c.state)
}

func (c *Controller) render(trigger string) RenderModel {
	rm := Build(c.cfg, &c.state)
	c.last = rm
	c.renders++
	c.inst.Rendered(context.Background(), trigger)
	if c.onRender != nil {
		c.onRender(rm)
	}
	return rm
}
