package board

import (
	"context"
	"time"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/transit"
)

// Run drives the controller from a single goroutine until ctx is cancelled
// or events is closed. It implements the startup delay with a timer that,
// once armed, always fires: if events closes first, Run still waits for
// the release render before returning. Renders reach the host through the
// render hook.
func (c *Controller) Run(ctx context.Context, plan StartupPlan, events <-chan transit.Event) error {
	var release <-chan time.Time
	if plan.ArmDelay {
		timer := time.NewTimer(plan.Delay)
		defer timer.Stop()
		release = timer.C
	} else {
		c.Release()
	}

	for events != nil || release != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-release:
			release = nil
			c.Release()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			c.Handle(ev)
		}
	}
	return nil
}
