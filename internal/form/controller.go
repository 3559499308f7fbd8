package form

import (
	"context"
	"sync"

	"regform/internal/registration"
)

// Controller drives a State without a user interface. Effects run inline,
// so Dispatch returns only after every follow-up event has been applied.
// It is used by the non-interactive commands and by tests.
type Controller struct {
	mu     sync.Mutex
	state  State
	runner *Runner
}

// NewController starts from initial and executes effects with runner.
func NewController(initial State, runner *Runner) *Controller {
	return &Controller{state: initial, runner: runner}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies ev and runs the resulting effects to completion.
// Concurrent calls are serialized.
func (c *Controller) Dispatch(ctx context.Context, ev Event) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	queue := []Event{ev}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		prev := c.state
		state, effects := Reduce(prev, next)
		c.runner.Observe(prev, state, next)
		c.state = state

		for _, eff := range effects {
			if out := c.runner.Run(ctx, eff); out != nil {
				queue = append(queue, out)
			}
		}
	}
	return c.state
}

// FillDraft types the non-empty fields of d into the form. With lookup set
// the phone number goes first and is blurred, so a stored customer record
// can prefill the form before the remaining values from d overwrite it.
func (c *Controller) FillDraft(ctx context.Context, d registration.Draft, lookup bool) State {
	st := c.State()
	if lookup && d.Phone != "" {
		c.Dispatch(ctx, FieldChanged{Field: registration.FieldPhone, Value: d.Phone})
		st = c.Dispatch(ctx, FieldBlurred{Field: registration.FieldPhone})
	}
	for _, f := range registration.Fields {
		if lookup && f == registration.FieldPhone {
			continue
		}
		if v := d.Get(f); v != "" {
			st = c.Dispatch(ctx, FieldChanged{Field: f, Value: v})
		}
	}
	return st
}
