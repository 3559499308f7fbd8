package form

import (
	"context"
	"fmt"
	"time"

	"regform/internal/geo"
	"regform/internal/logging"
	"regform/internal/registration"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is the remote side of the form. *client.Client implements it.
type Service interface {
	Lookup(ctx context.Context, phone string) (registration.Record, error)
	Register(ctx context.Context, requestID string, payload registration.Payload) error
	RegisterEndpoint() string
}

// Runner executes effects and turns their outcomes back into events.
type Runner struct {
	Service Service
	Locator geo.Locator
	Audit   *logging.AuditLogger
	// LocateTimeout bounds one geolocation request. Zero means no bound
	// beyond the caller's context.
	LocateTimeout time.Duration
}

// Run executes eff and returns the completion event. It blocks until the
// operation finishes or ctx is done.
func (r *Runner) Run(ctx context.Context, eff Effect) Event {
	switch eff := eff.(type) {
	case LookupEffect:
		return r.lookup(ctx, eff)
	case SubmitEffect:
		return r.submit(ctx, eff)
	case LocateEffect:
		return r.locate(ctx)
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, eff LookupEffect) Event {
	r.audit().LookupIssued(eff.Seq, eff.Phone)
	rec, err := r.Service.Lookup(ctx, eff.Phone)
	if err != nil {
		logging.Get(logging.CategoryLookup).Debug("Customer lookup failed",
			zap.Uint64("seq", eff.Seq), zap.Error(err))
	}
	return LookupCompleted{Seq: eff.Seq, Record: rec, Err: err}
}

func (r *Runner) submit(ctx context.Context, eff SubmitEffect) Event {
	endpoint := r.Service.RegisterEndpoint()
	reqID := uuid.NewString()
	r.audit().SubmitSent(reqID, endpoint, eff.Optimistic)

	start := time.Now()
	err := r.Service.Register(ctx, reqID, eff.Payload)
	r.audit().SubmitFinished(reqID, endpoint, time.Since(start), err)

	if err != nil && eff.Optimistic {
		// The success view is already showing; this log line is the only
		// trace of the failure.
		logging.Get(logging.CategorySubmit).Error("Registration failed after optimistic success",
			zap.String("req", reqID), zap.Error(err))
	}
	return SubmitCompleted{Err: err}
}

func (r *Runner) locate(ctx context.Context) Event {
	loc := r.Locator
	if loc == nil {
		loc = geo.Unsupported
	}
	if r.LocateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.LocateTimeout)
		defer cancel()
	}

	pos, err := loc.CurrentPosition(ctx)
	if err == nil && !pos.Valid() {
		err = fmt.Errorf("%w: reading %v out of range", geo.ErrDenied, pos)
	}
	if err != nil {
		r.audit().LocateFinished("", err)
		return LocationCompleted{Err: err}
	}
	r.audit().LocateFinished(pos.String(), nil)
	return LocationCompleted{Position: pos}
}

// Observe writes the audit and debug trail for one transition.
func (r *Runner) Observe(prev, next State, ev Event) {
	switch ev := ev.(type) {
	case LookupCompleted:
		r.audit().LookupFinished(ev.Seq, prev.Draft.Phone, LookupApplies(prev, ev), ev.Err)
	case SubmitRequested:
		if len(next.Errors) > 0 {
			names := make([]string, 0, len(next.Errors))
			for _, f := range next.Errors.Fields() {
				names = append(names, string(f))
			}
			r.audit().SubmitBlocked(names)
		}
	}
	if prev.Phase != next.Phase {
		logging.FormDebug("Phase changed",
			zap.Stringer("from", prev.Phase),
			zap.Stringer("to", next.Phase),
			zap.String("event", fmt.Sprintf("%T", ev)))
	}
}

func (r *Runner) audit() *logging.AuditLogger {
	if r.Audit == nil {
		return logging.AuditWithSession("")
	}
	return r.Audit
}
