package main

import (
	"context"
	"fmt"

	"regform/internal/client"
	"regform/internal/config"
	"regform/internal/form"
	"regform/internal/host"
	"regform/internal/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// session is everything one form instance needs: the host it is mounted
// in, the descriptor read at mount, and the effect runner.
type session struct {
	host   host.Host
	device string
	client *client.Client
	runner *form.Runner
	audit  *logging.AuditLogger
}

// openHost is replaced in tests.
var openHost = host.Open

func newSession(ctx context.Context, c *config.Config) (*session, error) {
	h, err := openHost(ctx, c, version)
	if err != nil {
		return nil, err
	}
	device, err := h.UserAgent(ctx)
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("read device descriptor: %w", err)
	}

	svc := newClient(c)
	audit := logging.AuditWithSession(uuid.NewString())
	audit.SessionStart(device)
	logging.Get(logging.CategoryBoot).Debug("Session opened",
		zap.String("session", audit.SessionID()),
		zap.String("host", c.Host.Kind))

	return &session{
		host:   h,
		device: device,
		client: svc,
		audit:  audit,
		runner: &form.Runner{
			Service:       svc,
			Locator:       h,
			Audit:         audit,
			LocateTimeout: c.GetGeolocationTimeout(),
		},
	}, nil
}

// initialState is the empty form mounted with this session's descriptor.
func (s *session) initialState(c *config.Config) form.State {
	return form.New(s.device, formOptions(c))
}

func (s *session) close(submitted bool) {
	s.audit.SessionEnd(submitted)
	if err := s.host.Close(); err != nil {
		logging.Get(logging.CategoryBoot).Warn("Host close failed", zap.Error(err))
	}
}
