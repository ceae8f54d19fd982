// Package service wires the gateway request into the dialog engine:
// lock the session, load it, resolve the caller's registration facts,
// advance one step, persist, render. The whole span runs under the
// session lock so concurrent deliveries for one session serialize.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tumaini/bizmanager/internal/dialog"
	"github.com/tumaini/bizmanager/internal/logging"
	"github.com/tumaini/bizmanager/internal/metrics"
	"github.com/tumaini/bizmanager/internal/session"
	"github.com/tumaini/bizmanager/pkg/domain"
	"github.com/tumaini/bizmanager/pkg/ports"
)

// genericFailure is the only text a caller ever sees for an internal
// fault. Detail goes to the log, never onto the handset.
const genericFailure = "END Something went wrong. Please try again later."

// Service handles one USSD gateway request end to end.
type Service struct {
	manager *session.Manager
	engine  *dialog.Engine
	repo    ports.Repository
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures the service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics enables request instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New assembles the request pipeline.
func New(manager *session.Manager, engine *dialog.Engine, repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		manager: manager,
		engine:  engine,
		repo:    repo,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle advances the dialog for one gateway delivery and returns the
// wire-ready reply body. The second return reports whether the step
// failed internally; the body is a safe terminal message in that case
// and the transport should signal a server error alongside it.
func (s *Service) Handle(ctx context.Context, sessionID, phone, text string) (string, bool) {
	started := time.Now()

	reply, err := s.step(ctx, sessionID, phone, text)
	if err != nil {
		s.logger.Error("dialog step failed",
			"session_id", sessionID,
			"phone", phone,
			"err", err,
		)
		s.metrics.Observe(metrics.OutcomeError, time.Since(started).Seconds())
		return genericFailure, true
	}

	outcome := metrics.OutcomeContinue
	if reply.Terminal {
		outcome = metrics.OutcomeEnd
	}
	s.metrics.Observe(outcome, time.Since(started).Seconds())
	return reply.Render(), false
}

// step runs the locked lookup→advance→save span.
func (s *Service) step(ctx context.Context, sessionID, phone, text string) (domain.Reply, error) {
	var reply domain.Reply

	err := s.manager.WithLock(ctx, sessionID, func(ctx context.Context) error {
		sess, err := s.manager.LoadOrStart(ctx, sessionID, phone)
		if err != nil {
			return err
		}

		// The registration fact is observed fresh on every request.
		facts, err := s.resolveFacts(ctx, phone)
		if err != nil {
			return err
		}

		reply, err = s.engine.Step(ctx, sess, dialog.LastToken(text), facts)
		if err != nil {
			return err
		}

		if reply.Terminal {
			// The gateway will not reuse this id; dropping the record
			// now keeps the store bounded without waiting for the TTL.
			return s.manager.Delete(ctx, sessionID)
		}
		return s.manager.Save(ctx, sess)
	})
	if err != nil {
		return domain.Reply{}, err
	}
	return reply, nil
}

func (s *Service) resolveFacts(ctx context.Context, phone string) (dialog.Facts, error) {
	profile, err := s.repo.FindProfileByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return dialog.Facts{}, nil
		}
		return dialog.Facts{}, err
	}
	return dialog.Facts{Profile: profile}, nil
}
