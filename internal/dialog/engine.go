// Package dialog implements the conversation state machine. Every
// gateway request advances a session by exactly one step: the newest
// keystroke is interpreted against the current state, accumulated flow
// data is mutated, at most one business write happens, and a single
// CON/END reply comes back.
//
// States are dispatched through declarative tables (see table.go); the
// per-flow handlers live in their own files.
package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tumaini/bizmanager/internal/logging"
	"github.com/tumaini/bizmanager/pkg/domain"
	"github.com/tumaini/bizmanager/pkg/ports"
)

// Facts are the external observations a step depends on. They are
// fetched fresh per request and injected, never cached on the session,
// so tests can drive the controller directly.
type Facts struct {
	// Profile is the caller's registered profile, nil when the phone
	// number is unknown.
	Profile *domain.Profile
}

// Registered reports whether the caller has a profile.
func (f Facts) Registered() bool {
	return f.Profile != nil
}

// Engine is the dialog controller.
type Engine struct {
	repo   ports.Repository
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock overrides the time source. Used by period-aggregation tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates a dialog engine over the given repository.
func New(repo ports.Repository, opts ...Option) *Engine {
	e := &Engine{
		repo:   repo,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// step carries everything one transition needs.
type step struct {
	ctx   context.Context
	eng   *Engine
	sess  *domain.Session
	input string
	facts Facts
}

// handlerFunc advances the session by one step. It mutates sess.State
// and the flow accumulators in place and returns the reply.
type handlerFunc func(st *step) (domain.Reply, error)

// Step resolves the handler for the session's current state and runs
// it. The registered/unregistered branch is re-chosen on every step
// from the injected facts, never from stale session data: a caller who
// registered mid-conversation moves to the main branch immediately,
// and an unknown phone number is confined to registration no matter
// what state its (possibly recycled) session carries.
func (e *Engine) Step(ctx context.Context, sess *domain.Session, input string, facts Facts) (domain.Reply, error) {
	st := &step{ctx: ctx, eng: e, sess: sess, input: input, facts: facts}

	var table map[domain.DialogState]handlerFunc
	if facts.Registered() {
		table = registeredStates
	} else {
		table = unregisteredStates
	}

	h, ok := table[sess.State]
	if !ok {
		// State belongs to the other branch (expired mid-flow,
		// registered elsewhere). Restart cleanly at the branch root.
		sess.ResetFlows()
		sess.State = domain.StateStart
		h = table[domain.StateStart]
	}

	reply, err := h(st)
	if err != nil {
		return domain.Reply{}, err
	}
	if reply.Terminal {
		sess.State = domain.StateEnd
	}
	return reply, nil
}

// idemKey derives the idempotency key for the terminal write of a
// step. One logical submission always produces the same key, so a
// replayed delivery that re-runs the write is absorbed downstream,
// while the flow sequence number keeps a second submission of the same
// flow distinct.
func idemKey(sess *domain.Session, state domain.DialogState) string {
	return fmt.Sprintf("%s:%s:%d", sess.ID, state, sess.Seq)
}
