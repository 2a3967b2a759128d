// Package auth implements the session lifecycle: login, signup, session
// rehydration, logout, and token-expiry handling. All intents funnel
// through a single dispatch loop, so transitions, the session slot, and
// the logout timer are only ever touched by one goroutine.
package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"recipebook/internal/events"
	"recipebook/internal/identity"
	"recipebook/internal/session"
)

// Orchestrator mediates all transitions between the unauthenticated and
// authenticated states.
type Orchestrator struct {
	identity identity.API
	store    session.Store
	producer *events.Producer
	logger   *slog.Logger
	timer    *LogoutTimer
	now      func() time.Time

	mu      sync.Mutex
	state   State
	current *session.Session
	subs    map[int]chan Outcome
	nextSub int

	intents chan intent
	runCtx  context.Context
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithEvents attaches an audit-event producer.
func WithEvents(p *events.Producer) Option {
	return func(o *Orchestrator) { o.producer = p }
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates an orchestrator in the unauthenticated state.
func NewOrchestrator(api identity.API, store session.Store, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		identity: api,
		store:    store,
		logger:   logger,
		timer:    NewLogoutTimer(),
		now:      time.Now,
		state:    StateUnauthenticated,
		subs:     make(map[int]chan Outcome),
		intents:  make(chan intent),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run processes intents in issue order until ctx is cancelled. Remote calls
// and slot access happen on this goroutine, so no two intents ever
// interleave and each response is matched to the request that produced it.
func (o *Orchestrator) Run(ctx context.Context) {
	o.mu.Lock()
	o.runCtx = ctx
	o.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			o.timer.Cancel()
			return
		case in := <-o.intents:
			out := o.handle(ctx, in)
			if in.reply != nil {
				in.reply <- out
			}
			o.broadcast(out)
		}
	}
}

// Login resolves a password sign-in intent. The returned outcome is always
// Success or Failure; errors never escape as errors.
func (o *Orchestrator) Login(ctx context.Context, email, password string) Outcome {
	return o.dispatch(ctx, intent{kind: intentLogin, email: email, password: password})
}

// SignUp resolves a sign-up intent against the identity endpoint.
func (o *Orchestrator) SignUp(ctx context.Context, email, password string) Outcome {
	return o.dispatch(ctx, intent{kind: intentSignup, email: email, password: password})
}

// AutoLogin rehydrates a session from the slot. A missing, corrupt, or
// expired record yields a no-op outcome, never a failure.
func (o *Orchestrator) AutoLogin(ctx context.Context) Outcome {
	return o.dispatch(ctx, intent{kind: intentAutoLogin})
}

// Logout ends the session: cancels the timer, clears the slot, and redirects
// to the auth entry view. Always succeeds; idempotent when no session exists.
func (o *Orchestrator) Logout(ctx context.Context) Outcome {
	return o.dispatch(ctx, intent{kind: intentLogout})
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// CurrentSession returns a copy of the live session, or nil.
func (o *Orchestrator) CurrentSession() *session.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return nil
	}
	s := *o.current
	return &s
}

// Subscribe registers an outcome listener. The returned cancel func must be
// called when the listener goes away. Slow listeners miss outcomes rather
// than stalling the dispatch loop.
func (o *Orchestrator) Subscribe() (<-chan Outcome, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextSub
	o.nextSub++
	ch := make(chan Outcome, 16)
	o.subs[id] = ch

	cancel := func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if sub, ok := o.subs[id]; ok {
			delete(o.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (o *Orchestrator) dispatch(ctx context.Context, in intent) Outcome {
	in.reply = make(chan Outcome, 1)

	select {
	case o.intents <- in:
	case <-ctx.Done():
		return Outcome{Kind: OutcomeNone}
	}

	// The remote call has no cancellation path: even if the caller gives
	// up here, the loop finishes the intent and updates state.
	select {
	case out := <-in.reply:
		return out
	case <-ctx.Done():
		return Outcome{Kind: OutcomeNone}
	}
}

func (o *Orchestrator) handle(ctx context.Context, in intent) Outcome {
	switch in.kind {
	case intentLogin:
		return o.authenticate(ctx, in.email, in.password, false)
	case intentSignup:
		return o.authenticate(ctx, in.email, in.password, true)
	case intentAutoLogin:
		return o.autoLogin(ctx)
	case intentExpire:
		return o.logout(ctx, true)
	default:
		return o.logout(ctx, false)
	}
}

func (o *Orchestrator) authenticate(ctx context.Context, email, password string, signup bool) Outcome {
	o.setState(StateAuthenticating)

	var (
		creds *identity.Credentials
		err   error
	)
	if signup {
		creds, err = o.identity.SignUp(ctx, email, password)
	} else {
		creds, err = o.identity.SignIn(ctx, email, password)
	}
	if err != nil {
		o.logger.Warn("authentication failed", "email", email, "signup", signup, "error", err.Error())
		o.setState(StateUnauthenticated)
		return Outcome{Kind: OutcomeFailure, Message: failureMessage(err)}
	}

	now := o.now()
	sess := session.Session{
		Email:          creds.Email,
		UserID:         creds.UserID,
		Token:          creds.IDToken,
		ExpirationDate: now.Add(creds.ExpiresIn),
	}

	o.timer.Arm(creds.ExpiresIn, o.expire)

	if err := o.store.Save(ctx, sess); err != nil {
		// Persistence is best effort: the live session stands either way,
		// only auto-login after a restart is lost.
		o.logger.Warn("failed to persist session", "error", err.Error())
	}

	o.setSession(&sess)

	eventType := events.TypeLogin
	if signup {
		eventType = events.TypeSignup
	}
	o.audit(eventType, &sess)

	o.logger.Info("authenticated", "email", sess.Email, "user_id", sess.UserID,
		"expires_at", sess.ExpirationDate)

	return Outcome{Kind: OutcomeSuccess, Session: &sess, Redirect: RedirectRoot}
}

func (o *Orchestrator) autoLogin(ctx context.Context) Outcome {
	o.setState(StateAuthenticating)

	stored, err := o.store.Load(ctx)
	if err != nil {
		o.logger.Warn("failed to read session slot", "error", err.Error())
		o.setState(StateUnauthenticated)
		return Outcome{Kind: OutcomeNone}
	}
	if stored == nil {
		o.setState(StateUnauthenticated)
		return Outcome{Kind: OutcomeNone}
	}

	now := o.now()
	if !stored.Valid(now) {
		// An expired record must never produce a session or a negative
		// timer duration. Drop it.
		if err := o.store.Clear(ctx); err != nil {
			o.logger.Warn("failed to clear expired session", "error", err.Error())
		}
		o.setState(StateUnauthenticated)
		return Outcome{Kind: OutcomeNone}
	}

	o.timer.Arm(stored.Remaining(now), o.expire)
	o.setSession(stored)
	o.audit(events.TypeAutoLogin, stored)

	o.logger.Info("session rehydrated", "email", stored.Email, "user_id", stored.UserID,
		"remaining", stored.Remaining(now))

	return Outcome{Kind: OutcomeSuccess, Session: stored, Redirect: RedirectRoot}
}

func (o *Orchestrator) logout(ctx context.Context, expired bool) Outcome {
	o.timer.Cancel()

	if err := o.store.Clear(ctx); err != nil {
		o.logger.Warn("failed to clear session slot", "error", err.Error())
	}

	o.mu.Lock()
	prev := o.current
	o.current = nil
	o.state = StateUnauthenticated
	o.mu.Unlock()

	if prev != nil {
		eventType := events.TypeLogout
		if expired {
			eventType = events.TypeExpired
		}
		o.audit(eventType, prev)
		o.logger.Info("logged out", "email", prev.Email, "expired", expired)
	}

	return Outcome{Kind: OutcomeNone, Redirect: RedirectAuth}
}

// expire runs on the timer goroutine when the session's validity window
// closes. It feeds a logout back through the dispatch loop so expiry is
// serialized with every other intent.
func (o *Orchestrator) expire() {
	o.mu.Lock()
	ctx := o.runCtx
	o.mu.Unlock()
	if ctx == nil {
		return
	}

	select {
	case o.intents <- intent{kind: intentExpire}:
	case <-ctx.Done():
	}
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) setSession(s *session.Session) {
	o.mu.Lock()
	o.current = s
	o.state = StateAuthenticated
	o.mu.Unlock()
}

func (o *Orchestrator) broadcast(out Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, ch := range o.subs {
		select {
		case ch <- out:
		default:
		}
	}
}

func (o *Orchestrator) audit(eventType string, s *session.Session) {
	if o.producer == nil {
		return
	}

	event := events.AuthEvent{Type: eventType, At: o.now()}
	if s != nil {
		event.Email = s.Email
		event.UserID = s.UserID
	}

	if err := o.producer.Publish(event); err != nil {
		o.logger.Warn("failed to publish auth event", "type", eventType, "error", err.Error())
	}
}
