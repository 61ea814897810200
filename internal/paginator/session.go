// Package paginator renders an ordered list of entries into a single chat
// message and lets one user page through it with navigation buttons.
package paginator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultIdleTimeout is how long a session waits for the next action before
// stopping on its own.
const DefaultIdleTimeout = 120 * time.Second

// ErrNoEntries is returned by Start for an empty entry list.
var ErrNoEntries = errors.New("paginator: no entries to show")

// Event is a navigation action performed by Actor on Message.
type Event struct {
	Action  Action
	Actor   UserID
	Message MessageID
}

type request struct {
	ev    Event
	reply chan error
}

// Session is one paged message. All actions are applied by a single
// goroutine in arrival order.
type Session struct {
	entries []string
	owner   UserID
	m       Messenger
	idle    time.Duration
	log     *zap.Logger

	mu      sync.Mutex
	st      state
	message MessageID

	events chan request
	done   chan struct{}
}

// Option configures a Session at Start.
type Option func(*Session)

// WithIdleTimeout overrides DefaultIdleTimeout. Non-positive values are ignored.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.idle = d
		}
	}
}

// WithLogger sets the session logger. Sessions log nothing by default.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Start shows entries through m on behalf of owner. A single entry is sent
// as a plain message and the returned session is already finished.
func Start(ctx context.Context, m Messenger, entries []string, owner UserID, opts ...Option) (*Session, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	s := &Session{
		entries: slices.Clone(entries),
		owner:   owner,
		m:       m,
		idle:    DefaultIdleTimeout,
		log:     zap.NewNop(),
		events:  make(chan request),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if len(s.entries) == 1 {
		id, err := m.Send(ctx, s.entries[0])
		if err != nil {
			return nil, fmt.Errorf("send entry: %w", err)
		}
		s.message = id
		close(s.done)
		return s, nil
	}

	id, err := m.Send(ctx, s.render(0))
	if err != nil {
		return nil, fmt.Errorf("send first page: %w", err)
	}
	s.message = id

	if err := m.Attach(ctx, id, Actions); err != nil {
		return nil, fmt.Errorf("attach actions: %w", err)
	}

	s.st = state{index: 0, active: true}
	s.log = s.log.With(zap.String("message", string(id)), zap.String("owner", string(owner)))
	s.log.Debug("pager started", zap.Int("entries", len(s.entries)))

	go s.run(context.WithoutCancel(ctx))
	return s, nil
}

// Handle applies ev to the session. Events from anyone but the owner, for
// another message, or arriving after the session stopped are ignored. The
// only error returned is a failed page render.
func (s *Session) Handle(ctx context.Context, ev Event) error {
	req := request{ev: ev, reply: make(chan error, 1)}
	select {
	case s.events <- req:
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the session on behalf of its owner, for when the context that
// displayed it goes away.
func (s *Session) Close(ctx context.Context) error {
	return s.Handle(ctx, Event{Action: ActionStop, Actor: s.owner, Message: s.message})
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	timer := time.NewTimer(s.idle)
	defer timer.Stop()

	for {
		select {
		case req := <-s.events:
			valid, err := s.apply(ctx, req.ev)
			req.reply <- err
			if !valid {
				continue
			}
			if !s.Active() {
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(s.idle)

		case <-timer.C:
			s.log.Debug("pager idle, stopping", zap.Duration("idle", s.idle))
			s.mu.Lock()
			s.st.active = false
			s.mu.Unlock()
			s.clear(ctx)
			return
		}
	}
}

// apply reports whether ev was a valid action for this session.
func (s *Session) apply(ctx context.Context, ev Event) (bool, error) {
	if ev.Actor != s.owner || ev.Message != s.message {
		return false, nil
	}
	tr, ok := transitions[ev.Action]
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	prev := s.st
	s.mu.Unlock()

	next := tr(prev, len(s.entries)-1)

	if !next.active {
		s.setState(next)
		s.clear(ctx)
		s.log.Debug("pager stopped", zap.Int("page", prev.index+1))
		return true, nil
	}

	if next.index != prev.index {
		if err := s.m.Edit(ctx, s.message, s.render(next.index)); err != nil {
			return true, fmt.Errorf("render page %d: %w", next.index+1, err)
		}
	}
	s.setState(next)
	return true, nil
}

// clear removes the navigation buttons. Failure is only logged: the session
// is finished either way.
func (s *Session) clear(ctx context.Context) {
	if err := s.m.Clear(ctx, s.message); err != nil {
		s.log.Debug("clear actions failed", zap.Error(err))
	}
}

func (s *Session) setState(st state) {
	s.mu.Lock()
	s.st = st
	s.mu.Unlock()
}

func (s *Session) render(i int) string {
	return fmt.Sprintf("[%d/%d]\n%s", i+1, len(s.entries), s.entries[i])
}

// Index is the zero-based page currently shown.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.index
}

// Active reports whether the session still accepts actions.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.active
}

// Len is the number of entries.
func (s *Session) Len() int { return len(s.entries) }

// Message is the chat message showing the session.
func (s *Session) Message() MessageID { return s.message }

// Owner is the only user allowed to act on the session.
func (s *Session) Owner() UserID { return s.owner }

// Done is closed once the session stops accepting actions.
func (s *Session) Done() <-chan struct{} { return s.done }
