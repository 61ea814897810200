package paginator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry tracks live sessions by message so inbound button presses can be
// routed to the session that owns the message.
type Registry struct {
	log *zap.Logger

	mu       sync.Mutex
	idle     time.Duration
	sessions map[MessageID]*Session
}

func NewRegistry(log *zap.Logger, idle time.Duration) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Registry{
		log:      log,
		idle:     idle,
		sessions: make(map[MessageID]*Session),
	}
}

// SetIdleTimeout changes the idle timeout for sessions started afterwards.
func (r *Registry) SetIdleTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	r.idle = d
	r.mu.Unlock()
}

func (r *Registry) Start(ctx context.Context, m Messenger, entries []string, owner UserID, opts ...Option) (*Session, error) {
	r.mu.Lock()
	idle := r.idle
	r.mu.Unlock()

	base := []Option{WithIdleTimeout(idle), WithLogger(r.log)}
	s, err := Start(ctx, m, entries, owner, append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	select {
	case <-s.Done():
		return s, nil
	default:
	}

	id := s.Message()
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	go func() {
		<-s.Done()
		r.mu.Lock()
		if r.sessions[id] == s {
			delete(r.sessions, id)
		}
		r.mu.Unlock()
	}()

	return s, nil
}

// Dispatch hands ev to the session owning ev.Message. Events for unknown
// or finished sessions are dropped.
func (r *Registry) Dispatch(ctx context.Context, ev Event) error {
	r.mu.Lock()
	s := r.sessions[ev.Message]
	r.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Handle(ctx, ev)
}

// CloseAll stops every live session.
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	live := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		live = append(live, s)
	}
	r.mu.Unlock()

	for _, s := range live {
		if err := s.Close(ctx); err != nil {
			r.log.Debug("close session failed", zap.String("message", string(s.Message())), zap.Error(err))
		}
	}
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
