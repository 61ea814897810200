package paginator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeMessenger struct {
	mu       sync.Mutex
	next     int
	sent     []string
	edits    []string
	attached map[MessageID][]Action
	cleared  []MessageID
	editErr  error
	clearErr error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{attached: make(map[MessageID][]Action)}
}

func (f *fakeMessenger) Send(_ context.Context, text string) (MessageID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.sent = append(f.sent, text)
	return MessageID(fmt.Sprintf("msg-%d", f.next)), nil
}

func (f *fakeMessenger) Edit(_ context.Context, _ MessageID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, text)
	return nil
}

func (f *fakeMessenger) Attach(_ context.Context, id MessageID, actions []Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached[id] = append([]Action(nil), actions...)
	return nil
}

func (f *fakeMessenger) Clear(_ context.Context, id MessageID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, id)
	delete(f.attached, id)
	return f.clearErr
}

func (f *fakeMessenger) lastEdit() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.edits) == 0 {
		return ""
	}
	return f.edits[len(f.edits)-1]
}

func (f *fakeMessenger) editCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edits)
}

const owner = UserID("42")

func entries(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("entry %d", i)
	}
	return out
}

func startSession(t *testing.T, m *fakeMessenger, n int, opts ...Option) *Session {
	t.Helper()
	s, err := Start(context.Background(), m, entries(n), owner, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Handle(context.Background(), Event{Action: ActionStop, Actor: owner, Message: s.Message()})
		<-s.Done()
	})
	return s
}

func press(t *testing.T, s *Session, a Action) {
	t.Helper()
	require.NoError(t, s.Handle(context.Background(), Event{Action: a, Actor: owner, Message: s.Message()}))
}

func TestStartNoEntries(t *testing.T) {
	_, err := Start(context.Background(), newFakeMessenger(), nil, owner)
	require.ErrorIs(t, err, ErrNoEntries)
}

func TestStartSingleEntry(t *testing.T) {
	m := newFakeMessenger()
	s, err := Start(context.Background(), m, []string{"only"}, owner)
	require.NoError(t, err)

	assert.Equal(t, []string{"only"}, m.sent)
	assert.Empty(t, m.attached)
	assert.False(t, s.Active())

	select {
	case <-s.Done():
	default:
		t.Fatal("single entry session should be done")
	}
}

func TestStartRendersFirstPage(t *testing.T) {
	m := newFakeMessenger()
	s := startSession(t, m, 3)

	assert.True(t, s.Active())
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, []string{"[1/3]\nentry 0"}, m.sent)
	assert.Equal(t, Actions, m.attached[s.Message()])
}

func TestNextAndPreviousBounds(t *testing.T) {
	m := newFakeMessenger()
	s := startSession(t, m, 3)

	press(t, s, ActionPrevious)
	assert.Equal(t, 0, s.Index(), "previous on first page is ignored")
	assert.Equal(t, 0, m.editCount())

	press(t, s, ActionNext)
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, "[2/3]\nentry 1", m.lastEdit())

	press(t, s, ActionNext)
	press(t, s, ActionNext)
	assert.Equal(t, 2, s.Index(), "next on last page is ignored")
	assert.Equal(t, 2, m.editCount())

	press(t, s, ActionPrevious)
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, "[2/3]\nentry 1", m.lastEdit())
}

func TestFirstAndLast(t *testing.T) {
	m := newFakeMessenger()
	s := startSession(t, m, 5)

	press(t, s, ActionLast)
	assert.Equal(t, 4, s.Index())
	assert.Equal(t, "[5/5]\nentry 4", m.lastEdit())

	press(t, s, ActionFirst)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, "[1/5]\nentry 0", m.lastEdit())

	press(t, s, ActionFirst)
	assert.Equal(t, 2, m.editCount(), "unchanged page is not re-rendered")
}

func TestUnauthorizedEventsIgnored(t *testing.T) {
	m := newFakeMessenger()
	s := startSession(t, m, 3)

	require.NoError(t, s.Handle(context.Background(), Event{Action: ActionNext, Actor: "intruder", Message: s.Message()}))
	require.NoError(t, s.Handle(context.Background(), Event{Action: ActionNext, Actor: owner, Message: "other"}))
	require.NoError(t, s.Handle(context.Background(), Event{Action: Action(99), Actor: owner, Message: s.Message()}))

	assert.Equal(t, 0, s.Index())
	assert.True(t, s.Active())
	assert.Equal(t, 0, m.editCount())
}

func TestStopDeactivates(t *testing.T) {
	m := newFakeMessenger()
	s := startSession(t, m, 3)

	press(t, s, ActionNext)
	press(t, s, ActionStop)
	<-s.Done()

	assert.False(t, s.Active())
	assert.Equal(t, []MessageID{s.Message()}, m.cleared)

	press(t, s, ActionNext)
	press(t, s, ActionLast)
	assert.Equal(t, 1, s.Index())
}

func TestStopSwallowsClearFailure(t *testing.T) {
	m := newFakeMessenger()
	m.clearErr = errors.New("forbidden")
	s := startSession(t, m, 2)

	press(t, s, ActionStop)
	<-s.Done()
	assert.False(t, s.Active())
}

func TestEditFailurePropagates(t *testing.T) {
	m := newFakeMessenger()
	s := startSession(t, m, 3)
	m.mu.Lock()
	m.editErr = errors.New("gateway down")
	m.mu.Unlock()

	err := s.Handle(context.Background(), Event{Action: ActionNext, Actor: owner, Message: s.Message()})
	require.Error(t, err)
	assert.Equal(t, 0, s.Index())
	assert.True(t, s.Active())
}

func TestIdleTimeoutStops(t *testing.T) {
	m := newFakeMessenger()
	s, err := Start(context.Background(), m, entries(3), owner, WithIdleTimeout(20*time.Millisecond))
	require.NoError(t, err)
	press(t, s, ActionNext)

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not time out")
	}

	assert.False(t, s.Active())
	assert.Equal(t, 1, s.Index())
	assert.Equal(t, []MessageID{s.Message()}, m.cleared)
}

func TestIdleTimerResetOnlyByOwner(t *testing.T) {
	const idle = 150 * time.Millisecond

	t.Run("Owner Keeps Alive", func(t *testing.T) {
		s := startSession(t, newFakeMessenger(), 3, WithIdleTimeout(idle))
		for i := 0; i < 4; i++ {
			time.Sleep(80 * time.Millisecond)
			press(t, s, ActionFirst)
			require.True(t, s.Active(), "press %d", i+1)
		}
	})

	t.Run("Others Do Not", func(t *testing.T) {
		m := newFakeMessenger()
		s, err := Start(context.Background(), m, entries(3), owner, WithIdleTimeout(idle))
		require.NoError(t, err)

		for i := 0; i < 6; i++ {
			time.Sleep(60 * time.Millisecond)
			require.NoError(t, s.Handle(context.Background(), Event{Action: ActionNext, Actor: "7", Message: s.Message()}))
		}

		select {
		case <-s.Done():
		default:
			t.Fatal("presses from another user kept the session alive")
		}
		assert.False(t, s.Active())
		assert.Equal(t, 0, s.Index())
		assert.Equal(t, []MessageID{s.Message()}, m.cleared)
	})
}

func TestDefaultIdleTimeout(t *testing.T) {
	assert.Equal(t, 120*time.Second, DefaultIdleTimeout)

	s := startSession(t, newFakeMessenger(), 2)
	assert.Equal(t, DefaultIdleTimeout, s.idle)
}

func TestConcurrentActionsAreSerialized(t *testing.T) {
	m := newFakeMessenger()
	s := startSession(t, m, 200)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Handle(context.Background(), Event{Action: ActionNext, Actor: owner, Message: s.Message()})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, s.Index())
	assert.Equal(t, 100, m.editCount())
}
