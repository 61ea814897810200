package paginator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitions(t *testing.T) {
	const last = 4
	tests := []struct {
		name   string
		action Action
		from   state
		want   state
	}{
		{"first from middle", ActionFirst, state{2, true}, state{0, true}},
		{"previous from middle", ActionPrevious, state{2, true}, state{1, true}},
		{"previous at start", ActionPrevious, state{0, true}, state{0, true}},
		{"next from middle", ActionNext, state{2, true}, state{3, true}},
		{"next at end", ActionNext, state{last, true}, state{last, true}},
		{"last from start", ActionLast, state{0, true}, state{last, true}},
		{"stop keeps index", ActionStop, state{3, true}, state{3, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transitions[tt.action](tt.from, last))
		})
	}
}

func TestEveryActionHasTransition(t *testing.T) {
	for _, a := range Actions {
		assert.Contains(t, transitions, a, a.String())
		assert.NotEmpty(t, a.Symbol())
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range Actions {
		got, ok := ParseAction(a.String())
		assert.True(t, ok)
		assert.Equal(t, a, got)
	}

	got, ok := ParseAction(" NEXT ")
	assert.True(t, ok)
	assert.Equal(t, ActionNext, got)

	_, ok = ParseAction("rewind")
	assert.False(t, ok)
}
