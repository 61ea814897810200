package paginator

import "strings"

// Action is one of the five navigation buttons attached to a paged message.
type Action int

const (
	ActionFirst Action = iota + 1
	ActionPrevious
	ActionNext
	ActionLast
	ActionStop
)

// Actions lists every action in the order it is attached to a message.
var Actions = []Action{ActionFirst, ActionPrevious, ActionNext, ActionLast, ActionStop}

var actionNames = map[Action]string{
	ActionFirst:    "first",
	ActionPrevious: "previous",
	ActionNext:     "next",
	ActionLast:     "last",
	ActionStop:     "stop",
}

var actionSymbols = map[Action]string{
	ActionFirst:    "⏮",
	ActionPrevious: "◀",
	ActionNext:     "▶",
	ActionLast:     "⏭",
	ActionStop:     "⏹",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// Symbol is the button label shown to the user.
func (a Action) Symbol() string {
	return actionSymbols[a]
}

// ParseAction maps a name produced by String back to its Action.
func ParseAction(s string) (Action, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == s {
			return a, true
		}
	}
	return 0, false
}

// state is the navigable part of a session.
type state struct {
	index  int
	active bool
}

type transition func(cur state, last int) state

// transitions is the closed action table. Out-of-range moves return the
// state unchanged.
var transitions = map[Action]transition{
	ActionFirst: func(cur state, _ int) state {
		cur.index = 0
		return cur
	},
	ActionPrevious: func(cur state, _ int) state {
		if cur.index > 0 {
			cur.index--
		}
		return cur
	},
	ActionNext: func(cur state, last int) state {
		if cur.index < last {
			cur.index++
		}
		return cur
	},
	ActionLast: func(cur state, last int) state {
		cur.index = last
		return cur
	},
	ActionStop: func(cur state, _ int) state {
		cur.active = false
		return cur
	},
}
