package game

import (
	"github.com/ptcgsim/ptcg-server-go/internal/game/rules"
)

// Journal records every event a match emits, in emission order. Because
// events are published synchronously and in the exact order state changes
// occur, the journal is a complete reconstruction of the match's state
// transition history.
type Journal struct {
	events []rules.Event
}

// newJournal subscribes a journal to the bus. It must be the first
// subscriber so it sees events before any external listener.
func newJournal(bus *rules.EventBus) *Journal {
	j := &Journal{}
	bus.Subscribe(func(e rules.Event) {
		j.events = append(j.events, e)
	})
	return j
}

// Events returns a copy of the recorded event stream.
func (j *Journal) Events() []rules.Event {
	out := make([]rules.Event, len(j.events))
	copy(out, j.events)
	return out
}

// Len returns the number of recorded events.
func (j *Journal) Len() int {
	return len(j.events)
}

// OfType returns the recorded events of one type, in order.
func (j *Journal) OfType(t rules.EventType) []rules.Event {
	var out []rules.Event
	for _, e := range j.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
