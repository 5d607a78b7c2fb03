package rules

import (
	"time"
)

// EventType indicates the category of an engine event.
type EventType string

const (
	// Match lifecycle events
	EventInit     EventType = "INIT"
	EventSetup    EventType = "SETUP_PLACED"
	EventMulligan EventType = "MULLIGAN"
	EventTurn     EventType = "TURN"
	EventGameOver EventType = "GAME_OVER"

	// Zone events
	EventDraw    EventType = "DRAW"
	EventDeckOut EventType = "DECK_OUT"
	EventBench   EventType = "BENCH"
	EventActive  EventType = "ACTIVE"
	EventMove    EventType = "MOVE"
	EventPromote EventType = "PROMOTE"

	// Main-phase action events
	EventAttachEnergy EventType = "ATTACH_ENERGY"
	EventRetreat      EventType = "RETREAT"
	EventEvolve       EventType = "EVOLVE"

	// Combat events
	EventAttack EventType = "ATTACK"
	EventDamage EventType = "DAMAGE"
	EventKO     EventType = "KO"
	EventPrize  EventType = "PRIZE"

	// Special condition events
	EventCondition EventType = "CONDITION"

	// Rejection events, emitted with a reason code so callers can explain
	// why an operation was refused without the engine raising an error.
	EventAttackBlocked EventType = "ATTACK_BLOCKED"
	EventEvolveBlocked EventType = "EVOLVE_BLOCKED"
)

// Rejection reason codes carried by *_BLOCKED events.
const (
	ReasonFirstTurn = "firstTurn"
	ReasonSameTurn  = "sameTurn"
	ReasonNotMatch  = "notMatch"
	ReasonNoEnergy  = "noEnergy"
	ReasonNoActive  = "noActive"
)

// Event represents a single state change announced by the engine.
// Payload shapes are owned by the emitting package.
type Event struct {
	Type      EventType
	Payload   any
	Timestamp time.Time
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

type registration struct {
	handle    int
	eventType EventType // empty = all events
	callback  Listener
}

// EventBus provides a synchronous publish/subscribe channel.
//
// Listeners are invoked in registration order, and a listener that panics
// does not interrupt delivery to the listeners after it. The engine core is
// single-threaded, so the bus needs no locking; it must only ever be touched
// from the goroutine driving the match.
type EventBus struct {
	registrations []registration
	nextHandle    int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for all events and returns a handle
// usable with Unsubscribe.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	handle := bus.nextHandle
	bus.nextHandle++
	bus.registrations = append(bus.registrations, registration{handle: handle, callback: listener})
	return handle
}

// SubscribeTyped registers a listener invoked only for one event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) int {
	if listener == nil {
		return -1
	}
	handle := bus.nextHandle
	bus.nextHandle++
	bus.registrations = append(bus.registrations, registration{handle: handle, eventType: eventType, callback: listener})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	for i, reg := range bus.registrations {
		if reg.handle == handle {
			bus.registrations = append(bus.registrations[:i], bus.registrations[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to all registered listeners synchronously,
// in registration order.
func (bus *EventBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for _, reg := range bus.registrations {
		if reg.eventType != "" && reg.eventType != event.Type {
			continue
		}
		deliver(reg.callback, event)
	}
}

// Emit is shorthand for publishing a typed payload.
func (bus *EventBus) Emit(eventType EventType, payload any) {
	bus.Publish(Event{Type: eventType, Payload: payload})
}

func deliver(listener Listener, event Event) {
	defer func() {
		// A faulty subscriber must not break the emission chain.
		_ = recover()
	}()
	listener(event)
}
