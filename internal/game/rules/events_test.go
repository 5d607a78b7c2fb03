package rules

import (
	"testing"
)

func TestEventBusDeliversInRegistrationOrder(t *testing.T) {
	bus := NewEventBus()
	var order []int

	bus.Subscribe(func(Event) { order = append(order, 1) })
	bus.Subscribe(func(Event) { order = append(order, 2) })
	bus.Subscribe(func(Event) { order = append(order, 3) })

	bus.Emit(EventDraw, nil)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("expected delivery order [1 2 3], got %v", order)
	}
}

func TestEventBusPanicIsolation(t *testing.T) {
	bus := NewEventBus()
	delivered := false

	bus.Subscribe(func(Event) { panic("bad subscriber") })
	bus.Subscribe(func(Event) { delivered = true })

	bus.Emit(EventAttack, nil)

	if !delivered {
		t.Fatal("panic in an earlier listener must not interrupt later listeners")
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	count := 0

	handle := bus.Subscribe(func(Event) { count++ })
	bus.Emit(EventTurn, nil)
	bus.Unsubscribe(handle)
	bus.Emit(EventTurn, nil)

	if count != 1 {
		t.Fatalf("expected exactly one delivery, got %d", count)
	}
}

func TestEventBusTypedSubscription(t *testing.T) {
	bus := NewEventBus()
	var got []EventType

	bus.SubscribeTyped(EventKO, func(e Event) { got = append(got, e.Type) })

	bus.Emit(EventDamage, nil)
	bus.Emit(EventKO, nil)
	bus.Emit(EventPrize, nil)

	if len(got) != 1 || got[0] != EventKO {
		t.Fatalf("typed listener should see only KO events, got %v", got)
	}
}

func TestEventBusNilListener(t *testing.T) {
	bus := NewEventBus()
	if handle := bus.Subscribe(nil); handle != -1 {
		t.Fatalf("nil listener should be refused, got handle %d", handle)
	}
}

func TestEventTimestampPopulated(t *testing.T) {
	bus := NewEventBus()
	var seen Event
	bus.Subscribe(func(e Event) { seen = e })

	bus.Emit(EventDraw, nil)

	if seen.Timestamp.IsZero() {
		t.Fatal("published events must carry a timestamp")
	}
}
