package core

import "testing"

func TestRegistry_ExactMatch(t *testing.T) {
	reg := newRegistry()

	var got []string
	reg.add("a", false, func(e Event) { got = append(got, "a:"+e.Slot) })
	reg.add("b", false, func(e Event) { got = append(got, "b:"+e.Slot) })

	reg.publish(Event{Type: EventUpdate, Slot: "a"})

	if len(got) != 1 || got[0] != "a:a" {
		t.Errorf("expected only the exact subscriber, got %v", got)
	}
}

func TestRegistry_PatternMatch(t *testing.T) {
	reg := newRegistry()

	calls := 0
	reg.add("*_posts", true, func(Event) { calls++ })

	reg.publish(Event{Type: EventUpdate, Slot: "doneflow_v1_u1_posts"})
	reg.publish(Event{Type: EventUpdate, Slot: "doneflow_v1_u1_clients"})

	if calls != 1 {
		t.Errorf("expected 1 pattern match, got %d", calls)
	}
}

func TestRegistry_DeliveryOrder(t *testing.T) {
	reg := newRegistry()

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		reg.add("s", false, func(Event) { got = append(got, i) })
	}

	reg.publish(Event{Type: EventUpdate, Slot: "s"})

	for i, v := range got {
		if v != i {
			t.Fatalf("expected registration order, got %v", got)
		}
	}
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	reg := newRegistry()

	remove := reg.add("s", false, func(Event) {})
	reg.add("s", false, func(Event) {})

	remove()
	remove()

	if reg.count() != 1 {
		t.Errorf("expected 1 remaining subscriber, got %d", reg.count())
	}
}

func TestRegistry_CallbackMayUnsubscribe(t *testing.T) {
	reg := newRegistry()

	calls := 0
	var remove func()
	remove = reg.add("s", false, func(Event) {
		calls++
		remove()
	})

	reg.publish(Event{Type: EventUpdate, Slot: "s"})
	reg.publish(Event{Type: EventUpdate, Slot: "s"})

	if calls != 1 {
		t.Errorf("expected self-unsubscribing callback to run once, got %d", calls)
	}
}
