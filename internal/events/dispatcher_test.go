package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []string
	d.Subscribe(EventEmployeeRegistered, func(_ context.Context, e Event) error {
		got = append(got, e.EmployeeID)
		return nil
	})
	d.Subscribe(EventEmployeeRegistered, func(_ context.Context, e Event) error {
		got = append(got, e.EmployeeID)
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventEmployeeRegistered, EmployeeID: "employee-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(got))
	}
}

func TestDispatcherIgnoresUnrelatedEvents(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventEmployeeDeleted, func(context.Context, Event) error {
		called = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventEmployeeRestored}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if called {
		t.Fatal("handler for a different event type must not fire")
	}
}

func TestDispatcherFailingHandlerDoesNotBlockOthers(t *testing.T) {
	d := NewInMemoryDispatcher()

	delivered := false
	d.Subscribe(EventLeaveRequested, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventLeaveRequested, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventLeaveRequested}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !delivered {
		t.Fatal("second handler must still run after a failing one")
	}
}
