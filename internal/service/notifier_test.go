package service

import (
	"testing"
	"time"

	"mt_console/internal/domain"
)

func TestNotifier_PushAssignsUniqueIDs(t *testing.T) {
	n := NewNotifier(time.Minute)
	defer n.Close()

	// Same-tick pushes must still get distinct, increasing ids.
	a := n.Push("first", domain.SeveritySuccess)
	b := n.Push("second", domain.SeverityError)
	c := n.Push("third", domain.SeveritySuccess)

	if a >= b || b >= c {
		t.Errorf("ids not strictly increasing: %d %d %d", a, b, c)
	}
}

func TestNotifier_InsertionOrder(t *testing.T) {
	n := NewNotifier(time.Minute)
	defer n.Close()

	n.Push("first", domain.SeveritySuccess)
	n.Push("second", domain.SeverityError)

	active := n.Active()
	if len(active) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(active))
	}
	if active[0].Message != "first" || active[1].Message != "second" {
		t.Errorf("unexpected order: %q, %q", active[0].Message, active[1].Message)
	}
	if active[1].Severity != domain.SeverityError {
		t.Errorf("expected error severity, got %s", active[1].Severity)
	}
}

func TestNotifier_AutoExpiry(t *testing.T) {
	n := NewNotifier(50 * time.Millisecond)
	defer n.Close()

	n.Push("transient", domain.SeveritySuccess)
	if len(n.Active()) != 1 {
		t.Fatal("notification should be visible inside the window")
	}

	deadline := time.Now().Add(time.Second)
	for len(n.Active()) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("notification did not expire")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNotifier_Dismiss(t *testing.T) {
	n := NewNotifier(time.Minute)
	defer n.Close()

	id := n.Push("dismiss me", domain.SeverityError)
	n.Push("keep me", domain.SeveritySuccess)

	n.Dismiss(id)
	// Double dismiss is a no-op.
	n.Dismiss(id)

	active := n.Active()
	if len(active) != 1 || active[0].Message != "keep me" {
		t.Errorf("unexpected active set: %+v", active)
	}
}

func TestNotifier_CloseIgnoresLatePushes(t *testing.T) {
	n := NewNotifier(time.Minute)
	n.Push("pending", domain.SeveritySuccess)
	n.Close()

	if id := n.Push("late response", domain.SeverityError); id != 0 {
		t.Errorf("push after close should be ignored, got id %d", id)
	}
	if len(n.Active()) != 0 {
		t.Error("closed notifier should be empty")
	}
}
