package telegram

import "testing"

func TestPendingNamesConsumeOnce(t *testing.T) {
	p := newPendingNames()
	p.begin(42)
	if !p.consume(42) {
		t.Fatal("expected the pending prompt to be consumed")
	}
	if p.consume(42) {
		t.Fatal("pending prompt consumed twice")
	}
}

func TestPendingNamesUnknownUser(t *testing.T) {
	p := newPendingNames()
	if p.consume(1) {
		t.Fatal("no prompt was registered for this user")
	}
}

func TestPendingNamesCancel(t *testing.T) {
	p := newPendingNames()
	p.begin(7)
	if !p.cancel(7) {
		t.Fatal("cancel should report an active prompt")
	}
	if p.consume(7) {
		t.Fatal("prompt survived cancellation")
	}
}
