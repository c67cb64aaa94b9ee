package event

import "testing"

func TestBroadcasterCoalescesSignals(t *testing.T) {
	t.Parallel()

	var b Broadcaster
	ch, stop := b.Subscribe()
	defer stop()

	b.Publish()
	b.Publish()
	b.Publish()

	select {
	case <-ch:
	default:
		t.Fatalf("expected a pending signal")
	}
	select {
	case <-ch:
		t.Fatalf("expected signals to coalesce into one")
	default:
	}
}

func TestBroadcasterUnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()

	var b Broadcaster
	ch, stop := b.Subscribe()
	stop()
	stop()

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after unsubscribe")
	}
	if n := len(b.subs); n != 0 {
		t.Fatalf("expected no subscribers, got %d", n)
	}
	b.Publish()
}
