package broker_test

import (
	"testing"
	"time"

	"ssh-agent-notify/broker"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := broker.New[int](4)
	ch, unsub := b.Subscribe()
	defer unsub()

	b.Publish(42)

	select {
	case got := <-ch:
		if got != 42 {
			t.Fatalf("got %d, want 42", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for publish")
	}
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	b := broker.New[string](4)
	ch1, unsub1 := b.Subscribe()
	defer unsub1()
	ch2, unsub2 := b.Subscribe()
	defer unsub2()

	b.Publish("hello")

	for _, ch := range []<-chan string{ch1, ch2} {
		select {
		case got := <-ch:
			if got != "hello" {
				t.Fatalf("got %q", got)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out")
		}
	}
}

func TestPublishDropsWhenSubscriberBufferFull(t *testing.T) {
	b := broker.New[int](1)
	ch, unsub := b.Subscribe()
	defer unsub()

	b.Publish(1)
	b.Publish(2) // dropped: buffer already holds one value

	if got := <-ch; got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	select {
	case v := <-ch:
		t.Fatalf("unexpected second value %d", v)
	default:
	}
}

func TestUnsubClosesChannel(t *testing.T) {
	b := broker.New[int](1)
	ch, unsub := b.Subscribe()
	if got := b.Subscribers(); got != 1 {
		t.Fatalf("Subscribers = %d, want 1", got)
	}
	unsub()
	if got := b.Subscribers(); got != 0 {
		t.Fatalf("Subscribers = %d, want 0", got)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("channel not closed after unsub")
	}
}
