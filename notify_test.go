package main

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func testBroadcaster() *changeBroadcaster {
	return newChangeBroadcaster(zap.NewNop().Sugar())
}

// TestBroadcaster_DeliversToAllSubscribers verifies each subscriber receives
// every broadcast category.
func TestBroadcaster_DeliversToAllSubscribers(t *testing.T) {
	b := testBroadcaster()
	_, ch1 := b.Subscribe()
	_, ch2 := b.Subscribe()

	b.Broadcast("weight")

	for i, ch := range []chan string{ch1, ch2} {
		select {
		case got := <-ch:
			if got != "weight" {
				t.Errorf("subscriber %d got %q, want weight", i, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d got nothing", i)
		}
	}
}

// TestBroadcaster_UnsubscribeClosesChannel verifies teardown closes the
// channel and stops deliveries, and that a double unsubscribe is harmless.
func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := testBroadcaster()
	id, ch := b.Subscribe()

	b.Unsubscribe(id)
	b.Unsubscribe(id)

	if _, open := <-ch; open {
		t.Error("channel still open after Unsubscribe")
	}

	// Broadcasting to a fully unsubscribed broadcaster must not panic.
	b.Broadcast("streak")
}

// TestBroadcaster_DropsSlowSubscriber verifies a subscriber whose buffer is
// full is evicted instead of blocking everyone else.
func TestBroadcaster_DropsSlowSubscriber(t *testing.T) {
	b := testBroadcaster()
	_, slow := b.Subscribe()

	// Fill the subscriber's buffer, then overflow it.
	for i := 0; i < cap(slow)+1; i++ {
		b.Broadcast("food-log")
	}

	// The slow channel was closed on eviction: draining it ends with a
	// closed-channel read rather than a block.
	drained := 0
	for range slow {
		drained++
	}
	if drained != cap(slow) {
		t.Errorf("drained %d buffered messages, want %d", drained, cap(slow))
	}

	// A fresh subscriber still receives new broadcasts.
	_, fresh := b.Subscribe()
	b.Broadcast("profile")
	select {
	case got := <-fresh:
		if got != "profile" {
			t.Errorf("got %q, want profile", got)
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast after eviction not delivered")
	}
}
