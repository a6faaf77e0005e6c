package realtime

import (
	"testing"
	"time"
)

func TestBrokerDeliversToSubscribers(t *testing.T) {
	broker := NewBroker()
	go broker.Run()
	defer broker.Stop()

	sub := broker.Subscribe()
	broker.Broadcast(EventSignal, "payload")

	select {
	case event := <-sub:
		if event.Type != EventSignal || event.Payload != "payload" {
			t.Errorf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBrokerStopClosesSubscribers(t *testing.T) {
	broker := NewBroker()
	go broker.Run()

	sub := broker.Subscribe()
	broker.Stop()

	select {
	case _, ok := <-sub:
		if ok {
			t.Error("expected closed channel after Stop")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestBrokerSkipsSlowSubscriber(t *testing.T) {
	broker := NewBroker()
	go broker.Run()
	defer broker.Stop()

	slow := broker.Subscribe()
	// Fill the subscriber buffer; further broadcasts must not block the loop.
	for i := 0; i < 200; i++ {
		broker.Broadcast(EventChainUpdate, i)
	}

	fast := broker.Subscribe()
	broker.Broadcast(EventSignal, "after")
	select {
	case <-fast:
	case <-time.After(time.Second):
		t.Fatal("broker loop blocked by slow subscriber")
	}
	_ = slow
}
