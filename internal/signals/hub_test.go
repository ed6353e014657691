package signals

import (
	"testing"
	"time"
)

func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("cart.changed", 1)
	defer cancel()

	hub.Publish("cart.changed", 42)

	select {
	case event := <-events:
		if event.Topic != "cart.changed" {
			t.Fatalf("topic want cart.changed got %s", event.Topic)
		}
		if payload, ok := event.Payload.(int); !ok || payload != 42 {
			t.Fatalf("payload want 42 got %v", event.Payload)
		}
	case <-time.After(time.Second):
		t.Fatalf("event not delivered")
	}
}

func TestHubTopicIsolation(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("favorites.changed", 1)
	defer cancel()

	hub.Publish("cart.changed", nil)

	select {
	case <-events:
		t.Fatalf("event delivered to wrong topic")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe("cart.changed", 1)
	if hub.SubscriberCount("cart.changed") != 1 {
		t.Fatalf("subscriber count want 1 got %d", hub.SubscriberCount("cart.changed"))
	}
	cancel()
	if hub.SubscriberCount("cart.changed") != 0 {
		t.Fatalf("subscriber count want 0 got %d", hub.SubscriberCount("cart.changed"))
	}
	// 退订后发布不应阻塞或崩溃
	hub.Publish("cart.changed", nil)
}

func TestHubPublishDoesNotBlockOnFullBuffer(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe("cart.changed", 1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Publish("cart.changed", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on full subscriber buffer")
	}
	<-events
}
