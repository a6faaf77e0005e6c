// Package realtime fans detector and strategy events out to in-process
// subscribers over channels.
package realtime

import (
	"log"
	"sync"
)

// Event is one broadcast message
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Event types emitted by the analyzer pipeline
const (
	EventSignal        = "signal"
	EventStrategyMatch = "strategy_match"
	EventChainUpdate   = "chain_update"
)

// Broker distributes events to subscriber channels. Slow subscribers are
// skipped, never waited on.
type Broker struct {
	clients    map[chan Event]bool
	register   chan chan Event
	unregister chan chan Event
	broadcast  chan Event
	done       chan bool
	mu         sync.RWMutex
}

// NewBroker creates a new event broker
func NewBroker() *Broker {
	return &Broker{
		clients:    make(map[chan Event]bool),
		register:   make(chan chan Event),
		unregister: make(chan chan Event),
		broadcast:  make(chan Event, 1000),
		done:       make(chan bool),
	}
}

// Run starts the broker loop
func (b *Broker) Run() {
	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			b.mu.Unlock()
			log.Printf("Subscriber connected. Total: %d", len(b.clients))

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client)
				log.Printf("Subscriber disconnected. Total: %d", len(b.clients))
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for client := range b.clients {
				select {
				case client <- event:
				default:
					// Skip if subscriber buffer is full to prevent blocking
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for client := range b.clients {
				delete(b.clients, client)
				close(client)
			}
			b.mu.Unlock()
			return
		}
	}
}

// Stop shuts the loop down and closes every subscriber channel
func (b *Broker) Stop() {
	b.done <- true
}

// Subscribe registers a new subscriber and returns its event channel
func (b *Broker) Subscribe() chan Event {
	client := make(chan Event, 64)
	b.register <- client
	return client
}

// Unsubscribe removes a subscriber; its channel is closed by the loop
func (b *Broker) Unsubscribe(client chan Event) {
	b.unregister <- client
}

// Broadcast queues an event for delivery to all subscribers
func (b *Broker) Broadcast(eventType string, payload interface{}) {
	select {
	case b.broadcast <- Event{Type: eventType, Payload: payload}:
	default:
		// Drop if broadcast buffer full
	}
}
