package feed

import (
	"context"
	"fmt"
	"log"
	"time"
)

// ConnectionManager handles feed connection lifecycle, health monitoring, and
// reconnection.
type ConnectionManager struct {
	client      *Client
	url         string
	apiKey      string
	underlyings []string
	lastMsgTime time.Time
}

// NewConnectionManager creates a new ConnectionManager
func NewConnectionManager(url, apiKey string, underlyings []string) *ConnectionManager {
	return &ConnectionManager{
		url:         url,
		apiKey:      apiKey,
		underlyings: underlyings,
		lastMsgTime: time.Now(),
	}
}

// Connect establishes the initial feed connection and subscribes
func (cm *ConnectionManager) Connect() error {
	fmt.Println("🔌 Connecting to chain data feed...")
	cm.client = NewClient(cm.url, cm.apiKey)

	if err := cm.client.Connect(); err != nil {
		return fmt.Errorf("chain feed connection failed: %w", err)
	}
	fmt.Println("✅ Chain feed connected!")

	if err := cm.client.Subscribe(cm.underlyings); err != nil {
		return err
	}

	cm.client.StartPing(25 * time.Second)
	return nil
}

// ReadMessage reads a frame from the feed
func (cm *ConnectionManager) ReadMessage() (*Message, error) {
	if cm.client == nil {
		return nil, fmt.Errorf("client not connected")
	}
	msg, err := cm.client.ReadMessage()
	if err == nil {
		cm.lastMsgTime = time.Now()
	}
	return msg, err
}

// Close closes the connection
func (cm *ConnectionManager) Close() error {
	if cm.client != nil {
		return cm.client.Close()
	}
	return nil
}

// Reconnect attempts to reconnect the feed
func (cm *ConnectionManager) Reconnect() error {
	_ = cm.Close()

	cm.client = NewClient(cm.url, cm.apiKey)
	if err := cm.client.Connect(); err != nil {
		return fmt.Errorf("chain feed connection failed: %w", err)
	}
	if err := cm.client.Subscribe(cm.underlyings); err != nil {
		return err
	}

	cm.client.StartPing(25 * time.Second)
	log.Println("✅ Reconnection successful")
	return nil
}

// RunHealthMonitor starts a background loop to check connection health
func (cm *ConnectionManager) RunHealthMonitor(ctx context.Context) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	log.Println("💓 Feed health monitoring started")

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Feed health monitoring stopped")
			return
		case <-ticker.C:
			timeSinceLastMessage := time.Since(cm.lastMsgTime)

			// The vendor heartbeats every few seconds during market hours.
			if timeSinceLastMessage > 5*time.Minute {
				log.Printf("⚠️  No feed message received for %v, reconnecting...", timeSinceLastMessage.Round(time.Second))

				if err := cm.Reconnect(); err != nil {
					log.Printf("❌ Feed reconnection failed: %v", err)
				} else {
					cm.lastMsgTime = time.Now()
				}
			} else {
				log.Printf("💓 Feed healthy, last message %v ago", timeSinceLastMessage.Round(time.Second))
			}
		}
	}
}
