package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Subscribe to every underlying the vendor carries
const allUnderlyingsWildcard = "*"

// Client represents a WebSocket client against the chain data vendor
type Client struct {
	url        string
	conn       *websocket.Conn
	header     http.Header
	writeMu    sync.Mutex
	pingCancel context.CancelFunc
}

// NewClient creates a new WebSocket client. The API key travels as a header
// on the upgrade request; the feed has no further handshake.
func NewClient(url, apiKey string) *Client {
	header := make(http.Header)
	if apiKey != "" {
		header.Set("X-Api-Key", apiKey)
	}

	return &Client{
		url:    url,
		header: header,
	}
}

// Connect establishes WebSocket connection
func (c *Client) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, c.header)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	c.conn = conn
	log.Printf("✅ Connected to %s", c.url)
	return nil
}

// Subscribe sends the subscription frame for the given underlyings. An empty
// list subscribes to everything via the wildcard.
func (c *Client) Subscribe(underlyings []string) error {
	if len(underlyings) == 0 {
		underlyings = []string{allUnderlyingsWildcard}
	}

	req := subscribeRequest{
		Action:      "subscribe",
		Underlyings: underlyings,
	}
	if err := c.WriteJSON(req); err != nil {
		return fmt.Errorf("failed to send subscription: %w", err)
	}

	log.Printf("📡 Subscribed to underlyings: %v", underlyings)
	return nil
}

// StartPing starts periodic pings to keep the connection alive
func (c *Client) StartPing(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	c.pingCancel = cancel

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.writeMu.Lock()
				err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
				c.writeMu.Unlock()
				if err != nil {
					log.Println("Failed to send ping:", err)
					return
				}
			}
		}
	}()
}

// WriteJSON sends a JSON frame thread-safely
func (c *Client) WriteJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("connection is nil")
	}
	return c.conn.WriteJSON(v)
}

// ReadMessage reads and decodes one vendor frame
func (c *Client) ReadMessage() (*Message, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	msg := &Message{}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	if msg.Type == MessageError {
		return nil, fmt.Errorf("vendor error: %s", msg.Error)
	}

	return msg, nil
}

// Close closes the WebSocket connection
func (c *Client) Close() error {
	if c.pingCancel != nil {
		c.pingCancel()
	}

	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
