package handlers

import "chainpulse/feed"

// MessageHandler is the base interface for all feed message handlers
type MessageHandler interface {
	// Handle processes one decoded feed frame
	Handle(msg *feed.Message) error

	// GetMessageType returns the message type this handler consumes
	GetMessageType() string
}
