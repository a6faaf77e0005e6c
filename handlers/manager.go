package handlers

import (
	"fmt"
	"sync"

	"chainpulse/feed"
)

// HandlerManager routes feed frames to registered handlers
type HandlerManager struct {
	handlers map[string]MessageHandler
	mu       sync.RWMutex
}

// NewHandlerManager creates a new HandlerManager instance
func NewHandlerManager() *HandlerManager {
	return &HandlerManager{
		handlers: make(map[string]MessageHandler),
	}
}

// RegisterHandler registers a handler under a name
func (hm *HandlerManager) RegisterHandler(name string, handler MessageHandler) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	hm.handlers[name] = handler
	fmt.Printf("📦 Registered handler: %s (type: %s)\n", name, handler.GetMessageType())
}

// UnregisterHandler removes a handler by name
func (hm *HandlerManager) UnregisterHandler(name string) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	delete(hm.handlers, name)
}

// GetHandler looks a handler up by name
func (hm *HandlerManager) GetHandler(name string) (MessageHandler, bool) {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	handler, exists := hm.handlers[name]
	return handler, exists
}

// HandleMessage routes a frame to the named handler
func (hm *HandlerManager) HandleMessage(handlerName string, msg *feed.Message) error {
	handler, exists := hm.GetHandler(handlerName)
	if !exists {
		return fmt.Errorf("handler '%s' not found", handlerName)
	}

	return handler.Handle(msg)
}

// ListHandlers returns the names of registered handlers
func (hm *HandlerManager) ListHandlers() []string {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	names := make([]string, 0, len(hm.handlers))
	for name := range hm.handlers {
		names = append(names, name)
	}
	return names
}
