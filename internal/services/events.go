package services

import "log"

// Event types published by the services.
const (
	EventUserRegistered  = "user.registered"
	EventContactReceived = "contact.received"
	EventCartReplaced    = "cart.replaced"
)

// EventPublisher delivers domain events to a broker.
type EventPublisher interface {
	PublishEvent(eventType string, payload map[string]interface{}) error
}

// publish is fire-and-forget: a broker failure never fails the request.
func publish(p EventPublisher, eventType string, payload map[string]interface{}) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(eventType, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
