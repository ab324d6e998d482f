// Package events re-exports the platform event bus and defines the domain
// events the leads pipeline publishes.
package events

import (
	platformevents "container_leads_backend/platform/events"
	"container_leads_backend/platform/logger"
)

// InMemoryBus is a type alias to the platform InMemoryBus
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
