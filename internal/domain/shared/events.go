// Package shared contains domain building blocks used across aggregates.
package shared

import "time"

// DomainEvent is implemented by every event raised by an aggregate.
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}
