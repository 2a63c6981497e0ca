package interfaces

// EventPublisher pushes audit notifications to an external stream.
// Publishing is best effort: the audit store is authoritative and a
// failed publish must never roll back the operation that produced it.
type EventPublisher interface {
	Publish(topic string, event any) error
}
