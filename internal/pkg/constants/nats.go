package constants

// NATS Subjects
const (
	// Order management
	SubjectOrderDelivered = "order.delivered"
	SubjectOrderCancelled = "order.cancelled"

	// Tracking
	SubjectPositionRelayed = "tracking.position.relayed"
)

// QueueGroupTracking load-balances order lifecycle events across subscribers
const QueueGroupTracking = "tracking-relay"
