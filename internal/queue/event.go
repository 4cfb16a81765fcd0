// Package queue defines booking event payloads exchanged over the message
// broker and the best-effort publisher and audit consumer for them.
package queue

// Event names carried in BookingEvent.Event.
const (
	EventBookingCreated = "booking.created"
	EventBookingDeleted = "booking.deleted"
)

// bookingQueueName is the durable queue both publisher and consumer use.
const bookingQueueName = "booking.events"

// BookingEvent is published when a booking is created or deleted. It
// carries enough context for downstream consumers to log or notify without
// querying the primary database.
type BookingEvent struct {
	Event      string `json:"event"`
	BookingID  int64  `json:"booking_id"`
	UserID     int64  `json:"user_id"`
	UserEmail  string `json:"user_email"`
	ParkingID  int64  `json:"parking_id"`
	Address    string `json:"address"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	OccurredAt string `json:"occurred_at"`
}
