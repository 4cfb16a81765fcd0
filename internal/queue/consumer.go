package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const auditLogPath = "logs/booking.log"

// StartAuditConsumer consumes the booking event queue and appends one
// human-readable line per event to logs/booking.log. It runs a reconnect
// loop with capped exponential backoff and never returns under normal
// operation; malformed messages are rejected without requeue so the
// consumer cannot wedge on a poison message.
func StartAuditConsumer() {
	url := brokerURL()
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("audit-consumer: dial failed: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consume(conn); err != nil {
			log.Printf("audit-consumer: consume ended: %v; reconnecting", err)
		}
		_ = conn.Close()
		time.Sleep(time.Second)
	}
}

func consume(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(bookingQueueName, true, false, false, false, nil); err != nil {
		return err
	}
	deliveries, err := ch.Consume(bookingQueueName, "booking-audit", false, false, false, false, nil)
	if err != nil {
		return err
	}
	for d := range deliveries {
		var ev BookingEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			log.Printf("audit-consumer: bad payload: %v", err)
			_ = d.Reject(false)
			continue
		}
		if err := appendAuditLine(ev); err != nil {
			log.Printf("audit-consumer: write failed: %v", err)
			_ = d.Reject(true)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

func appendAuditLine(ev BookingEvent) error {
	if err := os.MkdirAll(filepath.Dir(auditLogPath), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(auditLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	line := fmt.Sprintf("%s %s booking=%d user=%d(%s) parking=%d %q %s..%s\n",
		ev.OccurredAt, ev.Event, ev.BookingID, ev.UserID, ev.UserEmail, ev.ParkingID,
		ev.Address, ev.StartTime, ev.EndTime)
	_, err = f.WriteString(line)
	return err
}
