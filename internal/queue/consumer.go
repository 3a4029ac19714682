package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartAuditConsumer connects to RabbitMQ, declares the reservation
// queues (durable) and starts consuming them.  Each message is
// appended to logs/reservations.log in a single-line, human-friendly
// format, giving an audit trail that mirrors the ledger.  The function
// runs a reconnect loop with backoff and keeps the server operating
// even when the broker is down; offending messages are rejected
// without requeue so a poison message cannot loop.
func StartAuditConsumer() error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("reservation-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("reservation-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("reservation-consumer: set QoS failed: %v", err)
	}

	type tagged struct {
		action string
		d      amqp.Delivery
	}
	merged := make(chan tagged)

	for queueName, action := range map[string]string{
		ReservedQueue: "reserved",
		CanceledQueue: "canceled",
	} {
		if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", queueName, err)
		}
		msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", queueName, err)
		}
		go func(action string, msgs <-chan amqp.Delivery) {
			for d := range msgs {
				merged <- tagged{action: action, d: d}
			}
		}(action, msgs)
	}

	closed := make(chan *amqp.Error, 1)
	conn.NotifyClose(closed)
	for {
		select {
		case m := <-merged:
			if err := handleMessage(m.action, m.d.Body); err != nil {
				log.Printf("reservation-consumer: handle message failed: %v", err)
				_ = m.d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = m.d.Ack(false)
		case <-closed:
			return errors.New("connection closed")
		}
	}
}

func handleMessage(action string, body []byte) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "reservations.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Seat %s | reservation_id=%d | user_id=%d | event_id=%d | event=%q | seat=%s-%d | price=%d\n",
		ev.OccurredAt, action, ev.ReservationID, ev.UserID, ev.EventID, ev.EventTitle, ev.Rank, ev.Num, ev.Price)

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
