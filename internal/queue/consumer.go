// Package queue also hosts the background audit consumer that drains the
// event queues and appends one line per event to logs/events.log.
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

// StartAuditConsumer connects to RabbitMQ, declares the event queues
// (durable), and starts consuming. The function runs a reconnect loop with
// exponential backoff and never returns under normal operation; processing
// errors are logged and the offending message is rejected without requeue
// so a bad payload cannot wedge the queue.
func StartAuditConsumer() error {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("audit-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("audit-consumer: consume loop ended: %v; reconnecting", err)
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
		log.Printf("audit-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{TypeMerchantUpdated, TypeUIDGenerated} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	updated, err := ch.Consume(TypeMerchantUpdated, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", TypeMerchantUpdated, err)
	}
	generated, err := ch.Consume(TypeUIDGenerated, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", TypeUIDGenerated, err)
	}

	for {
		var (
			d  amqp.Delivery
			ok bool
			ty string
		)
		select {
		case d, ok = <-updated:
			ty = TypeMerchantUpdated
		case d, ok = <-generated:
			ty = TypeUIDGenerated
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := handleMessage(ty, d.Body); err != nil {
			log.Printf("audit-consumer: handle %s failed: %v", ty, err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
}

func handleMessage(eventType string, body []byte) error {
	var line string
	switch eventType {
	case TypeMerchantUpdated:
		var ev MerchantUpdatedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		line = fmt.Sprintf("[%s] Merchant updated | merchant_id=%s | email=%s | merchant_fee=%.2f | admin_fee=%.2f\n",
			ev.UpdatedAt, ev.MerchantID, ev.Email, ev.MerchantFee, ev.AdminFee)
	case TypeUIDGenerated:
		var ev UIDGeneratedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		line = fmt.Sprintf("[%s] UID generated | seq=%d | code=%s | merchant_id=%s\n",
			ev.CreatedAt, ev.Seq, ev.Code, ev.MerchantID)
	default:
		return fmt.Errorf("unknown event type %q", eventType)
	}

	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "events.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
