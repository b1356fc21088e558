package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrMalformedMessage = errors.New("mensagem malformada")

// EnquiryNotifier tells a seller about a new enquiry.
type EnquiryNotifier interface {
	NotifyNewEnquiry(ctx context.Context, payload EnquiryCreatedPayload) error
}

type Consumer interface {
	ConsumeWithContext(ctx context.Context, queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Notifier EnquiryNotifier
}

func NewWorker(ch Consumer, notifier EnquiryNotifier) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
	}
}

// Start consumes until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 [WORKER] Encerrando consumidor")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("canal de entregas fechado")
			}
			if err := w.process(ctx, d.RoutingKey, d.Body); err != nil {
				log.Printf("❌ [WORKER] %s (%s): %v", d.RoutingKey, d.MessageId, err)
				// sem requeue: vai para a DLQ
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

func (w *Worker) process(ctx context.Context, routingKey string, body []byte) error {
	switch routingKey {
	case RoutingKeyEnquiryCreated:
		var payload EnquiryCreatedPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		if payload.EnquiryID == "" || payload.SellerID == "" {
			return fmt.Errorf("%w: enquiry_id e seller_id são obrigatórios", ErrMalformedMessage)
		}
		log.Printf("📥 [WORKER] Nova enquiry %s para o vendedor %s", payload.EnquiryID, payload.SellerID)
		return w.Notifier.NotifyNewEnquiry(ctx, payload)

	case RoutingKeyEnquiryUnlocked:
		var payload EnquiryUnlockedPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		log.Printf("🔓 [WORKER] Enquiry %s desbloqueada por %s (%s)", payload.EnquiryID, payload.SellerID, payload.Funding)
		return nil

	default:
		log.Printf("⚠️ Routing key desconhecida: %s. Apenas logando.", routingKey)
		return nil
	}
}
