package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EnquiryCreatedPayload never carries buyer contact details: the seller only
// learns them by unlocking.
type EnquiryCreatedPayload struct {
	EnquiryID string    `json:"enquiry_id"`
	ListingID string    `json:"listing_id"`
	SellerID  string    `json:"seller_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type EnquiryUnlockedPayload struct {
	EnquiryID  string    `json:"enquiry_id"`
	SellerID   string    `json:"seller_id"`
	Funding    string    `json:"funding"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

type LeadEventPublisher interface {
	PublishEnquiryCreated(ctx context.Context, payload EnquiryCreatedPayload) error
	PublishEnquiryUnlocked(ctx context.Context, payload EnquiryUnlockedPayload) error
}

// Channel is the subset of *amqp.Channel the producer needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Channel
}

func NewProducer(ch Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishEnquiryCreated(ctx context.Context, payload EnquiryCreatedPayload) error {
	return p.publish(ctx, RoutingKeyEnquiryCreated, payload.EnquiryID, payload)
}

func (p *RabbitMQProducer) PublishEnquiryUnlocked(ctx context.Context, payload EnquiryUnlockedPayload) error {
	return p.publish(ctx, RoutingKeyEnquiryUnlocked, payload.EnquiryID, payload)
}

func (p *RabbitMQProducer) publish(ctx context.Context, key, messageID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		key,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    messageID,
			Timestamp:    time.Now(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
