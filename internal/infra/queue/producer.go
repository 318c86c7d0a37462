package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/crm-board/internal/entity"
)

type EventType string

const (
	EventClienteCreated EventType = "cliente.created"
	EventHandoff        EventType = "cliente.handoff"
	EventStatusChanged  EventType = "cliente.status_changed"
)

type ClienteEvent struct {
	Type       EventType        `json:"type"`
	ClienteID  string           `json:"cliente_id"`
	WhatsAppID string           `json:"whatsapp_id"`
	Nome       string           `json:"nome,omitempty"`
	StatusCRM  entity.CrmStatus `json:"status_crm"`
	Stage      string           `json:"stage"`
	Trava      bool             `json:"trava"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewClienteEvent tira um snapshot do cliente no momento do evento.
func NewClienteEvent(t EventType, c *entity.Cliente) ClienteEvent {
	ev := ClienteEvent{
		Type:       t,
		ClienteID:  c.ID,
		WhatsAppID: c.WhatsAppID,
		StatusCRM:  c.StatusCRM,
		Stage:      c.Stage,
		Trava:      c.Trava,
		OccurredAt: time.Now().UTC(),
	}
	if c.Nome != nil {
		ev.Nome = *c.Nome
	}
	return ev
}

type EventPublisher interface {
	Publish(ctx context.Context, event ClienteEvent) error
}

type RabbitMQProducer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) Publish(ctx context.Context, event ClienteEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("erro ao converter evento: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(event.Type),
			Timestamp:    event.OccurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}

	return nil
}
