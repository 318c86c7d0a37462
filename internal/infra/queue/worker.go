package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// HandoffNotifier avisa os operadores que um cliente pediu atendimento humano.
type HandoffNotifier interface {
	NotifyHandoff(ctx context.Context, event ClienteEvent) error
}

type Worker struct {
	Channel  *amqp.Channel
	Notifier HandoffNotifier
	logger   *zap.Logger
}

func NewWorker(ch *amqp.Channel, notifier HandoffNotifier, logger *zap.Logger) *Worker {
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		logger:   logger,
	}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx,
		queueName,
		"",    // consumer
		false, // auto-ack (manual)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.logger.Info("worker aguardando eventos", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal de consumo fechado")
			}
			w.handleDelivery(ctx, d)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var event ClienteEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.logger.Warn("evento malformado, enviando para DLQ", zap.Error(err))
		d.Nack(false, false)
		return
	}

	log := w.logger.With(
		zap.String("event", string(event.Type)),
		zap.String("cliente_id", event.ClienteID),
	)

	if err := w.processEvent(ctx, event); err != nil {
		log.Error("falha ao processar evento", zap.Error(err))
		d.Nack(false, false)
		return
	}

	log.Debug("evento processado")
	d.Ack(false)
}

func (w *Worker) processEvent(ctx context.Context, event ClienteEvent) error {
	switch event.Type {
	case EventHandoff:
		// trava=false é o bot retomando; ninguém precisa ser avisado
		if !event.Trava || w.Notifier == nil {
			return nil
		}
		return w.Notifier.NotifyHandoff(ctx, event)

	case EventClienteCreated, EventStatusChanged:
		return nil

	default:
		// ACK para tirar da fila, não sabemos tratar
		w.logger.Warn("tipo de evento desconhecido", zap.String("event", string(event.Type)))
		return nil
	}
}
