package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/crm-board/internal/entity"
	"github.com/xavierca1/crm-board/internal/infra/queue"
	"go.uber.org/zap"
)

type CreateClienteUseCase struct {
	Repo      ClienteRepositoryInterface
	Publisher EventPublisher
	logger    *zap.Logger
}

func NewCreateClienteUseCase(repo ClienteRepositoryInterface, publisher EventPublisher, logger *zap.Logger) *CreateClienteUseCase {
	return &CreateClienteUseCase{
		Repo:      repo,
		Publisher: publisher,
		logger:    logger,
	}
}

func (uc *CreateClienteUseCase) Execute(ctx context.Context, input CreateClienteInput) (*entity.Cliente, error) {
	if errs := ValidateCreateClienteInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	cliente, err := entity.NewCliente(input.WhatsAppID, input.Nome)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: "validation failed: " + err.Error(), Err: err}
	}
	if input.Stage != "" {
		cliente.Stage = strings.TrimSpace(input.Stage)
	}
	cliente.Metadata = input.Metadata

	txn := NewTransaction(uc.logger)

	txn.AddStep("create_cliente",
		func(ctx context.Context) error { return uc.Repo.Create(ctx, cliente) },
		func(ctx context.Context) error { return uc.Repo.Delete(ctx, cliente.ID) },
	)

	if uc.Publisher != nil {
		txn.AddStep("publish_created",
			func(ctx context.Context) error {
				return uc.Publisher.Publish(ctx, queue.NewClienteEvent(queue.EventClienteCreated, cliente))
			},
			nil,
		)
	}

	if err := txn.Execute(ctx); err != nil {
		var stepErr *StepError
		switch {
		case errors.Is(err, entity.ErrWhatsAppIDAlreadyExists):
			return nil, repoError(entity.ErrWhatsAppIDAlreadyExists)
		case errors.As(err, &stepErr) && stepErr.Step == "publish_created":
			return nil, &TechnicalError{Code: CodeQueue, Message: "failed to publish cliente event: " + err.Error(), Err: err}
		default:
			return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to persist cliente: " + err.Error(), Err: err}
		}
	}

	uc.logger.Info("cliente criado",
		zap.String("cliente_id", cliente.ID),
		zap.String("whatsapp_id", cliente.WhatsAppID),
	)

	return cliente, nil
}
