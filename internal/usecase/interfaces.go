package usecase

import (
	"errors"

	"github.com/xavierca1/crm-board/internal/entity"
	"github.com/xavierca1/crm-board/internal/infra/queue"
)

type ClienteRepositoryInterface = entity.ClienteRepositoryInterface

// EventPublisher pode ser nil quando o RabbitMQ não está configurado.
type EventPublisher = queue.EventPublisher

// repoError traduz erros do repositório para DomainError/TechnicalError.
func repoError(err error) error {
	switch {
	case errors.Is(err, entity.ErrClienteNotFound):
		return &DomainError{Code: CodeNotFound, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrWhatsAppIDAlreadyExists):
		return &DomainError{Code: CodeWhatsAppIDTaken, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrInvalidStatus):
		return &DomainError{Code: CodeInvalidStatus, Message: err.Error(), Err: err}
	default:
		return &TechnicalError{Code: CodeDatabase, Message: "database failure: " + err.Error(), Err: err}
	}
}
