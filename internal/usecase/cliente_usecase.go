package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/crm-board/internal/entity"
	"github.com/xavierca1/crm-board/internal/infra/queue"
	"go.uber.org/zap"
)

// ClienteUseCase reúne as operações pontuais sobre um cliente já existente:
// leitura, mudança de status/etapa, handoff (trava) e visibilidade no board.
type ClienteUseCase struct {
	Repo      ClienteRepositoryInterface
	Publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewClienteUseCase(repo ClienteRepositoryInterface, publisher EventPublisher, logger *zap.Logger) *ClienteUseCase {
	return &ClienteUseCase{
		Repo:      repo,
		Publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *ClienteUseCase) Get(ctx context.Context, id string) (*entity.Cliente, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	c, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err)
	}
	return c, nil
}

func (uc *ClienteUseCase) GetByWhatsAppID(ctx context.Context, whatsappID string) (*entity.Cliente, error) {
	normalized, err := entity.NormalizeWhatsAppID(whatsappID)
	if err != nil {
		return nil, validationFailed([]ValidationError{{"whatsapp_id", "is invalid"}})
	}
	c, err := uc.Repo.FindByWhatsAppID(ctx, normalized)
	if err != nil {
		return nil, repoError(err)
	}
	return c, nil
}

// UpdateStatus aceita qualquer transição; a única regra é o enum fechado.
func (uc *ClienteUseCase) UpdateStatus(ctx context.Context, id, status string) (*entity.Cliente, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	st, err := entity.ParseCrmStatus(status)
	if err != nil {
		return nil, repoError(err)
	}

	c, changed, err := uc.patch(ctx, id, entity.ClientePatch{StatusCRM: &st})
	if err != nil || !changed {
		return c, err
	}

	uc.logger.Info("status_crm alterado", zap.String("cliente_id", c.ID), zap.String("to", st.String()))
	uc.publish(ctx, queue.EventStatusChanged, c)
	return c, nil
}

// SetTrava liga (humano) ou desliga (bot) a trava de automação. Só publica
// o handoff quando o valor de fato muda.
func (uc *ClienteUseCase) SetTrava(ctx context.Context, id string, trava bool) (*entity.Cliente, error) {
	c, changed, err := uc.patch(ctx, id, entity.ClientePatch{Trava: &trava})
	if err != nil || !changed {
		return c, err
	}

	mode := "bot"
	if trava {
		mode = "human"
	}
	uc.logger.Info("handoff", zap.String("cliente_id", c.ID), zap.String("mode", mode))
	uc.publish(ctx, queue.EventHandoff, c)
	return c, nil
}

func (uc *ClienteUseCase) SetStage(ctx context.Context, id, stage string) (*entity.Cliente, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if e := validateStage(stage); e != nil {
		return nil, validationFailed([]ValidationError{*e})
	}

	stage = strings.TrimSpace(stage)
	c, _, err := uc.patch(ctx, id, entity.ClientePatch{Stage: &stage})
	return c, err
}

func (uc *ClienteUseCase) SetQualificado(ctx context.Context, id string, qualificado bool) (*entity.Cliente, error) {
	c, _, err := uc.patch(ctx, id, entity.ClientePatch{Qualificado: &qualificado})
	return c, err
}

func (uc *ClienteUseCase) SetActive(ctx context.Context, id string, active bool) (*entity.Cliente, error) {
	c, _, err := uc.patch(ctx, id, entity.ClientePatch{IsActive: &active})
	return c, err
}

// TouchInteraction registra uma interação agora e devolve o card ao board.
func (uc *ClienteUseCase) TouchInteraction(ctx context.Context, id string) (*entity.Cliente, error) {
	c, _, err := uc.patch(ctx, id, entity.InteractionPatch(uc.now()))
	return c, err
}

func (uc *ClienteUseCase) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := uc.Repo.Delete(ctx, id); err != nil {
		return repoError(err)
	}
	uc.logger.Info("cliente removido", zap.String("cliente_id", id))
	return nil
}

// patch grava só os campos de p e relê o cliente para a resposta.
func (uc *ClienteUseCase) patch(ctx context.Context, id string, p entity.ClientePatch) (*entity.Cliente, bool, error) {
	if err := checkID(id); err != nil {
		return nil, false, err
	}
	p.UpdatedAt = uc.now()

	changed, err := uc.Repo.Patch(ctx, id, p)
	if err != nil {
		return nil, false, repoError(err)
	}
	c, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, repoError(err)
	}
	return c, changed, nil
}

// checkID recusa ids fora do formato UUID antes de chegar no banco
// (no Postgres a coluna é UUID e o cast falharia com 22P02).
func checkID(id string) error {
	if len(id) != 36 {
		return notFound()
	}
	if _, err := uuid.Parse(id); err != nil {
		return notFound()
	}
	return nil
}

func notFound() error {
	return &DomainError{Code: CodeNotFound, Message: entity.ErrClienteNotFound.Error(), Err: entity.ErrClienteNotFound}
}

// publish não falha a operação: o banco já foi atualizado.
func (uc *ClienteUseCase) publish(ctx context.Context, t queue.EventType, c *entity.Cliente) {
	if uc.Publisher == nil {
		return
	}
	if err := uc.Publisher.Publish(ctx, queue.NewClienteEvent(t, c)); err != nil {
		uc.logger.Error("CRITICAL: cliente atualizado no banco, mas falha na fila",
			zap.String("event", string(t)),
			zap.String("cliente_id", c.ID),
			zap.Error(err),
		)
	}
}
