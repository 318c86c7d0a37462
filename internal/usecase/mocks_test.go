package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/crm-board/internal/entity"
	"github.com/xavierca1/crm-board/internal/infra/queue"
)

// MockClienteRepository
type MockClienteRepository struct {
	mock.Mock
}

func (m *MockClienteRepository) Create(ctx context.Context, c *entity.Cliente) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClienteRepository) FindByID(ctx context.Context, id string) (*entity.Cliente, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Cliente), args.Error(1)
}

func (m *MockClienteRepository) FindByWhatsAppID(ctx context.Context, whatsappID string) (*entity.Cliente, error) {
	args := m.Called(ctx, whatsappID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Cliente), args.Error(1)
}

func (m *MockClienteRepository) ListBoard(ctx context.Context, filter entity.BoardFilter) ([]*entity.Cliente, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Cliente), args.Error(1)
}

func (m *MockClienteRepository) Patch(ctx context.Context, id string, p entity.ClientePatch) (bool, error) {
	args := m.Called(ctx, id, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockClienteRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClienteRepository) DeactivateStale(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event queue.ClienteEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// applyPatch simula o banco: aplica p em c quando o mock de Patch roda.
func applyPatch(c *entity.Cliente) func(mock.Arguments) {
	return func(args mock.Arguments) {
		p := args.Get(2).(entity.ClientePatch)
		if p.StatusCRM != nil {
			c.StatusCRM = *p.StatusCRM
		}
		if p.Stage != nil {
			c.Stage = *p.Stage
		}
		if p.Trava != nil {
			c.Trava = *p.Trava
		}
		if p.IsActive != nil {
			c.IsActive = *p.IsActive
		}
		if p.Qualificado != nil {
			c.Qualificado = *p.Qualificado
		}
		if p.LastInteractionAt != nil {
			c.LastInteractionAt = *p.LastInteractionAt
		}
		c.UpdatedAt = p.UpdatedAt
	}
}

func eventOfType(t queue.EventType) interface{} {
	return mock.MatchedBy(func(ev queue.ClienteEvent) bool { return ev.Type == t })
}
