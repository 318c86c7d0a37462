package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/xavierca1/crm-board/internal/entity"
)

// ClienteRepository é um read-through cache na frente do repositório real.
// Leituras por id e por whatsapp_id passam pelo cache; qualquer escrita invalida.
type ClienteRepository struct {
	next  entity.ClienteRepositoryInterface
	store *gocache.Cache
}

func NewClienteRepository(next entity.ClienteRepositoryInterface, ttl time.Duration) *ClienteRepository {
	return &ClienteRepository{
		next:  next,
		store: gocache.New(ttl, 2*ttl),
	}
}

func idKey(id string) string { return "id:" + id }
func waKey(wa string) string { return "wa:" + wa }

func (r *ClienteRepository) Create(ctx context.Context, c *entity.Cliente) error {
	if err := r.next.Create(ctx, c); err != nil {
		return err
	}
	r.forget(c)
	return nil
}

func (r *ClienteRepository) FindByID(ctx context.Context, id string) (*entity.Cliente, error) {
	if v, ok := r.store.Get(idKey(id)); ok {
		return copyCliente(v.(*entity.Cliente)), nil
	}
	c, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.remember(c)
	return copyCliente(c), nil
}

func (r *ClienteRepository) FindByWhatsAppID(ctx context.Context, whatsappID string) (*entity.Cliente, error) {
	if v, ok := r.store.Get(waKey(whatsappID)); ok {
		return copyCliente(v.(*entity.Cliente)), nil
	}
	c, err := r.next.FindByWhatsAppID(ctx, whatsappID)
	if err != nil {
		return nil, err
	}
	r.remember(c)
	return copyCliente(c), nil
}

// Board não é cacheado: muda a cada interação.
func (r *ClienteRepository) ListBoard(ctx context.Context, filter entity.BoardFilter) ([]*entity.Cliente, error) {
	return r.next.ListBoard(ctx, filter)
}

// Patch invalida antes e depois da escrita: uma leitura concorrente pode
// recolocar a linha antiga no cache enquanto o UPDATE está em andamento.
func (r *ClienteRepository) Patch(ctx context.Context, id string, p entity.ClientePatch) (bool, error) {
	r.forgetID(id)
	changed, err := r.next.Patch(ctx, id, p)
	r.forgetID(id)
	return changed, err
}

func (r *ClienteRepository) Delete(ctx context.Context, id string) error {
	r.forgetID(id)
	err := r.next.Delete(ctx, id)
	r.forgetID(id)
	return err
}

func (r *ClienteRepository) DeactivateStale(ctx context.Context, before time.Time) (int64, error) {
	n, err := r.next.DeactivateStale(ctx, before)
	if n > 0 {
		r.store.Flush()
	}
	return n, err
}

func (r *ClienteRepository) remember(c *entity.Cliente) {
	cached := copyCliente(c)
	r.store.SetDefault(idKey(c.ID), cached)
	r.store.SetDefault(waKey(c.WhatsAppID), cached)
}

func (r *ClienteRepository) forget(c *entity.Cliente) {
	r.store.Delete(idKey(c.ID))
	r.store.Delete(waKey(c.WhatsAppID))
}

func (r *ClienteRepository) forgetID(id string) {
	if v, ok := r.store.Get(idKey(id)); ok {
		r.forget(v.(*entity.Cliente))
	}
}

func copyCliente(c *entity.Cliente) *entity.Cliente {
	out := *c
	if c.Nome != nil {
		nome := *c.Nome
		out.Nome = &nome
	}
	if c.Metadata != nil {
		m := *c.Metadata
		m.Tags = append([]string(nil), c.Metadata.Tags...)
		out.Metadata = &m
	}
	return &out
}
