package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/crm-board/internal/entity"
	"go.uber.org/zap"
)

func newTestRepo(t *testing.T) *ClienteRepository {
	t.Helper()

	db, err := NewDBConnection(DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(context.Background(), db, DriverSQLite))
	return NewClienteRepository(db, zap.NewNop())
}

func newCliente(t *testing.T, whatsappID string) *entity.Cliente {
	t.Helper()
	nome := "Cliente " + whatsappID
	c, err := entity.NewCliente(whatsappID, &nome)
	require.NoError(t, err)
	return c
}

func TestNewDBConnectionRejectsUnknownDriver(t *testing.T) {
	_, err := NewDBConnection("mysql", "whatever")
	assert.Error(t, err)
}

func TestCreateAndFind(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	c := newCliente(t, "5511999990001")
	c.Metadata = &entity.Metadata{Source: "whatsapp", Tags: []string{"vip", "sp"}, Notes: "veio do anúncio"}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, c.WhatsAppID, got.WhatsAppID)
	require.NotNil(t, got.Nome)
	assert.Equal(t, *c.Nome, *got.Nome)
	assert.Equal(t, entity.StatusNovo, got.StatusCRM)
	assert.Equal(t, "INTRO", got.Stage)
	assert.False(t, got.Trava)
	assert.True(t, got.IsActive)
	assert.False(t, got.Qualificado)
	assert.WithinDuration(t, c.CreatedAt, got.CreatedAt, time.Millisecond)
	assert.WithinDuration(t, c.LastInteractionAt, got.LastInteractionAt, time.Millisecond)
	assert.Equal(t, c.Metadata, got.Metadata)

	byWa, err := repo.FindByWhatsAppID(ctx, "5511999990001")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byWa.ID)
}

func TestCreateNullNome(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	c, err := entity.NewCliente("5511999990002", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Nome)
	assert.Nil(t, got.Metadata)
}

func TestCreateDuplicateWhatsAppID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newCliente(t, "5511999990003")))

	err := repo.Create(ctx, newCliente(t, "5511999990003"))
	assert.ErrorIs(t, err, entity.ErrWhatsAppIDAlreadyExists)
}

func TestFindNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "8a1c1c0e-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, entity.ErrClienteNotFound)

	_, err = repo.FindByWhatsAppID(ctx, "5500000000000")
	assert.ErrorIs(t, err, entity.ErrClienteNotFound)
}

func boolPtr(b bool) *bool { return &b }

func TestPatch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	c := newCliente(t, "5511999990004")
	require.NoError(t, repo.Create(ctx, c))

	status := entity.StatusQualificado
	stage := "PROPOSTA"
	at := c.UpdatedAt.Add(time.Minute)
	changed, err := repo.Patch(ctx, c.ID, entity.ClientePatch{
		StatusCRM:   &status,
		Stage:       &stage,
		Trava:       boolPtr(true),
		Qualificado: boolPtr(true),
		UpdatedAt:   at,
	})
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusQualificado, got.StatusCRM)
	assert.Equal(t, "PROPOSTA", got.Stage)
	assert.True(t, got.Trava)
	assert.True(t, got.Qualificado)
	assert.WithinDuration(t, at, got.UpdatedAt, time.Millisecond)
	// colunas fora do patch ficam intactas
	require.NotNil(t, got.Nome)
	assert.Equal(t, *c.Nome, *got.Nome)
	assert.Equal(t, c.WhatsAppID, got.WhatsAppID)

	missing := newCliente(t, "5511999990005")
	_, err = repo.Patch(ctx, missing.ID, entity.ClientePatch{Trava: boolPtr(true)})
	assert.ErrorIs(t, err, entity.ErrClienteNotFound)

	_, err = repo.Patch(ctx, c.ID, entity.ClientePatch{UpdatedAt: at})
	assert.Error(t, err)
}

func TestPatchUnchanged(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	c := newCliente(t, "5511999990012")
	require.NoError(t, repo.Create(ctx, c))

	changed, err := repo.Patch(ctx, c.ID, entity.ClientePatch{Trava: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Patch(ctx, c.ID, entity.ClientePatch{Trava: boolPtr(true), UpdatedAt: time.Now().UTC()})
	require.NoError(t, err)
	assert.False(t, changed)
}

// Duas cópias lidas antes de qualquer escrita: cada patch só mexe na sua coluna.
func TestPatchKeepsConcurrentChanges(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	c := newCliente(t, "5511999990013")
	require.NoError(t, repo.Create(ctx, c))

	operador, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	bot, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)

	_, err = repo.Patch(ctx, operador.ID, entity.ClientePatch{Trava: boolPtr(true)})
	require.NoError(t, err)
	status := entity.StatusEmContato
	_, err = repo.Patch(ctx, bot.ID, entity.ClientePatch{StatusCRM: &status})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Trava)
	assert.Equal(t, entity.StatusEmContato, got.StatusCRM)
}

func TestPatchDoesNotReactivateStaleCard(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	c := newCliente(t, "5511999990014")
	c.LastInteractionAt = now.Add(-72 * time.Hour)
	require.NoError(t, repo.Create(ctx, c))

	n, err := repo.DeactivateStale(ctx, now.Add(-48*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = repo.Patch(ctx, c.ID, entity.ClientePatch{Qualificado: boolPtr(true)})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Qualificado)
	assert.False(t, got.IsActive)

	_, err = repo.Patch(ctx, c.ID, entity.InteractionPatch(now))
	require.NoError(t, err)

	got, err = repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.WithinDuration(t, now, got.LastInteractionAt, time.Millisecond)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	c := newCliente(t, "5511999990006")
	require.NoError(t, repo.Create(ctx, c))
	require.NoError(t, repo.Delete(ctx, c.ID))

	_, err := repo.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, entity.ErrClienteNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), entity.ErrClienteNotFound)
}

func TestListBoard(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-24 * time.Hour)

	older := newCliente(t, "5511999990007")
	older.LastInteractionAt = base
	newer := newCliente(t, "5511999990008")
	newer.LastInteractionAt = base.Add(2 * time.Hour)
	newer.StatusCRM = entity.StatusEmContato
	hidden := newCliente(t, "5511999990009")
	hidden.IsActive = false

	for _, c := range []*entity.Cliente{older, newer, hidden} {
		require.NoError(t, repo.Create(ctx, c))
	}

	active, err := repo.ListBoard(ctx, entity.BoardFilter{})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, newer.ID, active[0].ID)
	assert.Equal(t, older.ID, active[1].ID)

	all, err := repo.ListBoard(ctx, entity.BoardFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	status := entity.StatusEmContato
	filtered, err := repo.ListBoard(ctx, entity.BoardFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, newer.ID, filtered[0].ID)
}

func TestDeactivateStale(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	stale := newCliente(t, "5511999990010")
	stale.LastInteractionAt = now.Add(-72 * time.Hour)
	fresh := newCliente(t, "5511999990011")
	fresh.LastInteractionAt = now.Add(-time.Hour)

	require.NoError(t, repo.Create(ctx, stale))
	require.NoError(t, repo.Create(ctx, fresh))

	n, err := repo.DeactivateStale(ctx, now.Add(-48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.FindByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	got, err = repo.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}
