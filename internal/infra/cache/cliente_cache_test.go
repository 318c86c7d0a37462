package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/crm-board/internal/entity"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, c *entity.Cliente) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (*entity.Cliente, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Cliente), args.Error(1)
}

func (m *mockRepo) FindByWhatsAppID(ctx context.Context, wa string) (*entity.Cliente, error) {
	args := m.Called(ctx, wa)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Cliente), args.Error(1)
}

func (m *mockRepo) ListBoard(ctx context.Context, f entity.BoardFilter) ([]*entity.Cliente, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*entity.Cliente), args.Error(1)
}

func (m *mockRepo) Patch(ctx context.Context, id string, p entity.ClientePatch) (bool, error) {
	args := m.Called(ctx, id, p)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) DeactivateStale(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func TestFindByIDIsCached(t *testing.T) {
	inner := new(mockRepo)
	c, err := entity.NewCliente("5511999999999", nil)
	require.NoError(t, err)
	inner.On("FindByID", mock.Anything, c.ID).Return(c, nil).Once()

	repo := NewClienteRepository(inner, time.Minute)
	ctx := context.Background()

	first, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)

	assert.Equal(t, c.ID, first.ID)
	assert.Equal(t, c.ID, second.ID)

	// also warms the whatsapp_id key
	byWa, err := repo.FindByWhatsAppID(ctx, c.WhatsAppID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, byWa.ID)

	inner.AssertExpectations(t)
}

func TestCachedValueIsACopy(t *testing.T) {
	inner := new(mockRepo)
	c, err := entity.NewCliente("5511999999999", nil)
	require.NoError(t, err)
	inner.On("FindByID", mock.Anything, c.ID).Return(c, nil).Once()

	repo := NewClienteRepository(inner, time.Minute)
	ctx := context.Background()

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	got.Trava = true

	again, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, again.Trava)
}

func TestPatchInvalidates(t *testing.T) {
	inner := new(mockRepo)
	c, err := entity.NewCliente("5511999999999", nil)
	require.NoError(t, err)
	updated := *c
	updated.Trava = true
	trava := true

	inner.On("FindByID", mock.Anything, c.ID).Return(c, nil).Once()
	inner.On("Patch", mock.Anything, c.ID, entity.ClientePatch{Trava: &trava}).Return(true, nil).Once()
	inner.On("FindByID", mock.Anything, c.ID).Return(&updated, nil).Once()

	repo := NewClienteRepository(inner, time.Minute)
	ctx := context.Background()

	_, err = repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	changed, err := repo.Patch(ctx, c.ID, entity.ClientePatch{Trava: &trava})
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Trava)
	inner.AssertExpectations(t)
}

// Uma leitura que acontece enquanto o UPDATE está em andamento não pode
// deixar a versão antiga no cache depois que a escrita termina.
func TestPatchInvalidatesAfterConcurrentRead(t *testing.T) {
	inner := new(mockRepo)
	c, err := entity.NewCliente("5511999999999", nil)
	require.NoError(t, err)
	updated := *c
	updated.Trava = true
	trava := true

	started := make(chan struct{})
	release := make(chan struct{})
	inner.On("Patch", mock.Anything, c.ID, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(true, nil).Once()
	inner.On("FindByID", mock.Anything, c.ID).Return(c, nil).Once()
	inner.On("FindByID", mock.Anything, c.ID).Return(&updated, nil).Once()

	repo := NewClienteRepository(inner, time.Minute)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := repo.Patch(ctx, c.ID, entity.ClientePatch{Trava: &trava})
		done <- err
	}()

	<-started
	during, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, during.Trava)

	close(release)
	require.NoError(t, <-done)

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Trava)
	inner.AssertExpectations(t)
}

func TestDeleteInvalidatesAfterConcurrentRead(t *testing.T) {
	inner := new(mockRepo)
	c, err := entity.NewCliente("5511999999999", nil)
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	inner.On("Delete", mock.Anything, c.ID).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil).Once()
	inner.On("FindByID", mock.Anything, c.ID).Return(c, nil).Once()
	inner.On("FindByID", mock.Anything, c.ID).Return(nil, entity.ErrClienteNotFound).Once()
	inner.On("FindByWhatsAppID", mock.Anything, c.WhatsAppID).Return(nil, entity.ErrClienteNotFound).Once()

	repo := NewClienteRepository(inner, time.Minute)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- repo.Delete(ctx, c.ID) }()

	<-started
	_, err = repo.FindByID(ctx, c.ID)
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)

	_, err = repo.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, entity.ErrClienteNotFound)
	_, err = repo.FindByWhatsAppID(ctx, c.WhatsAppID)
	assert.ErrorIs(t, err, entity.ErrClienteNotFound)
	inner.AssertExpectations(t)
}

func TestNotFoundIsNotCached(t *testing.T) {
	inner := new(mockRepo)
	inner.On("FindByWhatsAppID", mock.Anything, "5500000000000").Return(nil, entity.ErrClienteNotFound).Twice()

	repo := NewClienteRepository(inner, time.Minute)
	ctx := context.Background()

	_, err := repo.FindByWhatsAppID(ctx, "5500000000000")
	assert.ErrorIs(t, err, entity.ErrClienteNotFound)
	_, err = repo.FindByWhatsAppID(ctx, "5500000000000")
	assert.ErrorIs(t, err, entity.ErrClienteNotFound)
	inner.AssertExpectations(t)
}

func TestDeactivateStaleFlushes(t *testing.T) {
	inner := new(mockRepo)
	c, err := entity.NewCliente("5511999999999", nil)
	require.NoError(t, err)
	before := time.Now()

	inner.On("FindByID", mock.Anything, c.ID).Return(c, nil).Twice()
	inner.On("DeactivateStale", mock.Anything, before).Return(int64(1), nil).Once()

	repo := NewClienteRepository(inner, time.Minute)
	ctx := context.Background()

	_, err = repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	n, err := repo.DeactivateStale(ctx, before)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = repo.FindByID(ctx, c.ID)
	require.NoError(t, err)

	inner.AssertExpectations(t)
}
