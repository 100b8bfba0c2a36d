package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mashirou1234/yesod-auth/internal/core/domain"
	"github.com/mashirou1234/yesod-auth/internal/core/ports/mocks"
	"github.com/mashirou1234/yesod-auth/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type adminFixture struct {
	svc    *webhookAdminService
	config *mocks.MockWebhookConfigProvider
	repo   *mocks.MockDeliveryRepository
	queue  *mocks.MockEventQueue
}

func newAdminFixture(t *testing.T) *adminFixture {
	ctrl := gomock.NewController(t)
	f := &adminFixture{
		config: mocks.NewMockWebhookConfigProvider(ctrl),
		repo:   mocks.NewMockDeliveryRepository(ctrl),
		queue:  mocks.NewMockEventQueue(ctrl),
	}
	f.svc = NewWebhookAdminService(f.config, f.repo, f.queue, newTestLogger()).(*webhookAdminService)
	return f
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected *apperror.AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestAdmin_Reload(t *testing.T) {
	f := newAdminFixture(t)
	f.config.EXPECT().Reload(gomock.Any()).Return(&domain.WebhookConfig{
		Endpoints: []domain.WebhookEndpoint{subscribedEndpoint, subscribedEndpoint},
	}, nil)

	n, err := f.svc.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAdmin_Reload_Failure(t *testing.T) {
	f := newAdminFixture(t)
	f.config.EXPECT().Reload(gomock.Any()).Return(nil, errors.New("yaml: bad indentation"))

	_, err := f.svc.Reload(context.Background())
	assertAppErrorCode(t, err, "WHK_002")
}

func TestAdmin_ListEndpoints_MasksSecrets(t *testing.T) {
	f := newAdminFixture(t)
	disabled := subscribedEndpoint
	disabled.ID = "ep2"
	disabled.Enabled = false
	disabled.Secret = ""

	f.config.EXPECT().Current().Return(&domain.WebhookConfig{
		Endpoints: []domain.WebhookEndpoint{subscribedEndpoint, disabled},
	})

	views := f.svc.ListEndpoints()
	require.Len(t, views, 2)
	assert.Equal(t, "ep1", views[0].ID)
	assert.Equal(t, "********", views[0].Secret)
	assert.True(t, views[0].Enabled)
	assert.Equal(t, "", views[1].Secret)
	assert.False(t, views[1].Enabled)
}

func TestAdmin_ListEndpoints_Empty(t *testing.T) {
	f := newAdminFixture(t)
	f.config.EXPECT().Current().Return(domain.EmptyWebhookConfig())

	assert.Empty(t, f.svc.ListEndpoints())
}

func TestAdmin_ListDeliveries_NormalisesLimit(t *testing.T) {
	f := newAdminFixture(t)
	f.repo.EXPECT().List(gomock.Any(), domain.DeliveryFilter{EventType: domain.EventUserLogin, Limit: 100}).
		Return([]domain.WebhookDelivery{{EventType: domain.EventUserLogin}}, nil)

	rows, err := f.svc.ListDeliveries(context.Background(), domain.DeliveryFilter{EventType: domain.EventUserLogin})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestAdmin_ListDeliveries_RepoError(t *testing.T) {
	f := newAdminFixture(t)
	f.repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("conn reset"))

	_, err := f.svc.ListDeliveries(context.Background(), domain.DeliveryFilter{})
	assertAppErrorCode(t, err, "SYS_001")
}

func TestAdmin_EventDeliveries(t *testing.T) {
	f := newAdminFixture(t)
	id := uuid.New()
	f.repo.EXPECT().ListByEventID(gomock.Any(), id).Return([]domain.WebhookDelivery{{EventID: id}}, nil)

	rows, err := f.svc.EventDeliveries(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestAdmin_EventDeliveries_NotFound(t *testing.T) {
	f := newAdminFixture(t)
	f.repo.EXPECT().ListByEventID(gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := f.svc.EventDeliveries(context.Background(), uuid.New())
	assertAppErrorCode(t, err, "WHK_001")
}

func TestAdmin_Stats(t *testing.T) {
	f := newAdminFixture(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	f.repo.EXPECT().Stats(gomock.Any(), now.Add(-24*time.Hour)).Return(&domain.DeliveryStats{Total: 10, Succeeded: 9, Failed: 1}, nil)
	f.queue.EXPECT().Len(gomock.Any()).Return(int64(4), nil)

	stats, err := f.svc.Stats(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Deliveries.Total)
	assert.Equal(t, int64(4), stats.QueueDepth)
	assert.Equal(t, 24*time.Hour, stats.Window)
}

func TestAdmin_Stats_QueueUnavailable(t *testing.T) {
	f := newAdminFixture(t)
	f.repo.EXPECT().Stats(gomock.Any(), gomock.Any()).Return(&domain.DeliveryStats{}, nil)
	f.queue.EXPECT().Len(gomock.Any()).Return(int64(0), errors.New("redis down"))

	stats, err := f.svc.Stats(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), stats.QueueDepth)
}

func TestAdmin_Stats_InvalidWindow(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.Stats(context.Background(), 0)
	assertAppErrorCode(t, err, "VAL_001")
}
