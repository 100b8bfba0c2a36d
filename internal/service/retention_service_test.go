package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mashirou1234/yesod-auth/internal/core/domain"
	"github.com/mashirou1234/yesod-auth/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newRetentionFixture(t *testing.T, retentionDays int) (*RetentionService, *mocks.MockDeliveryRepository) {
	ctrl := gomock.NewController(t)
	cfg := mocks.NewMockWebhookConfigProvider(ctrl)
	repo := mocks.NewMockDeliveryRepository(ctrl)

	settings := domain.DefaultWebhookSettings()
	settings.LogRetentionDays = retentionDays
	cfg.EXPECT().Current().Return(&domain.WebhookConfig{Settings: settings}).AnyTimes()

	svc, err := NewRetentionService(cfg, repo, "@daily", newTestLogger())
	require.NoError(t, err)
	return svc, repo
}

func TestRetention_PurgeUsesConfiguredWindow(t *testing.T) {
	svc, repo := newRetentionFixture(t, 7)
	now := time.Date(2026, 5, 10, 3, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.EXPECT().PurgeOlderThan(gomock.Any(), now.Add(-7*24*time.Hour)).Return(int64(12), nil)

	n, err := svc.Purge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestRetention_ZeroDaysDisablesPurge(t *testing.T) {
	svc, _ := newRetentionFixture(t, 0)
	// No PurgeOlderThan expectation.

	n, err := svc.Purge(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRetention_PurgeError(t *testing.T) {
	svc, repo := newRetentionFixture(t, 30)
	repo.EXPECT().PurgeOlderThan(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("deadlock detected"))

	_, err := svc.Purge(context.Background())
	assert.ErrorContains(t, err, "deadlock detected")
}

func TestRetention_InvalidSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, err := NewRetentionService(mocks.NewMockWebhookConfigProvider(ctrl), mocks.NewMockDeliveryRepository(ctrl), "every tuesday", newTestLogger())
	assert.Error(t, err)
}

func TestRetention_StartStop(t *testing.T) {
	svc, _ := newRetentionFixture(t, 30)

	require.NoError(t, svc.Start())
	require.NoError(t, svc.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, svc.Stop(ctx))
	assert.NoError(t, svc.Stop(ctx))
}
