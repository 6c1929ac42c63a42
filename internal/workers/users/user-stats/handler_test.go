package userstats

import (
	"context"
	"testing"
	"time"

	"estate-workers/internal/common/logger"
	"estate-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStatsSource struct {
	mock.Mock
}

func (m *MockStatsSource) Stats(ctx context.Context) (*models.UserStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*models.UserStats)
	return stats, args.Error(1)
}

func TestHandler_Execute(t *testing.T) {
	source := &MockStatsSource{}
	source.On("Stats", mock.Anything).Return(&models.UserStats{
		TotalUsers: 40, ActiveUsers: 37, InactiveUsers: 3, NewUsersThisMonth: 6,
	}, nil)

	h := NewHandler(&Config{Timeout: time.Second}, source, logger.NewTestLogger(t))
	output, err := h.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &Output{Success: true, Stats: models.UserStats{
		TotalUsers: 40, ActiveUsers: 37, InactiveUsers: 3, NewUsersThisMonth: 6,
	}}, output)
}
