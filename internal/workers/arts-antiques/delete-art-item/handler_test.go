package deleteartitem

import (
	"context"
	"testing"
	"time"

	apperrors "estate-workers/internal/common/errors"
	"estate-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDeleter struct {
	mock.Mock
}

func (m *MockDeleter) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestHandler_Execute(t *testing.T) {
	deleter := &MockDeleter{}
	deleter.On("Delete", mock.Anything, "art-1").Return(nil)

	h := NewHandler(&Config{Timeout: time.Second}, deleter, logger.NewTestLogger(t))
	output, err := h.Execute(context.Background(), &Input{ItemID: " art-1 "})

	require.NoError(t, err)
	assert.Equal(t, &Output{Success: true, ItemID: "art-1", Message: MessageDeleted}, output)
}

func TestHandler_Execute_MissingID(t *testing.T) {
	deleter := &MockDeleter{}
	h := NewHandler(&Config{Timeout: time.Second}, deleter, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{})

	assert.Equal(t, apperrors.ErrCodeArtItemValidationFailed, apperrors.AsStandardError(err).Code)
	deleter.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
