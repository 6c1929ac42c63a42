package deleteproperty

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

func newHandler(t *testing.T, d Deleter) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, d, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	deleter := &MockDeleter{}
	deleter.On("Delete", mock.Anything, "prop-1").Return(nil)

	output, err := newHandler(t, deleter).Execute(context.Background(), &Input{PropertyID: "prop-1 "})

	require.NoError(t, err)
	assert.Equal(t, &Output{Success: true, PropertyID: "prop-1", Message: MessageDeleted}, output)
	deleter.AssertExpectations(t)
}

func TestHandler_Execute_MissingID(t *testing.T) {
	deleter := &MockDeleter{}

	_, err := newHandler(t, deleter).Execute(context.Background(), &Input{PropertyID: "  "})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodePropertyValidationFailed, apperrors.AsStandardError(err).Code)
	deleter.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestHandler_Execute_NotFound(t *testing.T) {
	deleter := &MockDeleter{}
	deleter.On("Delete", mock.Anything, "gone").Return(apperrors.NewPropertyNotFoundError("gone"))

	_, err := newHandler(t, deleter).Execute(context.Background(), &Input{PropertyID: "gone"})

	assert.Equal(t, apperrors.ErrCodePropertyNotFound, apperrors.AsStandardError(err).Code)
}
