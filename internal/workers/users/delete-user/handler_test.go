package deleteuser

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
	deleter.On("Delete", mock.Anything, "u-1").Return(nil)

	output, err := newHandler(t, deleter).Execute(context.Background(), &Input{UserID: "u-1"})

	require.NoError(t, err)
	assert.Equal(t, &Output{Success: true, UserID: "u-1", Message: MessageDeleted}, output)
}

func TestHandler_Execute_MissingID(t *testing.T) {
	deleter := &MockDeleter{}

	_, err := newHandler(t, deleter).Execute(context.Background(), &Input{})

	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.AsStandardError(err).Code)
	deleter.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestHandler_Execute_NotFound(t *testing.T) {
	deleter := &MockDeleter{}
	deleter.On("Delete", mock.Anything, "u-404").Return(apperrors.NewUserNotFoundError("u-404"))

	_, err := newHandler(t, deleter).Execute(context.Background(), &Input{UserID: "u-404"})

	assert.Equal(t, apperrors.ErrCodeUserNotFound, apperrors.AsStandardError(err).Code)
}
