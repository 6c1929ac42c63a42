package listproperties

import (
	"context"
	"testing"
	"time"

	apperrors "estate-workers/internal/common/errors"
	"estate-workers/internal/common/logger"
	"estate-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLister struct {
	mock.Mock
}

func (m *MockLister) List(ctx context.Context, f models.PropertyFilter) ([]*models.Property, error) {
	args := m.Called(ctx, f)
	properties, _ := args.Get(0).([]*models.Property)
	return properties, args.Error(1)
}

func TestDecodeInput(t *testing.T) {
	input, err := decodeInput(map[string]interface{}{
		"search":   "baner",
		"status":   "pending",
		"type":     "rent",
		"category": "Residential",
		"limit":    float64(20),
		"other":    true,
	})

	require.NoError(t, err)
	assert.Equal(t, &Input{Search: "baner", Status: "pending", Type: "rent", Category: "Residential", Limit: 20}, input)
}

func TestDecodeInput_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]interface{}
	}{
		{"unknown status", map[string]interface{}{"status": "sold"}},
		{"unknown type", map[string]interface{}{"type": "lease"}},
		{"fractional limit", map[string]interface{}{"limit": 2.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeInput(tt.vars)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.AsStandardError(err).Code)
		})
	}
}

func TestHandler_Execute(t *testing.T) {
	lister := &MockLister{}
	lister.On("List", mock.Anything, models.PropertyFilter{Looking: "buy", Limit: 5}).
		Return([]*models.Property{{ID: "prop-1"}, {ID: "prop-2"}}, nil)

	h := NewHandler(&Config{Timeout: time.Second}, lister, logger.NewTestLogger(t))
	output, err := h.Execute(context.Background(), &Input{Type: "buy", Limit: 5})

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, 2, output.Count)
	lister.AssertExpectations(t)
}

func TestHandler_Execute_NilBecomesEmpty(t *testing.T) {
	lister := &MockLister{}
	lister.On("List", mock.Anything, mock.Anything).Return(nil, nil)

	h := NewHandler(&Config{Timeout: time.Second}, lister, logger.NewTestLogger(t))
	output, err := h.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.NotNil(t, output.Properties)
	assert.Zero(t, output.Count)
}
