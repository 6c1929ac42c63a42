package saveartitem

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

type MockSaver struct {
	mock.Mock
}

func (m *MockSaver) Add(ctx context.Context, a models.ArtItem) (*models.ArtItem, error) {
	args := m.Called(ctx, a)
	item, _ := args.Get(0).(*models.ArtItem)
	return item, args.Error(1)
}

func (m *MockSaver) Update(ctx context.Context, a models.ArtItem) (*models.ArtItem, error) {
	args := m.Called(ctx, a)
	item, _ := args.Get(0).(*models.ArtItem)
	return item, args.Error(1)
}

func validVariables() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Tanjore Krishna",
		"category":    "Paintings",
		"artist":      "R. Iyer",
		"description": "Gold leaf on wood",
		"price":       float64(125000),
		"year":        float64(1920),
		"featured":    true,
		"images":      []interface{}{"https://cdn.example.com/a.jpg", ""},
	}
}

func TestDecodeItem(t *testing.T) {
	item, err := decodeItem(validVariables())

	require.NoError(t, err)
	assert.Equal(t, "Tanjore Krishna", item.Title)
	assert.Equal(t, float64(125000), item.Price)
	require.NotNil(t, item.Year)
	assert.Equal(t, 1920, *item.Year)
	assert.True(t, item.Featured)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, item.Images)
	assert.Empty(t, item.ID)
}

func TestDecodeItem_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing artist", func(v map[string]interface{}) { delete(v, "artist") }},
		{"negative price", func(v map[string]interface{}) { v["price"] = float64(-1) }},
		{"fractional year", func(v map[string]interface{}) { v["year"] = 1920.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := validVariables()
			tt.mutate(vars)

			_, err := decodeItem(vars)

			require.Error(t, err)
			assert.Equal(t, apperrors.ErrCodeArtItemValidationFailed, apperrors.AsStandardError(err).Code)
		})
	}
}

func TestHandler_Execute_AddsWithoutID(t *testing.T) {
	saver := &MockSaver{}
	item := models.ArtItem{Title: "Bronze Nataraja"}
	saver.On("Add", mock.Anything, item).Return(&models.ArtItem{ID: "art-1", Title: "Bronze Nataraja"}, nil)

	h := NewHandler(&Config{Timeout: time.Second}, saver, logger.NewTestLogger(t))
	output, err := h.Execute(context.Background(), item)

	require.NoError(t, err)
	assert.True(t, output.Created)
	assert.Equal(t, MessageAdded, output.Message)
	assert.Equal(t, "art-1", output.Item.ID)
	saver.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestHandler_Execute_UpdatesWithID(t *testing.T) {
	saver := &MockSaver{}
	item := models.ArtItem{ID: "art-1", Title: "Bronze Nataraja"}
	saver.On("Update", mock.Anything, item).Return(nil, apperrors.NewArtItemNotFoundError("art-1"))

	h := NewHandler(&Config{Timeout: time.Second}, saver, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), item)

	assert.Equal(t, apperrors.ErrCodeArtItemNotFound, apperrors.AsStandardError(err).Code)
}
