package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate-workers/internal/models"
)

func newTestIndex(t *testing.T, handler http.HandlerFunc) *ProjectIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewProjectIndex(client, "upcoming-projects")
}

func TestProjectIndex_Index(t *testing.T) {
	var (
		gotPath string
		gotDoc  models.Project
	)
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotDoc)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	project := &models.Project{ID: "p-1", Title: "Skyline Towers", Status: "upcoming", CreatedAt: time.Now().UTC()}
	require.NoError(t, idx.Index(context.Background(), project))

	assert.Equal(t, "/upcoming-projects/_doc/p-1", gotPath)
	assert.Equal(t, "Skyline Towers", gotDoc.Title)
}

func TestProjectIndex_IndexError(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"mapper_parsing_exception"}`))
	})

	err := idx.Index(context.Background(), &models.Project{ID: "p-1"})
	assert.Error(t, err)
}

func TestProjectIndex_DeleteIgnoresMissing(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})

	assert.NoError(t, idx.Delete(context.Background(), "p-1"))
}

func TestProjectIndex_Search(t *testing.T) {
	var query map[string]interface{}
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upcoming-projects/_search", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("size"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &query)
		_, _ = w.Write([]byte(`{"hits":{"hits":[
			{"_source":{"id":"p-1","title":"Skyline Towers","status":"upcoming"}},
			{"_source":{"id":"p-2","title":"Sky Gardens","status":"upcoming"}}
		]}}`))
	})

	projects, err := idx.Search(context.Background(), "sky", "upcoming", 5)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "p-2", projects[1].ID)

	boolQuery := query["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Contains(t, boolQuery, "filter")
}

func TestProjectIndex_SearchMissingIndex(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"}}`))
	})

	_, err := idx.Search(context.Background(), "sky", "", 10)
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		status     string
		wantClause string
		wantFilter bool
	}{
		{"text and status", "sea view", "launched", "multi_match", true},
		{"text only", "sea view", "", "multi_match", false},
		{"match all", "", "", "match_all", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := BuildSearchQuery(tt.text, tt.status)
			boolQuery := q["query"].(map[string]interface{})["bool"].(map[string]interface{})
			must := boolQuery["must"].([]interface{})
			require.Len(t, must, 1)
			assert.Contains(t, must[0], tt.wantClause)
			_, hasFilter := boolQuery["filter"]
			assert.Equal(t, tt.wantFilter, hasFilter)
		})
	}
}
