// Package search keeps the upcoming-projects Elasticsearch index in sync and queries it.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"estate-workers/internal/models"
)

var ErrIndexNotFound = errors.New("index not found")

// ProjectMapping is the index mapping applied when the index is created.
const ProjectMapping = `{
  "mappings": {
    "properties": {
      "id":             {"type": "keyword"},
      "title":          {"type": "text"},
      "description":    {"type": "text"},
      "price":          {"type": "keyword"},
      "address":        {"type": "text"},
      "flatSize":       {"type": "keyword"},
      "builder":        {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "status":         {"type": "keyword"},
      "imageUrl":       {"type": "keyword", "index": false},
      "launchDate":     {"type": "keyword"},
      "completionDate": {"type": "keyword"},
      "createdAt":      {"type": "date"},
      "updatedAt":      {"type": "date"}
    }
  }
}`

type ProjectIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewProjectIndex(client *elasticsearch.Client, index string) *ProjectIndex {
	return &ProjectIndex{client: client, index: index}
}

func (p *ProjectIndex) Name() string {
	return p.index
}

// Index upserts the project document under its id.
func (p *ProjectIndex) Index(ctx context.Context, project *models.Project) error {
	body, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      p.index,
		DocumentID: project.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, p.client)
	if err != nil {
		return fmt.Errorf("index project %s: %w", project.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index project %s: %s", project.ID, res.Status())
	}
	return nil
}

// Delete removes the project document. A missing document is not an error.
func (p *ProjectIndex) Delete(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: p.index, DocumentID: id}
	res, err := req.Do(ctx, p.client)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete project %s: %s", id, res.Status())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source models.Project `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs a full-text query over title, builder, address and description,
// optionally filtered by status.
func (p *ProjectIndex) Search(ctx context.Context, text, status string, limit int) ([]*models.Project, error) {
	body, err := json.Marshal(BuildSearchQuery(text, status))
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	size := limit
	req := esapi.SearchRequest{
		Index: []string{p.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}
	res, err := req.Do(ctx, p.client)
	if err != nil {
		return nil, fmt.Errorf("search projects: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrIndexNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("search projects: %s", res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	projects := make([]*models.Project, 0, len(parsed.Hits.Hits))
	for i := range parsed.Hits.Hits {
		projects = append(projects, &parsed.Hits.Hits[i].Source)
	}
	return projects, nil
}

func BuildSearchQuery(text, status string) map[string]interface{} {
	must := []interface{}{}
	if text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"title^3", "builder^2", "address", "description"},
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery := map[string]interface{}{"must": must}
	if status != "" {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{"term": map[string]interface{}{"status": status}},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"createdAt": map[string]interface{}{"order": "desc"}},
		},
	}
}
