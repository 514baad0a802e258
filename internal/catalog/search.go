package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cockpit-fit-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrIndexNotFound = errors.New("index not found")
	ErrSearchFailed  = errors.New("search failed")
)

const defaultSearchSize = 20

const frameIndexMapping = `{
	"mappings": {
		"properties": {
			"id":               {"type": "keyword"},
			"brand":            {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"model":            {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"sizeLabel":        {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"stackMm":          {"type": "float"},
			"reachMm":          {"type": "float"},
			"seatTubeAngleDeg": {"type": "float"},
			"headTubeAngleDeg": {"type": "float"},
			"headTubeLengthMm": {"type": "float"},
			"wheelbaseMm":      {"type": "float"}
		}
	}
}`

type SearchResult struct {
	Frames []models.Frame `json:"frames"`
	Total  int64          `json:"total"`
	TookMs int64          `json:"tookMs"`
}

// Searcher runs full-text frame search against Elasticsearch.
type Searcher struct {
	client  *elasticsearch.Client
	index   string
	maxSize int
}

func NewSearcher(client *elasticsearch.Client, index string, maxSize int) *Searcher {
	if maxSize <= 0 {
		maxSize = 50
	}
	return &Searcher{client: client, index: index, maxSize: maxSize}
}

func (s *Searcher) Index() string {
	return s.index
}

// BuildSearchQuery matches brand (boosted), model and size. An empty query
// lists everything in brand then model order.
func BuildSearchQuery(query string) map[string]interface{} {
	query = strings.TrimSpace(query)
	if query == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{"match_all": map[string]interface{}{}},
			"sort": []interface{}{
				map[string]interface{}{"brand.keyword": "asc"},
				map[string]interface{}{"model.keyword": "asc"},
			},
		}
	}
	return map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"brand^2", "model", "sizeLabel"},
				"type":   "best_fields",
			},
		},
	}
}

// clampPage bounds size to [1, maxSize] (0 means the default) and from to >= 0.
func (s *Searcher) clampPage(from, size int) (int, int) {
	if from < 0 {
		from = 0
	}
	if size <= 0 {
		size = defaultSearchSize
	}
	if size > s.maxSize {
		size = s.maxSize
	}
	return from, size
}

func (s *Searcher) SearchFrames(ctx context.Context, query string, from, size int) (*SearchResult, error) {
	from, size = s.clampPage(from, size)

	body, err := json.Marshal(BuildSearchQuery(query))
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &size,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, s.index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, res.String())
	}

	var parsed struct {
		Took int64 `json:"took"`
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string       `json:"_id"`
				Source models.Frame `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchFailed, err)
	}

	result := &SearchResult{
		Frames: make([]models.Frame, 0, len(parsed.Hits.Hits)),
		Total:  parsed.Hits.Total.Value,
		TookMs: parsed.Took,
	}
	for _, hit := range parsed.Hits.Hits {
		frame := hit.Source
		if frame.ID == "" {
			frame.ID = hit.ID
		}
		result.Frames = append(result.Frames, frame)
	}
	return result, nil
}

// EnsureIndex creates the frame index with its mapping if it is missing.
func (s *Searcher) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", s.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = s.client.Indices.Create(s.index,
		s.client.Indices.Create.WithBody(strings.NewReader(frameIndexMapping)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", s.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", s.index, res.String())
	}
	return nil
}

// IndexFrame writes the frame document under its catalog id.
func (s *Searcher) IndexFrame(ctx context.Context, frame models.Frame) error {
	doc, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	res, err := s.client.Index(s.index, bytes.NewReader(doc),
		s.client.Index.WithDocumentID(frame.ID),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index frame %s: %w", frame.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index frame %s: %s", frame.ID, res.String())
	}
	return nil
}
