package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cockpit-fit-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Body   map[string]interface{}
}

func newTestSearcher(t *testing.T, maxSize int, handler func(w http.ResponseWriter, r *http.Request)) (*Searcher, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := capturedRequest{Method: r.Method, Path: r.URL.Path, Query: map[string]string{}}
		for k := range r.URL.Query() {
			req.Query[k] = r.URL.Query().Get(k)
		}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &req.Body)
		}
		captured = append(captured, req)

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewSearcher(client, "frames", maxSize), &captured
}

func TestBuildSearchQuery(t *testing.T) {
	all := BuildSearchQuery("   ")
	assert.Contains(t, all["query"], "match_all")
	assert.Len(t, all["sort"], 2)

	q := BuildSearchQuery(" tarmac ")
	mm := q["query"].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "tarmac", mm["query"])
	assert.Equal(t, []string{"brand^2", "model", "sizeLabel"}, mm["fields"])
	assert.NotContains(t, q, "sort")
}

func TestSearcher_ClampPage(t *testing.T) {
	s := NewSearcher(nil, "frames", 50)

	tests := []struct {
		from, size         int
		wantFrom, wantSize int
	}{
		{0, 0, 0, 20},
		{-5, 10, 0, 10},
		{40, 100, 40, 50},
		{10, 50, 10, 50},
	}
	for _, tt := range tests {
		from, size := s.clampPage(tt.from, tt.size)
		assert.Equal(t, tt.wantFrom, from)
		assert.Equal(t, tt.wantSize, size)
	}

	assert.Equal(t, 50, NewSearcher(nil, "frames", 0).maxSize)
}

func TestSearcher_SearchFrames(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		response       string
		expectedError  error
		validateOutput func(t *testing.T, res *SearchResult, reqs []capturedRequest)
	}{
		{
			name:   "hits",
			status: http.StatusOK,
			response: `{"took": 3, "hits": {"total": {"value": 2, "relation": "eq"}, "hits": [
				{"_id": "f-1", "_source": {"id": "f-1", "brand": "Specialized", "model": "Tarmac SL7", "sizeLabel": "54", "stackMm": 552, "reachMm": 383}},
				{"_id": "f-2", "_source": {"brand": "Specialized", "model": "Tarmac SL7", "sizeLabel": "56", "stackMm": 571, "reachMm": 390}}
			]}}`,
			validateOutput: func(t *testing.T, res *SearchResult, reqs []capturedRequest) {
				assert.Equal(t, int64(2), res.Total)
				assert.Equal(t, int64(3), res.TookMs)
				require.Len(t, res.Frames, 2)
				assert.Equal(t, "f-2", res.Frames[1].ID)
				assert.Equal(t, 571.0, res.Frames[1].StackMm)

				require.Len(t, reqs, 1)
				assert.Equal(t, "/frames/_search", reqs[0].Path)
				assert.Equal(t, "10", reqs[0].Query["from"])
				assert.Equal(t, "50", reqs[0].Query["size"])
				assert.Contains(t, reqs[0].Body["query"], "multi_match")
			},
		},
		{
			name:     "no hits",
			status:   http.StatusOK,
			response: `{"took": 1, "hits": {"total": {"value": 0}, "hits": []}}`,
			validateOutput: func(t *testing.T, res *SearchResult, _ []capturedRequest) {
				assert.NotNil(t, res.Frames)
				assert.Empty(t, res.Frames)
			},
		},
		{
			name:          "missing index",
			status:        http.StatusNotFound,
			response:      `{"error": {"type": "index_not_found_exception"}, "status": 404}`,
			expectedError: ErrIndexNotFound,
		},
		{
			name:          "bad request",
			status:        http.StatusBadRequest,
			response:      `{"error": {"type": "parsing_exception"}, "status": 400}`,
			expectedError: ErrSearchFailed,
		},
		{
			name:          "garbage body",
			status:        http.StatusOK,
			response:      `not json`,
			expectedError: ErrSearchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, reqs := newTestSearcher(t, 50, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.response))
			})

			res, err := s.SearchFrames(context.Background(), "tarmac", 10, 100)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			tt.validateOutput(t, res, *reqs)
		})
	}
}

func TestSearcher_EnsureIndex(t *testing.T) {
	t.Run("already exists", func(t *testing.T) {
		s, reqs := newTestSearcher(t, 50, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		require.NoError(t, s.EnsureIndex(context.Background()))
		require.Len(t, *reqs, 1)
		assert.Equal(t, http.MethodHead, (*reqs)[0].Method)
	})

	t.Run("created with mapping", func(t *testing.T) {
		s, reqs := newTestSearcher(t, 50, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(`{"acknowledged": true}`))
		})

		require.NoError(t, s.EnsureIndex(context.Background()))
		require.Len(t, *reqs, 2)
		create := (*reqs)[1]
		assert.Equal(t, http.MethodPut, create.Method)
		assert.Equal(t, "/frames", create.Path)
		assert.Contains(t, create.Body, "mappings")
	})
}

func TestSearcher_IndexFrame(t *testing.T) {
	s, reqs := newTestSearcher(t, 50, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result": "created"}`))
	})

	err := s.IndexFrame(context.Background(), models.Frame{ID: "f-7", Brand: "BMC", Model: "Roadmachine", SizeLabel: "54", StackMm: 560, ReachMm: 381})
	require.NoError(t, err)

	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodPut, (*reqs)[0].Method)
	assert.Equal(t, "/frames/_doc/f-7", (*reqs)[0].Path)
	assert.Equal(t, "BMC", (*reqs)[0].Body["brand"])
	assert.Equal(t, "54", (*reqs)[0].Body["sizeLabel"])
}
