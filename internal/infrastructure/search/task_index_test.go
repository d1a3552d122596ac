package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/task-manager-api/internal/domain/entity"
)

type recorded struct {
	method, path string
	body         map[string]any
}

// fakeES answers every request with status and body and records what it saw.
type fakeES struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	body     string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{method: r.Method, path: r.URL.Path, body: body})
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = io.WriteString(w, f.body)
}

func (f *fakeES) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newIndex(t *testing.T, f *fakeES) *TaskIndex {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewTaskIndex(es, "tasks")
}

func TestTaskIndexIndex(t *testing.T) {
	f := &fakeES{status: http.StatusCreated, body: `{"result":"created"}`}
	x := newIndex(t, f)

	require.NoError(t, x.Index(context.Background(), &entity.Task{ID: "t1", Description: "Buy milk", Owner: "u1"}))
	req := f.last()
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/tasks/_doc/t1", req.path)
	assert.Equal(t, "u1", req.body["owner_id"])
	assert.Equal(t, "Buy milk", req.body["description"])
}

func TestTaskIndexSearch(t *testing.T) {
	f := &fakeES{status: http.StatusOK, body: `{"hits":{"hits":[{"_id":"t2"},{"_id":"t1"}]}}`}
	x := newIndex(t, f)

	ids, err := x.Search(context.Background(), "u1", "milk", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t1"}, ids)

	req := f.last()
	assert.Equal(t, "/tasks/_search", req.path)
	assert.EqualValues(t, 5, req.body["size"])
	filter := req.body["query"].(map[string]any)["bool"].(map[string]any)["filter"]
	assert.Equal(t, map[string]any{"term": map[string]any{"owner_id": "u1"}}, filter)
}

func TestTaskIndexErrors(t *testing.T) {
	f := &fakeES{status: http.StatusInternalServerError, body: `{}`}
	x := newIndex(t, f)

	_, err := x.Search(context.Background(), "u1", "milk", 5)
	assert.Error(t, err)
	assert.Error(t, x.Index(context.Background(), &entity.Task{ID: "t1"}))
}

func TestTaskIndexDeleteMissingIsFine(t *testing.T) {
	f := &fakeES{status: http.StatusNotFound, body: `{"result":"not_found"}`}
	x := newIndex(t, f)

	assert.NoError(t, x.Delete(context.Background(), "t1"))
	assert.Equal(t, http.MethodDelete, f.last().method)
	assert.NoError(t, x.DeleteByOwner(context.Background(), "u1"))
	assert.Equal(t, "/tasks/_delete_by_query", f.last().path)
}

func TestEnsureIndexCreatesWhenMissing(t *testing.T) {
	f := &fakeES{status: http.StatusNotFound, body: `{}`}
	x := newIndex(t, f)

	// HEAD says missing, then the create also returns 404 which is reported
	err := x.EnsureIndex(context.Background())
	assert.Error(t, err)
	assert.Equal(t, http.MethodPut, f.last().method)
	assert.Equal(t, "/tasks", f.last().path)
}

func TestTaskIndexUsesConfiguredName(t *testing.T) {
	f := &fakeES{status: http.StatusOK, body: `{"result":"deleted"}`}
	x := newIndex(t, f)
	x.Name = "tasks-v2"

	require.NoError(t, x.Index(context.Background(), &entity.Task{ID: "t1", Description: "a", Owner: "u1"}))
	assert.Equal(t, "/tasks-v2/_doc/t1", f.last().path)
	require.NoError(t, x.Delete(context.Background(), "t1"))
	assert.Equal(t, "/tasks-v2/_doc/t1", f.last().path)
}
