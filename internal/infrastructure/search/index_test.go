package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-social/internal/domain/entity"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
	status   int
	body     string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(b))
	status, body := f.status, f.body
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if body == "" {
		body = `{}`
	}
	_, _ = io.WriteString(w, body)
}

func newIndex(t *testing.T, f *fakeES) *Index {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewIndex(es, "users", "groups")
}

func TestIndexUserPutsDocument(t *testing.T) {
	f := &fakeES{status: http.StatusCreated}
	x := newIndex(t, f)

	err := x.IndexUser(context.Background(), &entity.User{ID: "u1", Email: "a@test.io", Name: "Ann"})
	require.NoError(t, err)
	require.Len(t, f.requests, 1)
	assert.Equal(t, "PUT /users/_doc/u1", f.requests[0])

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.bodies[0]), &doc))
	assert.Equal(t, "Ann", doc["name"])
	_, hasPassword := doc["password"]
	assert.False(t, hasPassword)
}

func TestSearchGroupsReturnsSources(t *testing.T) {
	f := &fakeES{body: `{"hits":{"hits":[{"_id":"g1","_source":{"id":"g1","name":"Runners"}}]}}`}
	x := newIndex(t, f)

	got, err := x.SearchGroups(context.Background(), "run", 500)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Runners", got[0]["name"])

	assert.Equal(t, "POST /groups/_search", f.requests[0])
	assert.True(t, strings.Contains(f.bodies[0], `"size":10`))
}

func TestSearchErrorStatus(t *testing.T) {
	x := newIndex(t, &fakeES{status: http.StatusInternalServerError})
	_, err := x.SearchUsers(context.Background(), "a", 5)
	assert.Error(t, err)
}

func TestDeleteUserIgnoresMissingDocument(t *testing.T) {
	x := newIndex(t, &fakeES{status: http.StatusNotFound, body: `{"result":"not_found"}`})
	assert.NoError(t, x.DeleteUser(context.Background(), "gone"))
}
