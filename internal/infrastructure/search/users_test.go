package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/mesto-api/internal/domain/entity"
)

type roundTrip func(*http.Request) *http.Response

func (f roundTrip) RoundTrip(r *http.Request) (*http.Response, error) { return f(r), nil }

func reply(status int, body string) *http.Response {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("X-Elastic-Product", "Elasticsearch")
	return &http.Response{StatusCode: status, Header: h, Body: io.NopCloser(strings.NewReader(body))}
}

func newIndex(t *testing.T, fn roundTrip) *UserIndex {
	t.Helper()
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: fn,
	})
	require.NoError(t, err)
	return NewUserIndex(es, "users")
}

func TestUserIndex_Index(t *testing.T) {
	var path string
	var doc map[string]any
	x := newIndex(t, func(r *http.Request) *http.Response {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&doc)
		return reply(http.StatusCreated, `{"result":"created"}`)
	})

	err := x.Index(context.Background(), &entity.User{ID: "u1", Email: "a@b.com", Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "/users/_doc/u1", path)
	assert.Equal(t, "Ann", doc["name"])
	assert.NotContains(t, doc, "password")
}

func TestUserIndex_Search(t *testing.T) {
	var query map[string]any
	x := newIndex(t, func(r *http.Request) *http.Response {
		_ = json.NewDecoder(r.Body).Decode(&query)
		return reply(http.StatusOK, `{"hits":{"hits":[{"_id":"u2"},{"_id":"u1"}]}}`)
	})

	ids, err := x.Search(context.Background(), "ann", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2", "u1"}, ids)
	assert.EqualValues(t, 5, query["size"])
}

func TestUserIndex_Errors(t *testing.T) {
	x := newIndex(t, func(r *http.Request) *http.Response {
		return reply(http.StatusNotFound, `{"result":"not_found"}`)
	})
	assert.NoError(t, x.Remove(context.Background(), "u1"))

	_, err := x.Search(context.Background(), "ann", 5)
	assert.Error(t, err)
}

func TestUserIndex_EnsureIndex(t *testing.T) {
	var calls []string
	x := newIndex(t, func(r *http.Request) *http.Response {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodHead {
			return reply(http.StatusNotFound, ``)
		}
		return reply(http.StatusOK, `{"acknowledged":true}`)
	})

	require.NoError(t, x.EnsureIndex(context.Background()))
	assert.Equal(t, []string{"HEAD /users", "PUT /users"}, calls)
}

func TestUserIndex_EnsureIndexExisting(t *testing.T) {
	calls := 0
	x := newIndex(t, func(r *http.Request) *http.Response {
		calls++
		return reply(http.StatusOK, ``)
	})

	require.NoError(t, x.EnsureIndex(context.Background()))
	assert.Equal(t, 1, calls)
}
