package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestElastic(t *testing.T, handler http.HandlerFunc) *ElasticProductIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			// vérification produit faite par le client avant la première requête
			_, _ = w.Write([]byte(`{"version":{"number":"8.19.0","build_flavor":"default"},"tagline":"You Know, for Search"}`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewElasticProductIndex(client)
}

func TestElasticSearch(t *testing.T) {
	var gotBody map[string]any
	idx := newTestElastic(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/products/_search"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		_, _ = w.Write([]byte(`{"hits":{"hits":[
			{"_source":{"productName":"Chair","price":"250","category":"Furniture"}},
			{"_source":{"productName":"Armchair","price":"900","category":"Furniture"}}
		]}}`))
	})

	products, err := idx.Search(context.Background(), "chair")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Chair", products[0].ProductName)
	assert.Equal(t, "900", products[1].Price)

	mm := gotBody["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "chair", mm["query"])
}

func TestElasticSearchMissingIndex(t *testing.T) {
	idx := newTestElastic(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"type":"index_not_found_exception"},"status":404}`))
	})

	products, err := idx.Search(context.Background(), "chair")
	require.NoError(t, err)
	assert.Empty(t, products)
}
