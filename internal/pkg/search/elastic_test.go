package search

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at a stub cluster answering every request with status and body.
func newTestClient(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &Client{es: es}
}

func TestCreateIndex(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"created", http.StatusOK, `{"acknowledged":true,"index":"products"}`, false},
		{"already exists", http.StatusBadRequest, `{"error":{"type":"resource_already_exists_exception","reason":"index [products] already exists"},"status":400}`, false},
		{"bad mapping", http.StatusBadRequest, `{"error":{"type":"mapper_parsing_exception","reason":"No handler for type [money]"},"status":400}`, true},
		{"unparsable 400", http.StatusBadRequest, `bad request`, true},
		{"server error", http.StatusInternalServerError, `{"error":{"type":"exception"}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.status, tt.body)

			err := c.CreateIndex(context.Background(), "products", `{}`)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCreateIndex_BadMappingKeepsReason(t *testing.T) {
	c := newTestClient(t, http.StatusBadRequest, `{"error":{"type":"mapper_parsing_exception","reason":"No handler for type [money]"}}`)

	err := c.CreateIndex(context.Background(), "products", `{}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
}
