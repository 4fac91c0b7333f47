package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faturadash/internal/config"
)

func newTestClient(url string) *Client {
	return New(&config.WebhookConfig{URL: url, Timeout: 5 * time.Second})
}

func TestSubmitPostsJSONPayload(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		w.Write([]byte(`{"status":"queued"}`))
	}))
	defer server.Close()

	body, err := newTestClient(server.URL).Submit(context.Background(), "1234567", "12345678901", "01/02/1990")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"queued"}`, string(body))
	assert.Equal(t, "1234567", received["uc"])
	assert.Equal(t, "12345678901", received["cpfCnpj"])
	assert.Equal(t, "01/02/1990", received["birthDate"])
}

func TestSubmitErrorsOnNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Submit(context.Background(), "1234567", "12345678901", "01/02/1990")
	assert.Error(t, err)
}

func TestSubmitErrorsOnNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestClient(server.URL).Submit(context.Background(), "1234567", "12345678901", "01/02/1990")
	assert.Error(t, err)
}
