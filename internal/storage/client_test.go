package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faturadash/internal/config"
)

func testConfig(baseURL string) *config.StorageConfig {
	return &config.StorageConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Bucket:  "celesc-faturas",
	}
}

func TestPublicURLEncodesEachSegment(t *testing.T) {
	c := New(testConfig("https://proj.supabase.co/storage/v1"))

	url := c.PublicURL("resumos/Jane Doe.pdf")
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/celesc-faturas/resumos/Jane%20Doe.pdf", url)
}

func TestListFiltersPlaceholdersAndNonPdfs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/object/list/celesc-faturas", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "test-key", r.Header.Get("apikey"))

		var req map[string]interface{}
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "faturas", req["prefix"])
		assert.EqualValues(t, 1000, req["limit"])

		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"name": "fatura-1.pdf", "metadata": map[string]interface{}{"size": 1234}},
			{"name": "faturas"},
			{"name": ".emptyFolderPlaceholder"},
			{"name": "notes.txt"},
		})
	}))
	defer server.Close()

	files, err := New(testConfig(server.URL)).List(context.Background(), "faturas")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "fatura-1.pdf", files[0].Name)
	assert.EqualValues(t, 1234, files[0].Metadata.Size)
}

func TestListErrorsOnServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := New(testConfig(server.URL)).List(context.Background(), "faturas")
	assert.Error(t, err)
}

func TestSignedURLResolvesRelativePath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/object/sign/celesc-faturas/faturas/a.pdf", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{
			"signedURL": "/object/sign/celesc-faturas/faturas/a.pdf?token=xyz",
		})
	}))
	defer server.Close()

	url, err := New(testConfig(server.URL)).SignedURL(context.Background(), "faturas/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/object/sign/celesc-faturas/faturas/a.pdf?token=xyz", url)
}

func TestOpenFallsBackToDirectFetchWhenSigningFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/object/sign/celesc-faturas/faturas/a.pdf":
			http.Error(w, "signing disabled", http.StatusForbidden)
		case "/object/celesc-faturas/faturas/a.pdf":
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			w.Write([]byte("%PDF-1.4"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	body, err := New(testConfig(server.URL)).Open(context.Background(), "faturas/a.pdf")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestProbeSizeReadsContentLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Content-Length", "2048")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	size := New(testConfig(server.URL)).ProbeSize(context.Background(), fmt.Sprintf("%s/object/public/celesc-faturas/faturas/a.pdf", server.URL))
	assert.EqualValues(t, 2048, size)
}

func TestProbeSizeDefaultsToZeroOnFailure(t *testing.T) {
	c := New(testConfig("http://127.0.0.1:1"))
	assert.EqualValues(t, 0, c.ProbeSize(context.Background(), "http://127.0.0.1:1/missing.pdf"))
}

func TestConfigured(t *testing.T) {
	assert.True(t, New(testConfig("https://proj.supabase.co/storage/v1")).Configured())
	assert.False(t, New(&config.StorageConfig{}).Configured())
}
