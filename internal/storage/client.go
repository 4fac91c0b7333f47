package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"faturadash/internal/config"
	"faturadash/internal/pkg/httpclient"
)

// Object is a bucket listing entry. Names are relative to the listed
// folder prefix; metadata mirrors what Supabase Storage reports.
type Object struct {
	Name      string         `json:"name"`
	ID        string         `json:"id"`
	CreatedAt string         `json:"created_at"`
	Metadata  ObjectMetadata `json:"metadata"`
}

type ObjectMetadata struct {
	Size     int64  `json:"size"`
	Mimetype string `json:"mimetype"`
}

// Client talks to the Supabase Storage REST API for a single bucket.
type Client struct {
	base   string
	apiKey string
	bucket string
	http   *httpclient.Client
	probe  *httpclient.Client
}

func New(cfg *config.StorageConfig) *Client {
	return &Client{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey: cfg.APIKey,
		bucket: cfg.Bucket,
		http: httpclient.New().
			WithTimeout(10 * time.Second).
			WithNoRetry().
			WithBearerToken(cfg.APIKey).
			WithHeader("apikey", cfg.APIKey),
		probe: httpclient.New().WithTimeout(5 * time.Second).WithNoRetry(),
	}
}

// Configured reports whether storage credentials are present. Loops that
// need the bucket disable themselves when this is false.
func (c *Client) Configured() bool {
	return c.base != "" && c.apiKey != ""
}

// List returns the PDF entries under a folder prefix, newest first,
// excluding the folder placeholder itself.
func (c *Client) List(ctx context.Context, folder string) ([]Object, error) {
	body := map[string]interface{}{
		"limit":  1000,
		"offset": 0,
		"sortBy": map[string]string{"column": "created_at", "order": "desc"},
		"prefix": folder,
	}

	var objects []Object
	resp, err := c.http.Request().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&objects).
		Post(c.base + "/object/list/" + c.bucket)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", folder, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("list %s: storage returned %s", folder, resp.Status())
	}

	files := make([]Object, 0, len(objects))
	for _, obj := range objects {
		if obj.Name == "" || obj.Name == folder || !strings.HasSuffix(obj.Name, ".pdf") {
			continue
		}
		files = append(files, obj)
	}
	return files, nil
}

// PublicURL derives the public object URL for a bucket-relative key.
// Each path segment is encoded independently so spaces and special
// characters never corrupt the separators.
func (c *Client) PublicURL(key string) string {
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return c.base + "/object/public/" + c.bucket + "/" + strings.Join(segments, "/")
}

// SignedURL requests a short-lived signed URL for a bucket-relative key.
func (c *Client) SignedURL(ctx context.Context, key string) (string, error) {
	var result struct {
		SignedURL string `json:"signedURL"`
	}
	resp, err := c.http.Request().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{}).
		SetResult(&result).
		Post(c.base + "/object/sign/" + c.bucket + "/" + strings.TrimLeft(key, "/"))
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", key, err)
	}
	if !resp.IsSuccess() || result.SignedURL == "" {
		return "", fmt.Errorf("sign %s: storage returned %s", key, resp.Status())
	}
	if strings.HasPrefix(result.SignedURL, "http://") || strings.HasPrefix(result.SignedURL, "https://") {
		return result.SignedURL, nil
	}
	return c.base + "/" + strings.TrimLeft(result.SignedURL, "/"), nil
}

// Open streams the object for a bucket-relative key. It fetches via a
// signed URL first and falls back to the authenticated object endpoint
// when signing fails.
func (c *Client) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	signed, signErr := c.SignedURL(ctx, key)
	if signErr == nil {
		body, err := c.fetchStream(ctx, signed)
		if err == nil {
			return body, nil
		}
		signErr = err
	}

	direct := c.base + "/object/" + c.bucket + "/" + strings.TrimLeft(key, "/")
	body, err := c.fetchStream(ctx, direct)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: signed %v, direct %w", key, signErr, err)
	}
	return body, nil
}

func (c *Client) fetchStream(ctx context.Context, fetchURL string) (io.ReadCloser, error) {
	resp, err := c.http.Request().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(fetchURL)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		resp.RawBody().Close()
		return nil, fmt.Errorf("storage returned %s", resp.Status())
	}
	return resp.RawBody(), nil
}

// ProbeSize resolves an object's size with a HEAD request against its
// public URL, returning 0 when the size cannot be determined.
func (c *Client) ProbeSize(ctx context.Context, publicURL string) int64 {
	resp, err := c.probe.Request().SetContext(ctx).Head(publicURL)
	if err != nil || !resp.IsSuccess() {
		return 0
	}
	size, err := strconv.ParseInt(resp.Header().Get("Content-Length"), 10, 64)
	if err != nil {
		return 0
	}
	return size
}
