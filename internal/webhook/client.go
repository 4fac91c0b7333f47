package webhook

import (
	"context"
	"fmt"

	"faturadash/internal/config"
	"faturadash/internal/pkg/httpclient"
)

// Client submits invoice requests to the n8n automation webhook.
// Fire-and-forget: callers get the raw response body or an error, nothing
// is retried here.
type Client struct {
	url  string
	http *httpclient.Client
}

func New(cfg *config.WebhookConfig) *Client {
	return &Client{
		url:  cfg.URL,
		http: httpclient.New().WithTimeout(cfg.Timeout).WithNoRetry(),
	}
}

type submitPayload struct {
	UC        string `json:"uc"`
	CpfCnpj   string `json:"cpfCnpj"`
	BirthDate string `json:"birthDate"`
}

// Submit posts the consumer-unit request to the automation endpoint.
// Network failures, timeouts, and non-2xx statuses are errors.
func (c *Client) Submit(ctx context.Context, uc, cpfCnpj, birthDate string) ([]byte, error) {
	resp, err := c.http.Request().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(submitPayload{UC: uc, CpfCnpj: cpfCnpj, BirthDate: birthDate}).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return resp.Body(), fmt.Errorf("webhook returned %s", resp.Status())
	}
	return resp.Body(), nil
}
