package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

// RelayResult is what the upstream automation platform answered: its
// status code plus the response body, JSON-parsed when possible.
type RelayResult struct {
	StatusCode int `json:"status"`
	Body       any `json:"body"`
}

// Accepted reports whether the upstream acknowledged the payload. The
// platform is opaque beyond "2xx = accepted".
func (r *RelayResult) Accepted() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type WebhookRelayInterface interface {
	Forward(ctx context.Context, url string, payload any) (*RelayResult, error)
}

// WebhookRelay posts payloads to automation webhooks. It never retries:
// callers own the retry policy, and the dispatcher deliberately has none.
type WebhookRelay struct {
	client *retryablehttp.Client
}

func NewWebhookRelay() *WebhookRelay {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil
	// Any received response is handed back to the caller, upstream
	// errors included; the default policy would eat 5xx responses.
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		return err != nil, nil
	}
	return &WebhookRelay{client: client}
}

// Forward posts the payload as JSON and returns whatever the upstream
// answered. An error means the transport itself failed (DNS, connection,
// timeout); any received response, success or not, comes back as a result.
func (r *WebhookRelay) Forward(ctx context.Context, url string, payload any) (*RelayResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode webhook payload")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "webhook request to %s failed", url)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read webhook response")
	}

	result := &RelayResult{StatusCode: resp.StatusCode}
	var parsed any
	if len(raw) > 0 && json.Unmarshal(raw, &parsed) == nil {
		result.Body = parsed
	} else {
		result.Body = string(raw)
	}
	return result, nil
}

var _ WebhookRelayInterface = (*WebhookRelay)(nil)
