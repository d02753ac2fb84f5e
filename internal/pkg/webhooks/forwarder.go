package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ManuelReschke/PayFox/internal/pkg/config"
)

// Forwarder delivers a reduced payload to the downstream consumer.
type Forwarder interface {
	Forward(ctx context.Context, path string, payload Payload) error
}

// HTTPForwarder posts payloads as JSON below BaseURL.
type HTTPForwarder struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPForwarder(cfg *config.Config) *HTTPForwarder {
	return &HTTPForwarder{
		BaseURL: cfg.DownstreamURL,
		HTTPClient: &http.Client{
			Timeout: cfg.DownstreamTimeout,
		},
	}
}

// Forward returns an error for transport failures and non-2xx responses.
func (f *HTTPForwarder) Forward(ctx context.Context, path string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return fmt.Errorf("downstream %s failed: status=%d body=%s", path, resp.StatusCode, string(msg))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
