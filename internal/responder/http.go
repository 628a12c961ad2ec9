// internal/responder/http.go
package responder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	stderrors "lease-concierge/internal/common/errors"
	"lease-concierge/internal/common/logger"
)

// HTTPConfig holds the responder API settings.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// HTTPResponder calls an external phrasing API with bounded retries. Any
// error surfaces to the engine, which falls back to deterministic copy.
type HTTPResponder struct {
	config HTTPConfig
	client *http.Client
	logger logger.Logger
}

func NewHTTPResponder(cfg HTTPConfig, log logger.Logger) *HTTPResponder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = stderrors.GetRetryCount(stderrors.ErrCodeResponderFailed)
	}
	return &HTTPResponder{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: log.WithFields(map[string]interface{}{
			"component": "responder",
		}),
	}
}

func (r *HTTPResponder) Reply(ctx context.Context, req *ReplyRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", stderrors.NewResponderFailedError(err)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", stderrors.NewResponderTimeoutError()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.BaseURL+"/v1/replies", bytes.NewReader(body))
		if err != nil {
			return "", stderrors.NewResponderFailedError(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if r.config.APIKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+r.config.APIKey)
		}

		resp, lastErr = r.client.Do(httpReq)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return "", stderrors.NewResponderTimeoutError()
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		return "", stderrors.NewResponderFailedError(lastErr)
	}
	if resp == nil {
		return "", stderrors.NewResponderFailedError(errors.New("no successful response after retries"))
	}
	defer resp.Body.Close()

	var apiResponse struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", stderrors.NewResponderFailedError(fmt.Errorf("decode error: %w", err))
	}
	if apiResponse.Reply == "" {
		return "", stderrors.NewResponderFailedError(errors.New("empty reply"))
	}

	r.logger.Debug("reply phrased", map[string]interface{}{
		"length": len(apiResponse.Reply),
	})
	return apiResponse.Reply, nil
}
