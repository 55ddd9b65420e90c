package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

const imageHTTPTimeout = 10 * time.Second

type imageProvider struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *log.Entry
}

// NewImageProvider builds the bearer-authenticated image scoring client.
// The endpoint is expected to accept {"url": ...} and answer {"is_safe": bool}.
func NewImageProvider(endpoint, apiKey string) ImageProvider {
	return &imageProvider{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: imageHTTPTimeout},
		logger:     log.WithField("context", "image_provider"),
	}
}

func (p *imageProvider) FlagImage(ctx context.Context, url string) (bool, error) {
	payload, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return false, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("image moderation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("image moderation status: %s", resp.Status)
	}

	var body struct {
		IsSafe *bool `json:"is_safe"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	if body.IsSafe == nil {
		return false, fmt.Errorf("response misses is_safe field")
	}
	return !*body.IsSafe, nil
}
