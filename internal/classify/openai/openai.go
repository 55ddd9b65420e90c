package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"github.com/wardenbot/warden/internal/classify"
)

type API struct {
	client *openai.Client
	model  string
	logger *log.Entry
}

// NewOpenAI builds a text provider backed by the OpenAI moderations endpoint.
func NewOpenAI(apiKey, model, baseURL string, logger *log.Entry) classify.TextProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &API{
		client: openai.NewClientWithConfig(config),
		model:  model,
		logger: logger,
	}
}

func (o *API) FlagText(ctx context.Context, content string) (bool, error) {
	resp, err := o.client.Moderations(ctx, openai.ModerationRequest{
		Input: content,
		Model: o.model,
	})
	if err != nil {
		return false, err
	}
	if len(resp.Results) == 0 {
		return false, fmt.Errorf("no moderation results available")
	}
	o.logger.WithField("flagged", resp.Results[0].Flagged).Debug("moderation verdict")
	return resp.Results[0].Flagged, nil
}
