package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/wardenbot/warden/internal/classify"
)

const DefaultModel = "gemini-2.5-flash-lite"

const moderationInstruction = "You are a chat content moderation system. " +
	"Analyze the following message and respond with true if it violates common community " +
	"guidelines (harassment, hate, sexual content, violence, self-harm), false otherwise. " +
	"Respond with a single word."

type API struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *log.Entry
}

// NewGemini builds a text provider that asks a Gemini model for a strict
// true/false moderation verdict.
func NewGemini(apiKey, model string, logger *log.Entry) (classify.TextProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	api := &API{
		client: client,
		model:  client.GenerativeModel(model),
		logger: logger,
	}
	api.model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(moderationInstruction)},
	}
	api.model.SetTemperature(0)
	api.model.ResponseMIMEType = "text/plain"
	return api, nil
}

func (g *API) FlagText(ctx context.Context, content string) (bool, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(content))
	if err != nil {
		return false, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return false, fmt.Errorf("no response candidates available")
	}

	answer := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		answer += fmt.Sprintf("%v", part)
	}
	flagged := strings.ToLower(strings.TrimSpace(answer)) == "true"
	g.logger.WithField("flagged", flagged).Debug("moderation verdict")
	return flagged, nil
}
