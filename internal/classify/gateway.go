package classify

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/wardenbot/warden/internal/observability"
)

// Gateway fronts both classifiers and owns the fail-closed contract: any
// provider failure resolves to "unsafe" so moderation never silently no-ops
// during an outage. One attempt per event, no retries.
type Gateway struct {
	text   TextProvider
	image  ImageProvider
	logger *log.Entry
}

func NewGateway(text TextProvider, image ImageProvider) *Gateway {
	return &Gateway{
		text:   text,
		image:  image,
		logger: log.WithField("context", "classify"),
	}
}

func (g *Gateway) IsTextSafe(ctx context.Context, content string) bool {
	flagged, err := g.text.FlagText(ctx, content)
	if err != nil {
		g.logger.WithError(err).Error("text classification failed, treating as unsafe")
		observability.RecordClassification("text", "error")
		return false
	}
	if flagged {
		observability.RecordClassification("text", "unsafe")
		return false
	}
	observability.RecordClassification("text", "safe")
	return true
}

func (g *Gateway) IsImageSafe(ctx context.Context, url string) bool {
	flagged, err := g.image.FlagImage(ctx, url)
	if err != nil {
		g.logger.WithError(err).Error("image classification failed, treating as unsafe")
		observability.RecordClassification("image", "error")
		return false
	}
	if flagged {
		observability.RecordClassification("image", "unsafe")
		return false
	}
	observability.RecordClassification("image", "safe")
	return true
}
