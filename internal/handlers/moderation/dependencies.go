package moderation

import (
	"context"
	"time"
)

// chatOps is the outbound action boundary to the chat platform.
type chatOps interface {
	PostMessage(ctx context.Context, chatID int64, text string) (messageID int, err error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	RestrictUntil(ctx context.Context, chatID, userID int64, until time.Time) error
}

// classifier is the verdict boundary; implementations never error, they
// resolve provider failures to an unsafe verdict themselves.
type classifier interface {
	IsTextSafe(ctx context.Context, content string) bool
	IsImageSafe(ctx context.Context, url string) bool
}
