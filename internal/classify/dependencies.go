package classify

import "context"

// TextProvider is an opaque scoring oracle for message text. It reports
// whether the content was flagged; transport and scoring details stay behind
// the adapter.
type TextProvider interface {
	FlagText(ctx context.Context, content string) (flagged bool, err error)
}

// ImageProvider is an opaque scoring oracle for image URLs.
type ImageProvider interface {
	FlagImage(ctx context.Context, url string) (flagged bool, err error)
}
