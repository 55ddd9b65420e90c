package moderation

import "strings"

type (
	// Attachment is one piece of media on an inbound event, with its declared
	// content type and a retrievable URL.
	Attachment struct {
		ContentType string
		URL         string
	}

	// Event is the platform-neutral view of one inbound chat message.
	Event struct {
		TenantID    int64
		ChannelID   int64
		MessageID   int
		AuthorID    int64
		AuthorName  string
		Content     string
		Attachments []Attachment
	}
)

type route int

const (
	routeNone route = iota
	routeText
	routeImage
)

// routeFor picks the single classification path for an event. An attachment
// short-circuits text classification entirely: image-typed first attachments
// go to the image classifier, any other attachment type is not classified at
// all. Only attachment-free events are evaluated as text.
func routeFor(ev *Event) route {
	if len(ev.Attachments) > 0 {
		if strings.HasPrefix(ev.Attachments[0].ContentType, "image") {
			return routeImage
		}
		return routeNone
	}
	if ev.Content == "" {
		return routeNone
	}
	return routeText
}
