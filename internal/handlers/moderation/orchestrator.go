package moderation

import (
	"context"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/wardenbot/warden/internal/bot"
	"github.com/wardenbot/warden/internal/observability"
)

// Moderator is the per-event coordinator: it loads the tenant policy, routes
// the event to the right classifier and hands unsafe verdicts to the
// enforcer.
type Moderator struct {
	s        bot.Service
	gateway  classifier
	enforcer Enforcer
	logger   *log.Entry

	fileURL func(fileID string) (string, error)
}

func NewModerator(s bot.Service, gateway classifier, enforcer Enforcer) *Moderator {
	return &Moderator{
		s:        s,
		gateway:  gateway,
		enforcer: enforcer,
		logger:   log.WithField("context", "moderator"),
		fileURL:  s.GetBot().GetFileDirectURL,
	}
}

func (m *Moderator) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (bool, error) {
	if u.Message == nil || user == nil || user.IsBot {
		return true, nil
	}
	if chat == nil {
		m.logger.WithField("message", u.Message.MessageID).Debug("no tenant context, skipping")
		return true, nil
	}
	if !chat.IsGroup() && !chat.IsSuperGroup() {
		return true, nil
	}

	ev := m.eventFromMessage(chat, user, u.Message)
	policy := m.s.GetPolicy(ctx, ev.TenantID)

	switch routeFor(ev) {
	case routeImage:
		defer observability.StartEventProcessing("image")()
		if m.gateway.IsImageSafe(ctx, ev.Attachments[0].URL) {
			return true, nil
		}
		return false, errors.WithMessage(m.enforcer.EnforceImage(ctx, ev, policy), "image enforcement")
	case routeText:
		defer observability.StartEventProcessing("text")()
		if m.gateway.IsTextSafe(ctx, ev.Content) {
			return true, nil
		}
		return false, errors.WithMessage(m.enforcer.EnforceText(ctx, ev, policy), "text enforcement")
	default:
		return true, nil
	}
}

// eventFromMessage flattens a Telegram message into the platform-neutral
// event shape. For photos the largest size is used; a failed file URL
// resolution leaves the URL empty, which the fail-closed gateway treats as
// unsafe rather than skipping moderation.
func (m *Moderator) eventFromMessage(chat *api.Chat, user *api.User, msg *api.Message) *Event {
	ev := &Event{
		TenantID:   chat.ID,
		ChannelID:  chat.ID,
		MessageID:  msg.MessageID,
		AuthorID:   user.ID,
		AuthorName: bot.GetUN(user),
		Content:    bot.ExtractContentFromMessage(msg),
	}

	switch {
	case len(msg.Photo) > 0:
		largest := msg.Photo[len(msg.Photo)-1]
		ev.Attachments = append(ev.Attachments, Attachment{
			ContentType: "image/jpeg",
			URL:         m.resolveFileURL(largest.FileID),
		})
	case msg.Document != nil:
		ev.Attachments = append(ev.Attachments, Attachment{
			ContentType: msg.Document.MimeType,
			URL:         m.resolveFileURL(msg.Document.FileID),
		})
	}
	return ev
}

func (m *Moderator) resolveFileURL(fileID string) string {
	url, err := m.fileURL(fileID)
	if err != nil {
		m.logger.WithError(err).WithField("file", fileID).Error("cant resolve file url")
		return ""
	}
	return url
}
