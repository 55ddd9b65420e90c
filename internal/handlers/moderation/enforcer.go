package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/wardenbot/warden/internal/db"
	"github.com/wardenbot/warden/internal/observability"
)

const (
	// warnGracePeriod keeps the warning visible before it and the offending
	// message vanish.
	warnGracePeriod = 5 * time.Second
	// imageCooldown spaces out enforcement reactions on the image path.
	imageCooldown = 5 * time.Second
)

const (
	actionAudit      = "audit"
	actionWarnPost   = "warn_post"
	actionWarnDelete = "warn_delete"
	actionDelete     = "delete"
	actionMute       = "mute"
)

// ActionResult records the outcome of one enforcement side effect so that
// swallowed failures stay visible in the logs.
type ActionResult struct {
	Action string
	Err    error
}

type Enforcer interface {
	EnforceText(ctx context.Context, ev *Event, policy *db.Policy) error
	EnforceImage(ctx context.Context, ev *Event, policy *db.Policy) error
}

type defaultEnforcer struct {
	chat   chatOps
	logger *log.Entry

	now   func() time.Time
	sleep func(time.Duration)
}

func NewEnforcer(chat chatOps) *defaultEnforcer {
	return &defaultEnforcer{
		chat:   chat,
		logger: log.WithField("context", "enforcer"),
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// EnforceText runs the text remediation sequence in strict order: audit,
// warning post, grace delay, warning delete, original delete, then the
// optional timed mute. Post and delete failures are swallowed; a mute failure
// aborts the event.
func (e *defaultEnforcer) EnforceText(ctx context.Context, ev *Event, policy *db.Policy) error {
	results := make([]ActionResult, 0, 5)

	if policy.LogsChannelID != nil {
		_, err := e.chat.PostMessage(ctx, *policy.LogsChannelID,
			fmt.Sprintf("Deleted unsafe message: %d with content: %s", ev.MessageID, ev.Content))
		results = e.record(results, actionAudit, err)
	}

	warningID, err := e.chat.PostMessage(ctx, ev.ChannelID,
		fmt.Sprintf("Hey! Don't use that language, %s!", ev.AuthorName))
	results = e.record(results, actionWarnPost, err)

	e.sleep(warnGracePeriod)

	if err == nil {
		results = e.record(results, actionWarnDelete, e.chat.DeleteMessage(ctx, ev.ChannelID, warningID))
	}
	results = e.record(results, actionDelete, e.chat.DeleteMessage(ctx, ev.ChannelID, ev.MessageID))

	if policy.MuteEnabled {
		until := e.now().Add(policy.ParsedMuteDuration())
		if err := e.chat.RestrictUntil(ctx, ev.ChannelID, ev.AuthorID, until); err != nil {
			results = e.record(results, actionMute, err)
			e.logResults(ev, results)
			return errors.WithMessage(err, "cant mute author")
		}
		results = e.record(results, actionMute, nil)
	}

	e.logResults(ev, results)
	e.logger.WithField("message", ev.MessageID).Info("deleted unsafe message")
	return nil
}

// EnforceImage is strictly audit then delete, followed by a fixed cooldown
// pause. No warning, no mute.
func (e *defaultEnforcer) EnforceImage(ctx context.Context, ev *Event, policy *db.Policy) error {
	results := make([]ActionResult, 0, 2)

	if policy.LogsChannelID != nil {
		_, err := e.chat.PostMessage(ctx, *policy.LogsChannelID,
			fmt.Sprintf("Deleted unsafe image message: %d", ev.MessageID))
		results = e.record(results, actionAudit, err)
	}

	results = e.record(results, actionDelete, e.chat.DeleteMessage(ctx, ev.ChannelID, ev.MessageID))
	e.logResults(ev, results)
	e.logger.WithField("message", ev.MessageID).Info("deleted unsafe image message")

	e.sleep(imageCooldown)
	return nil
}

func (e *defaultEnforcer) record(results []ActionResult, action string, err error) []ActionResult {
	observability.RecordEnforcementAction(action, err)
	return append(results, ActionResult{Action: action, Err: err})
}

func (e *defaultEnforcer) logResults(ev *Event, results []ActionResult) {
	entry := e.logger.WithFields(log.Fields{
		"tenant":  ev.TenantID,
		"message": ev.MessageID,
	})
	for _, result := range results {
		if result.Err != nil {
			entry.WithError(result.Err).Warnf("enforcement action %s failed", result.Action)
		}
	}
}
