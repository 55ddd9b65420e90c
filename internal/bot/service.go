package bot

import (
	"context"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/wardenbot/warden/internal/db"
)

type service struct {
	bot    *api.BotAPI
	db     db.Client
	logger *log.Entry
}

func NewService(bot *api.BotAPI, dbClient db.Client) *service {
	return &service{
		bot:    bot,
		db:     dbClient,
		logger: log.WithField("context", "service"),
	}
}

func (s *service) GetBot() *api.BotAPI {
	return s.bot
}

func (s *service) GetDB() db.Client {
	return s.db
}

// GetPolicy loads the tenant's policy, resolving both a missing record and a
// store read failure to the canonical default. The moderation path never sees
// a store error.
func (s *service) GetPolicy(ctx context.Context, tenantID int64) *db.Policy {
	policy, err := s.db.GetPolicy(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			s.logger.WithError(err).WithField("tenant", tenantID).Error("cant load policy, using default")
		}
		return db.DefaultPolicy(tenantID)
	}
	return policy
}

func (s *service) SetPolicy(ctx context.Context, policy *db.Policy) error {
	return errors.WithMessage(s.db.UpsertPolicy(ctx, policy), "cant persist policy")
}
