package moderation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	api "github.com/OvyFlash/telegram-bot-api"
	log "github.com/sirupsen/logrus"

	"github.com/wardenbot/warden/internal/bot"
	"github.com/wardenbot/warden/internal/db"
)

// PolicyCommands is the operator-facing mutation boundary: chat-admin-gated
// commands that tweak one policy field at a time and persist via upsert.
type PolicyCommands struct {
	s      bot.Service
	logger *log.Entry
}

func NewPolicyCommands(s bot.Service) *PolicyCommands {
	return &PolicyCommands{
		s:      s,
		logger: log.WithField("context", "policy_commands"),
	}
}

var policyCommandSet = map[string]struct{}{
	"policy":         {},
	"setwarnings":    {},
	"setmutetime":    {},
	"setmuteenabled": {},
	"usewarnings":    {},
	"setsensitivity": {},
	"setlogschannel": {},
}

func (p *PolicyCommands) Handle(ctx context.Context, u *api.Update, chat *api.Chat, user *api.User) (bool, error) {
	if chat == nil || user == nil {
		return true, nil
	}
	if u.Message == nil || user.IsBot || !u.Message.IsCommand() {
		return true, nil
	}
	m := u.Message
	command := m.Command()
	if _, ok := policyCommandSet[command]; !ok {
		return true, nil
	}

	b := p.s.GetBot()
	isAdmin, err := p.isAdmin(chat.ID, user.ID)
	if err != nil {
		p.logger.WithError(err).Error("cant check admin rights")
		return false, nil
	}
	if !isAdmin {
		p.logger.WithField("user", user.ID).Trace("not admin")
		return false, nil
	}

	policy := p.s.GetPolicy(ctx, chat.ID)

	if command == "policy" {
		_, _ = b.Send(api.NewMessage(chat.ID, describePolicy(policy)))
		return false, nil
	}

	reply, err := applyPolicyCommand(policy, command, strings.TrimSpace(m.CommandArguments()))
	if err != nil {
		_, _ = b.Send(api.NewMessage(chat.ID, err.Error()))
		return false, nil
	}

	if err := p.s.SetPolicy(ctx, policy); err != nil {
		p.logger.WithError(err).Error("cant persist policy")
		_, _ = b.Send(api.NewMessage(chat.ID, "Failed to save settings, try again later"))
		return false, nil
	}

	_, _ = b.Send(api.NewMessage(chat.ID, reply))
	return false, nil
}

// applyPolicyCommand mutates a single policy field. Sensitivity is validated
// to [0,1] inclusive here, at the mutation boundary; mute durations are
// stored as given and validated at enforcement time with a fallback.
func applyPolicyCommand(policy *db.Policy, command, arg string) (string, error) {
	switch command {
	case "setwarnings":
		warnings, err := strconv.Atoi(arg)
		if err != nil {
			return "", fmt.Errorf("Warnings must be an integer")
		}
		policy.WarningThreshold = warnings
		return fmt.Sprintf("Warnings set to: %d", warnings), nil

	case "setmutetime":
		if arg == "" {
			return "", fmt.Errorf("Mute time must not be empty")
		}
		policy.MuteDuration = arg
		return fmt.Sprintf("Mute time set to: %s", arg), nil

	case "setmuteenabled":
		enabled, err := strconv.ParseBool(arg)
		if err != nil {
			return "", fmt.Errorf("Mute enabled must be true or false")
		}
		policy.MuteEnabled = enabled
		return fmt.Sprintf("Mute enabled set to: %t", enabled), nil

	case "usewarnings":
		enabled, err := strconv.ParseBool(arg)
		if err != nil {
			return "", fmt.Errorf("Use warnings must be true or false")
		}
		policy.UseWarnings = enabled
		return fmt.Sprintf("Use warnings set to: %t", enabled), nil

	case "setsensitivity":
		sensitivity, err := strconv.ParseFloat(arg, 64)
		if err != nil || sensitivity < 0 || sensitivity > 1 {
			return "", fmt.Errorf("Sensitivity must be between 0 and 1")
		}
		policy.Sensitivity = sensitivity
		return fmt.Sprintf("Sensitivity set to: %v", sensitivity), nil

	case "setlogschannel":
		channelID, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return "", fmt.Errorf("Logs channel must be a numeric chat id")
		}
		policy.LogsChannelID = &channelID
		return fmt.Sprintf("Logs channel set to: %d", channelID), nil
	}
	return "", fmt.Errorf("unknown command: %s", command)
}

func describePolicy(policy *db.Policy) string {
	logsChannel := "not set"
	if policy.LogsChannelID != nil {
		logsChannel = strconv.FormatInt(*policy.LogsChannelID, 10)
	}
	return fmt.Sprintf(
		"Warnings: %d\nMute time: %s\nMute enabled: %t\nUse warnings: %t\nSensitivity: %v\nLogs channel: %s",
		policy.WarningThreshold,
		policy.MuteDuration,
		policy.MuteEnabled,
		policy.UseWarnings,
		policy.Sensitivity,
		logsChannel,
	)
}

func (p *PolicyCommands) isAdmin(chatID, userID int64) (bool, error) {
	chatMember, err := p.s.GetBot().GetChatMember(api.GetChatMemberConfig{
		ChatConfigWithUser: api.ChatConfigWithUser{
			UserID: userID,
			ChatConfig: api.ChatConfig{
				ChatID: chatID,
			},
		},
	})
	if err != nil {
		return false, fmt.Errorf("get chat member: %w", err)
	}
	return chatMember.IsCreator() || (chatMember.IsAdministrator() && chatMember.CanRestrictMembers), nil
}
