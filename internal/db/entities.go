package db

import "time"

const DefaultMuteDuration = 10 * time.Minute

type Policy struct {
	TenantID         int64   `db:"tenant_id"`
	WarningThreshold int     `db:"warning_threshold"`
	MuteDuration     string  `db:"mute_duration"`
	UseWarnings      bool    `db:"use_warnings"`
	Sensitivity      float64 `db:"sensitivity"`
	LogsChannelID    *int64  `db:"logs_channel_id"`
	MuteEnabled      bool    `db:"mute_enabled"`
}

// ParsedMuteDuration returns the configured mute duration, substituting
// DefaultMuteDuration when the stored string does not parse.
func (p *Policy) ParsedMuteDuration() time.Duration {
	if p == nil {
		return DefaultMuteDuration
	}
	if d, err := time.ParseDuration(p.MuteDuration); err == nil && d > 0 {
		return d
	}
	return DefaultMuteDuration
}
