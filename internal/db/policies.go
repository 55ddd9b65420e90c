package db

import "errors"

var ErrNotFound = errors.New("not found")

// DefaultPolicy is the canonical policy applied to tenants without a stored
// record. Every call site resolving an absent record goes through here so the
// default never drifts.
func DefaultPolicy(tenantID int64) *Policy {
	return &Policy{
		TenantID:         tenantID,
		WarningThreshold: 3,
		MuteDuration:     "10m",
		UseWarnings:      false,
		Sensitivity:      0.5,
		LogsChannelID:    nil,
		MuteEnabled:      false,
	}
}
