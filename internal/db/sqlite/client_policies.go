package sqlite

import (
	"context"
	"database/sql"

	"github.com/iamwavecut/tool"
	"github.com/pkg/errors"

	"github.com/wardenbot/warden/internal/db"
)

func (c *sqliteClient) GetPolicy(ctx context.Context, tenantID int64) (*db.Policy, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	res := &db.Policy{}
	err := c.db.GetContext(ctx, res, `
		SELECT tenant_id, warning_threshold, mute_duration, use_warnings, sensitivity, logs_channel_id, mute_enabled
		FROM policies WHERE tenant_id = ?`, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, errors.WithMessage(err, "cant get policy")
	}
	return res, nil
}

func (c *sqliteClient) GetAllPolicies(ctx context.Context) (map[int64]*db.Policy, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var rows []*db.Policy
	if err := c.db.SelectContext(ctx, &rows, `
		SELECT tenant_id, warning_threshold, mute_duration, use_warnings, sensitivity, logs_channel_id, mute_enabled
		FROM policies`); err != nil {
		return nil, errors.WithMessage(err, "cant get policies")
	}
	policies := make(map[int64]*db.Policy, len(rows))
	for _, row := range rows {
		policies[row.TenantID] = row
	}
	return policies, nil
}

// UpsertPolicy writes the whole record in one statement, so a concurrent read
// observes either the old or the new row, never a partial one.
func (c *sqliteClient) UpsertPolicy(ctx context.Context, policy *db.Policy) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	query := `
		INSERT INTO policies (tenant_id, warning_threshold, mute_duration, use_warnings, sensitivity, logs_channel_id, mute_enabled)
		VALUES (:tenant_id, :warning_threshold, :mute_duration, :use_warnings, :sensitivity, :logs_channel_id, :mute_enabled)
		ON CONFLICT(tenant_id) DO UPDATE SET
		warning_threshold=excluded.warning_threshold,
		mute_duration=excluded.mute_duration,
		use_warnings=excluded.use_warnings,
		sensitivity=excluded.sensitivity,
		logs_channel_id=excluded.logs_channel_id,
		mute_enabled=excluded.mute_enabled;
	`
	return tool.Err(c.db.NamedExecContext(ctx, query, policy))
}
