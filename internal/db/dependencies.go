package db

import "context"

// Client is the policy store boundary. Absence of a record is reported as
// ErrNotFound, never as a synthesized default; resolving the default is the
// caller's job.
type Client interface {
	Close() error
	GetPolicy(ctx context.Context, tenantID int64) (*Policy, error)
	GetAllPolicies(ctx context.Context) (map[int64]*Policy, error)
	UpsertPolicy(ctx context.Context, policy *Policy) error
}
