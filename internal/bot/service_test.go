package bot_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/wardenbot/warden/internal/bot"
	"github.com/wardenbot/warden/internal/db"
)

type fakeStore struct {
	policies map[int64]*db.Policy
	getErr   error
	setErr   error
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) GetPolicy(_ context.Context, tenantID int64) (*db.Policy, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.policies[tenantID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) GetAllPolicies(_ context.Context) (map[int64]*db.Policy, error) {
	return f.policies, nil
}

func (f *fakeStore) UpsertPolicy(_ context.Context, policy *db.Policy) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.policies == nil {
		f.policies = map[int64]*db.Policy{}
	}
	f.policies[policy.TenantID] = policy
	return nil
}

func TestGetPolicyResolvesMissingToDefault(t *testing.T) {
	t.Parallel()

	service := bot.NewService(&api.BotAPI{}, &fakeStore{})
	got := service.GetPolicy(context.Background(), -1001234567890)
	if !reflect.DeepEqual(got, db.DefaultPolicy(-1001234567890)) {
		t.Fatalf("expected canonical default, got %+v", got)
	}
}

func TestGetPolicyResolvesStoreFailureToDefault(t *testing.T) {
	t.Parallel()

	service := bot.NewService(&api.BotAPI{}, &fakeStore{getErr: errors.New("disk on fire")})
	got := service.GetPolicy(context.Background(), 7)
	if !reflect.DeepEqual(got, db.DefaultPolicy(7)) {
		t.Fatalf("expected canonical default on store failure, got %+v", got)
	}
}

func TestGetPolicyReturnsStoredRecord(t *testing.T) {
	t.Parallel()

	stored := db.DefaultPolicy(7)
	stored.MuteEnabled = true
	stored.Sensitivity = 0.9
	service := bot.NewService(&api.BotAPI{}, &fakeStore{policies: map[int64]*db.Policy{7: stored}})

	got := service.GetPolicy(context.Background(), 7)
	if !reflect.DeepEqual(got, stored) {
		t.Fatalf("expected stored record, got %+v", got)
	}
}

func TestSetPolicySurfacesPersistFailure(t *testing.T) {
	t.Parallel()

	service := bot.NewService(&api.BotAPI{}, &fakeStore{setErr: errors.New("readonly fs")})
	if err := service.SetPolicy(context.Background(), db.DefaultPolicy(1)); err == nil {
		t.Fatal("expected persist failure to surface")
	}
}
