package moderation

import (
	"context"
	"testing"

	api "github.com/OvyFlash/telegram-bot-api"

	"github.com/wardenbot/warden/internal/db"
)

func TestRouteFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ev   *Event
		want route
	}{
		{
			name: "plain text",
			ev:   &Event{Content: "hello"},
			want: routeText,
		},
		{
			name: "empty event",
			ev:   &Event{},
			want: routeNone,
		},
		{
			name: "image attachment",
			ev:   &Event{Content: "caption", Attachments: []Attachment{{ContentType: "image/png"}}},
			want: routeImage,
		},
		{
			name: "image attachment suppresses text",
			ev:   &Event{Content: "unsafe caption", Attachments: []Attachment{{ContentType: "image/jpeg"}}},
			want: routeImage,
		},
		{
			name: "non-image attachment classifies nothing",
			ev:   &Event{Content: "unsafe caption", Attachments: []Attachment{{ContentType: "application/pdf"}}},
			want: routeNone,
		},
		{
			name: "only first attachment decides",
			ev: &Event{Attachments: []Attachment{
				{ContentType: "application/zip"},
				{ContentType: "image/png"},
			}},
			want: routeNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := routeFor(tt.ev); got != tt.want {
				t.Fatalf("unexpected route: got %v want %v", got, tt.want)
			}
		})
	}
}

type fakeService struct {
	policies map[int64]*db.Policy
	upserts  []*db.Policy
}

func (f *fakeService) GetBot() *api.BotAPI { return &api.BotAPI{} }
func (f *fakeService) GetDB() db.Client    { return nil }

func (f *fakeService) GetPolicy(_ context.Context, tenantID int64) *db.Policy {
	if p, ok := f.policies[tenantID]; ok {
		return p
	}
	return db.DefaultPolicy(tenantID)
}

func (f *fakeService) SetPolicy(_ context.Context, policy *db.Policy) error {
	f.upserts = append(f.upserts, policy)
	return nil
}

type fakeGateway struct {
	textSafe   bool
	imageSafe  bool
	textCalls  []string
	imageCalls []string
}

func (f *fakeGateway) IsTextSafe(_ context.Context, content string) bool {
	f.textCalls = append(f.textCalls, content)
	return f.textSafe
}

func (f *fakeGateway) IsImageSafe(_ context.Context, url string) bool {
	f.imageCalls = append(f.imageCalls, url)
	return f.imageSafe
}

type fakeEnforcer struct {
	textEvents  []*Event
	imageEvents []*Event
	policies    []*db.Policy
}

func (f *fakeEnforcer) EnforceText(_ context.Context, ev *Event, policy *db.Policy) error {
	f.textEvents = append(f.textEvents, ev)
	f.policies = append(f.policies, policy)
	return nil
}

func (f *fakeEnforcer) EnforceImage(_ context.Context, ev *Event, policy *db.Policy) error {
	f.imageEvents = append(f.imageEvents, ev)
	f.policies = append(f.policies, policy)
	return nil
}

func newTestModerator(gateway *fakeGateway, enforcer *fakeEnforcer, policies map[int64]*db.Policy) *Moderator {
	m := NewModerator(&fakeService{policies: policies}, gateway, enforcer)
	m.fileURL = func(fileID string) (string, error) {
		return "https://cdn.example/" + fileID, nil
	}
	return m
}

func groupMessage(text string) (*api.Update, *api.Chat, *api.User) {
	msg := &api.Message{
		MessageID: 100,
		Text:      text,
		Chat:      api.Chat{ID: -1001, Type: "supergroup"},
		From:      &api.User{ID: 9, UserName: "someone"},
	}
	u := &api.Update{Message: msg}
	return u, &msg.Chat, msg.From
}

func TestModeratorSkipsBotAuthors(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{}
	m := newTestModerator(gateway, &fakeEnforcer{}, nil)

	u, chat, _ := groupMessage("anything")
	botUser := &api.User{ID: 1, IsBot: true}

	proceed, err := m.Handle(context.Background(), u, chat, botUser)
	if err != nil || !proceed {
		t.Fatalf("bot author must pass through: proceed=%v err=%v", proceed, err)
	}
	if len(gateway.textCalls)+len(gateway.imageCalls) != 0 {
		t.Fatal("bot author must not be classified")
	}
}

func TestModeratorSafeTextTakesNoAction(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{textSafe: true}
	enforcer := &fakeEnforcer{}
	m := newTestModerator(gateway, enforcer, nil)

	u, chat, user := groupMessage("perfectly fine")
	proceed, err := m.Handle(context.Background(), u, chat, user)
	if err != nil || !proceed {
		t.Fatalf("safe verdict must proceed: proceed=%v err=%v", proceed, err)
	}
	if len(enforcer.textEvents)+len(enforcer.imageEvents) != 0 {
		t.Fatal("safe verdict must not enforce")
	}
}

func TestModeratorUnsafeTextEnforcesWithTenantPolicy(t *testing.T) {
	t.Parallel()

	stored := db.DefaultPolicy(-1001)
	stored.MuteEnabled = true
	gateway := &fakeGateway{textSafe: false}
	enforcer := &fakeEnforcer{}
	m := newTestModerator(gateway, enforcer, map[int64]*db.Policy{-1001: stored})

	u, chat, user := groupMessage("unsafe text")
	proceed, err := m.Handle(context.Background(), u, chat, user)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if proceed {
		t.Fatal("unsafe verdict must stop the handler chain")
	}
	if len(enforcer.textEvents) != 1 {
		t.Fatalf("expected one text enforcement, got %d", len(enforcer.textEvents))
	}
	if enforcer.policies[0] != stored {
		t.Fatal("enforcement must receive the tenant's stored policy")
	}
	if enforcer.textEvents[0].Content != "unsafe text" {
		t.Fatalf("unexpected event content: %q", enforcer.textEvents[0].Content)
	}
}

func TestModeratorImageAttachmentSuppressesTextClassification(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{imageSafe: false}
	enforcer := &fakeEnforcer{}
	m := newTestModerator(gateway, enforcer, nil)

	u, chat, user := groupMessage("")
	u.Message.Caption = "unsafe caption"
	u.Message.Photo = []api.PhotoSize{
		{FileID: "small", Width: 90},
		{FileID: "large", Width: 1280},
	}

	proceed, err := m.Handle(context.Background(), u, chat, user)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if proceed {
		t.Fatal("unsafe image must stop the handler chain")
	}
	if len(gateway.textCalls) != 0 {
		t.Fatal("attachment presence must suppress text classification")
	}
	if len(gateway.imageCalls) != 1 || gateway.imageCalls[0] != "https://cdn.example/large" {
		t.Fatalf("expected largest photo classified, got %v", gateway.imageCalls)
	}
	if len(enforcer.imageEvents) != 1 || len(enforcer.textEvents) != 0 {
		t.Fatalf("expected image enforcement only, got %d/%d", len(enforcer.imageEvents), len(enforcer.textEvents))
	}
}

func TestModeratorPrivateChatsPassThrough(t *testing.T) {
	t.Parallel()

	gateway := &fakeGateway{}
	m := newTestModerator(gateway, &fakeEnforcer{}, nil)

	msg := &api.Message{
		MessageID: 1,
		Text:      "dm text",
		Chat:      api.Chat{ID: 9, Type: "private"},
		From:      &api.User{ID: 9},
	}
	u := &api.Update{Message: msg}

	proceed, err := m.Handle(context.Background(), u, &msg.Chat, msg.From)
	if err != nil || !proceed {
		t.Fatalf("private chat must pass through: proceed=%v err=%v", proceed, err)
	}
	if len(gateway.textCalls) != 0 {
		t.Fatal("private chats are not moderated")
	}
}
