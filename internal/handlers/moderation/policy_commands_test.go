package moderation

import (
	"strings"
	"testing"

	"github.com/wardenbot/warden/internal/db"
)

func TestApplyPolicyCommandSensitivityBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg     string
		want    float64
		wantErr bool
	}{
		{arg: "0.0", want: 0.0},
		{arg: "1.0", want: 1.0},
		{arg: "0.5", want: 0.5},
		{arg: "-0.1", wantErr: true},
		{arg: "1.1", wantErr: true},
		{arg: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()
			policy := db.DefaultPolicy(1)
			_, err := applyPolicyCommand(policy, "setsensitivity", tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected rejection of %q", tt.arg)
				}
				if policy.Sensitivity != 0.5 {
					t.Fatalf("rejected value must not mutate policy, got %v", policy.Sensitivity)
				}
				return
			}
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			if policy.Sensitivity != tt.want {
				t.Fatalf("unexpected sensitivity: got %v want %v", policy.Sensitivity, tt.want)
			}
		})
	}
}

func TestApplyPolicyCommandFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command string
		arg     string
		check   func(t *testing.T, p *db.Policy)
		wantErr bool
	}{
		{
			name:    "warnings",
			command: "setwarnings",
			arg:     "5",
			check: func(t *testing.T, p *db.Policy) {
				if p.WarningThreshold != 5 {
					t.Fatalf("warnings not applied: %d", p.WarningThreshold)
				}
			},
		},
		{
			name:    "warnings rejects garbage",
			command: "setwarnings",
			arg:     "many",
			wantErr: true,
		},
		{
			name:    "mute time stored as given",
			command: "setmutetime",
			arg:     "45m",
			check: func(t *testing.T, p *db.Policy) {
				if p.MuteDuration != "45m" {
					t.Fatalf("mute time not applied: %s", p.MuteDuration)
				}
			},
		},
		{
			name:    "mute time rejects empty",
			command: "setmutetime",
			arg:     "",
			wantErr: true,
		},
		{
			name:    "mute enabled",
			command: "setmuteenabled",
			arg:     "true",
			check: func(t *testing.T, p *db.Policy) {
				if !p.MuteEnabled {
					t.Fatal("mute enabled not applied")
				}
			},
		},
		{
			name:    "use warnings",
			command: "usewarnings",
			arg:     "true",
			check: func(t *testing.T, p *db.Policy) {
				if !p.UseWarnings {
					t.Fatal("use warnings not applied")
				}
			},
		},
		{
			name:    "logs channel",
			command: "setlogschannel",
			arg:     "-1002003004005",
			check: func(t *testing.T, p *db.Policy) {
				if p.LogsChannelID == nil || *p.LogsChannelID != -1002003004005 {
					t.Fatalf("logs channel not applied: %v", p.LogsChannelID)
				}
			},
		},
		{
			name:    "logs channel rejects garbage",
			command: "setlogschannel",
			arg:     "#mod-log",
			wantErr: true,
		},
		{
			name:    "unknown command",
			command: "frobnicate",
			arg:     "1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			policy := db.DefaultPolicy(1)
			reply, err := applyPolicyCommand(policy, tt.command, tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s %q", tt.command, tt.arg)
				}
				return
			}
			if err != nil {
				t.Fatalf("apply: %v", err)
			}
			if reply == "" {
				t.Fatal("expected a confirmation reply")
			}
			tt.check(t, policy)
		})
	}
}

func TestDescribePolicy(t *testing.T) {
	t.Parallel()

	policy := db.DefaultPolicy(1)
	out := describePolicy(policy)
	for _, want := range []string{"Warnings: 3", "Mute time: 10m", "Sensitivity: 0.5", "Logs channel: not set"} {
		if !strings.Contains(out, want) {
			t.Fatalf("description misses %q:\n%s", want, out)
		}
	}
}
