package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if c.MaxPlayers() != 6 {
		t.Fatalf("max players = %d, want 6", c.MaxPlayers())
	}
	if c.DefaultRadius != 2 || c.MaxRadius != 10 || c.VictoryPoints != 5 || c.BankInventory != 19 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestParseGameConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		check   func(t *testing.T, c *GameConfig)
	}{
		{
			name: "partial override keeps defaults",
			yaml: "victory_points: 7\nvictory_reward: 50\n",
			check: func(t *testing.T, c *GameConfig) {
				if c.VictoryPoints != 7 || c.VictoryReward != 50 {
					t.Fatalf("overrides not applied: %+v", c)
				}
				if c.DefaultRadius != 2 || len(c.Palette) != 6 {
					t.Fatalf("defaults lost: %+v", c)
				}
			},
		},
		{
			name: "custom palette caps players",
			yaml: "palette: [red, blue]\nmin_players: 2\n",
			check: func(t *testing.T, c *GameConfig) {
				if c.MaxPlayers() != 2 {
					t.Fatalf("max players = %d, want 2", c.MaxPlayers())
				}
			},
		},
		{name: "radius above engine limit", yaml: "max_radius: 11\n", wantErr: "max_radius"},
		{name: "default radius above max", yaml: "max_radius: 3\ndefault_radius: 4\n", wantErr: "default_radius"},
		{name: "zero victory points", yaml: "victory_points: 0\n", wantErr: "victory_points"},
		{name: "repeated color", yaml: "palette: [red, red]\n", wantErr: "repeats"},
		{name: "min players above palette", yaml: "palette: [red]\nmin_players: 2\n", wantErr: "min_players"},
		{name: "malformed", yaml: "victory_points: [1\n", wantErr: "unmarshal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseGameConfig([]byte(tt.yaml))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestLoadGameConfigOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game_config.yaml")
	if err := os.WriteFile(path, []byte("victory_points: 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := LoadGameConfig(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := GetGameConfig().VictoryPoints; got != 3 {
		t.Fatalf("victory points = %d, want 3", got)
	}

	// Later loads are ignored.
	if err := LoadGameConfig(filepath.Join(dir, "missing.yaml")); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if got := GetGameConfig().VictoryPoints; got != 3 {
		t.Fatalf("victory points after reload = %d, want 3", got)
	}
}

func TestLoadRuntimeConfig(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		want    RuntimeConfig
		wantErr bool
	}{
		{
			name: "defaults",
			vars: nil,
			want: RuntimeConfig{
				BotMinDelaySec:      1,
				BotMaxDelaySec:      3,
				BotAutoFillDelaySec: 5,
				GameConfigPath:      "data/game_config.yaml",
				BotIdentitiesPath:   "data/bot_identities.yaml",
				InviteIssuer:        "goatan",
				InviteTTLSec:        3600,
			},
		},
		{
			name: "overrides",
			vars: map[string]string{
				"goatan_bots_enabled":            "true",
				"goatan_bot_min_delay_sec":       "2",
				"goatan_bot_max_delay_sec":       "4",
				"goatan_bot_auto_fill_delay_sec": "0",
				"goatan_invite_secret":           "s3cret",
				"goatan_invite_ttl_sec":          "60",
			},
			want: RuntimeConfig{
				BotsEnabled:         true,
				BotMinDelaySec:      2,
				BotMaxDelaySec:      4,
				BotAutoFillDelaySec: 0,
				GameConfigPath:      "data/game_config.yaml",
				BotIdentitiesPath:   "data/bot_identities.yaml",
				InviteSecret:        "s3cret",
				InviteIssuer:        "goatan",
				InviteTTLSec:        60,
			},
		},
		{
			name: "max delay clamped to min",
			vars: map[string]string{"goatan_bot_min_delay_sec": "5", "goatan_bot_max_delay_sec": "2"},
			want: RuntimeConfig{
				BotMinDelaySec:      5,
				BotMaxDelaySec:      5,
				BotAutoFillDelaySec: 5,
				GameConfigPath:      "data/game_config.yaml",
				BotIdentitiesPath:   "data/bot_identities.yaml",
				InviteIssuer:        "goatan",
				InviteTTLSec:        3600,
			},
		},
		{name: "bad int", vars: map[string]string{"goatan_bot_min_delay_sec": "soon"}, wantErr: true},
		{name: "bad ttl", vars: map[string]string{"goatan_invite_ttl_sec": "0"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadRuntimeConfig(tt.vars)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
