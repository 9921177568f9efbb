package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// RuntimeConfig is read from the Nakama runtime environment (the `runtime.env` section of the
// server config), not from the process environment.
type RuntimeConfig struct {
	BotsEnabled         bool   `env:"goatan_bots_enabled"`
	BotMinDelaySec      int    `env:"goatan_bot_min_delay_sec" envDefault:"1"`
	BotMaxDelaySec      int    `env:"goatan_bot_max_delay_sec" envDefault:"3"`
	BotAutoFillDelaySec int    `env:"goatan_bot_auto_fill_delay_sec" envDefault:"5"`
	GameConfigPath      string `env:"goatan_config_path" envDefault:"data/game_config.yaml"`
	BotIdentitiesPath   string `env:"goatan_bot_identities_path" envDefault:"data/bot_identities.yaml"`
	InviteSecret        string `env:"goatan_invite_secret"`
	InviteIssuer        string `env:"goatan_invite_issuer" envDefault:"goatan"`
	InviteTTLSec        int    `env:"goatan_invite_ttl_sec" envDefault:"3600"`
}

// LoadRuntimeConfig parses vars, applying defaults for missing keys.
func LoadRuntimeConfig(vars map[string]string) (RuntimeConfig, error) {
	var rc RuntimeConfig
	if vars == nil {
		vars = map[string]string{}
	}
	if err := env.ParseWithOptions(&rc, env.Options{Environment: vars}); err != nil {
		return RuntimeConfig{}, fmt.Errorf("failed to parse runtime env: %w", err)
	}
	if rc.BotMinDelaySec < 0 {
		rc.BotMinDelaySec = 0
	}
	if rc.BotMaxDelaySec < rc.BotMinDelaySec {
		rc.BotMaxDelaySec = rc.BotMinDelaySec
	}
	if rc.BotAutoFillDelaySec < 0 {
		rc.BotAutoFillDelaySec = 0
	}
	if rc.InviteTTLSec <= 0 {
		return RuntimeConfig{}, fmt.Errorf("goatan_invite_ttl_sec must be positive, got %d", rc.InviteTTLSec)
	}
	return rc, nil
}

// InviteTTL is the lifetime of an invite ticket.
func (rc RuntimeConfig) InviteTTL() time.Duration {
	return time.Duration(rc.InviteTTLSec) * time.Second
}
