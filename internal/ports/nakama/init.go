package nakama

import (
	"context"
	"database/sql"

	"goatan/internal/app"
	"goatan/internal/bot"
	"goatan/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	rc, err := config.LoadRuntimeConfig(env)
	if err != nil {
		return err
	}

	if err := config.LoadGameConfig(rc.GameConfigPath); err != nil {
		logger.Warn("Failed to load game config from %s, using defaults: %v", rc.GameConfigPath, err)
	}
	if err := bot.LoadIdentities(rc.BotIdentitiesPath); err != nil {
		logger.Warn("Failed to load bot identities from %s: %v", rc.BotIdentitiesPath, err)
	}

	if rc.InviteSecret != "" {
		inviteService = app.NewInviteService(rc.InviteSecret, rc.InviteIssuer, rc.InviteTTL())
	} else {
		logger.Warn("goatan_invite_secret is not set, invites are disabled.")
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameGoatan, NewMatch); err != nil {
		return err
	}

	logger.Info("Goatan Go module loaded.")
	return nil
}
