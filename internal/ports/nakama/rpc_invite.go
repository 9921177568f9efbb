package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"goatan/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

// inviteService is set by InitModule; a nil service disables invites.
var inviteService *app.InviteService

// rpcCreateInvite signs an invite ticket for a match the caller wants to share.
// Payload: {"match_id": "..."}
func rpcCreateInvite(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userId == "" {
		return "", runtime.NewError("Authentication required", 16) // UNAUTHENTICATED
	}
	if inviteService == nil {
		return "", runtime.NewError("Invites are not configured", 12) // UNIMPLEMENTED
	}

	var req CreateInviteRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.MatchID == "" {
		return "", runtime.NewError("Invalid payload", 3) // INVALID_ARGUMENT
	}

	token, err := inviteService.CreateInvite(userId, req.MatchID)
	if err != nil {
		logger.Error("rpcCreateInvite [User:%s]: Failed to sign invite: %v", userId, err)
		return "", runtime.NewError("Failed to create invite", 13) // INTERNAL
	}

	logger.Debug("rpcCreateInvite [User:%s]: Invite created for match %s", userId, req.MatchID)
	return marshalResponse(CreateInviteResponse{Token: token})
}

// rpcRedeemInvite resolves a ticket to the match the client should join.
// Payload: {"token": "..."}
func rpcRedeemInvite(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if inviteService == nil {
		return "", runtime.NewError("Invites are not configured", 12) // UNIMPLEMENTED
	}

	var req RedeemInviteRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.Token == "" {
		return "", runtime.NewError("Invalid payload", 3) // INVALID_ARGUMENT
	}

	invite, err := inviteService.RedeemInvite(req.Token)
	switch {
	case errors.Is(err, app.ErrInviteExpired):
		return "", runtime.NewError("Invite has expired", 9) // FAILED_PRECONDITION
	case err != nil:
		logger.Warn("rpcRedeemInvite [User:%s]: Rejected invite: %v", userId, err)
		return "", runtime.NewError("Invalid invite", 3) // INVALID_ARGUMENT
	}

	return marshalResponse(RedeemInviteResponse{MatchID: invite.MatchID, InviterID: invite.InviterID})
}
