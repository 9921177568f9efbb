package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcCreateInvite, rpcCreateInvite); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcRedeemInvite, rpcRedeemInvite)
}

// quickMatchQuery finds our lobbies with at least one free seat.
var quickMatchQuery = fmt.Sprintf("+label.game:%s +label.state:lobby +label.open:>=1", matchLabelGame)

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userId, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	limit := 10
	authoritative := true
	minSize := 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, nil, quickMatchQuery)
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: Failed to list matches: %v", userId, err)
		return "", err
	}

	if len(matches) > 0 {
		logger.Info("rpcQuickMatch [User:%s]: Found existing match %s", userId, matches[0].MatchId)
		return marshalResponse(QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false})
	}

	// Create new match; seating and ownership happen in MatchJoin.
	matchID, err := nk.MatchCreate(ctx, MatchNameGoatan, map[string]interface{}{})
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: Failed to create match: %v", userId, err)
		return "", err
	}

	logger.Info("rpcQuickMatch [User:%s]: Created new match %s", userId, matchID)
	return marshalResponse(QuickMatchResponse{MatchID: matchID, IsNew: true})
}

func marshalResponse(resp any) (string, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return "", runtime.NewError("Failed to encode response", 13) // INTERNAL
	}
	return string(b), nil
}
