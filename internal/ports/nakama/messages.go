package nakama

import (
	"errors"

	"goatan/internal/app"
	"goatan/internal/domain"
)

// InitializeRequest starts the game; a missing radius uses the configured default.
type InitializeRequest struct {
	Radius *int `json:"radius,omitempty"`
}

type PlacePieceRequest struct {
	Piece    string `json:"piece"`
	Location string `json:"location"`
}

// BankTradeRequest carries the trade from the player's side: negative gives, positive receives.
type BankTradeRequest struct {
	Transaction domain.Transaction `json:"transaction"`
}

type GameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// QuickMatchResponse is the payload returned to clients when requesting a lobby match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

type CreateInviteRequest struct {
	MatchID string `json:"match_id"`
}

type CreateInviteResponse struct {
	Token string `json:"token"`
}

type RedeemInviteRequest struct {
	Token string `json:"token"`
}

type RedeemInviteResponse struct {
	MatchID   string `json:"match_id"`
	InviterID string `json:"inviter_id"`
}

// eventOpCodes maps app events to their wire op code.
var eventOpCodes = map[app.EventKind]int64{
	app.EventGameState:    OpGameState,
	app.EventPlayerInfo:   OpPlayerInfo,
	app.EventPlayerUpdate: OpPlayerUpdate,
	app.EventNewTurn:      OpNewTurn,
	app.EventGameStarted:  OpGameStarted,
	app.EventDiceRolled:   OpDiceRolled,
	app.EventGameEnded:    OpGameEnded,
}

// errorCode classifies an action failure for the client.
func errorCode(err error) int {
	switch {
	case errors.Is(err, app.ErrInvariant):
		return errCodeInternal
	case errors.Is(err, domain.ErrInvalidState):
		return errCodeInvalidState
	default:
		return errCodeBadRequest
	}
}
