package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby match.
	RpcQuickMatch = "quick_match"
	// RpcCreateInvite signs a ticket for the caller's match.
	RpcCreateInvite = "create_invite"
	// RpcRedeemInvite resolves a ticket back to its match id.
	RpcRedeemInvite = "redeem_invite"

	// MatchNameGoatan is the authoritative match handler name registered with Nakama.
	MatchNameGoatan = "goatan_match"

	// matchLabelGame tags our matches in the label so listings can filter on it.
	matchLabelGame = "goatan"
)

// Op codes for client messages and server events. Payloads are JSON.
const (
	// Client -> Server
	OpInitialize int64 = 1
	OpEndTurn    int64 = 2
	OpPlacePiece int64 = 3
	OpRoll       int64 = 4
	OpBankTrade  int64 = 5

	// Server -> Client events
	OpGameState    int64 = 101
	OpPlayerInfo   int64 = 102 // sent privately
	OpPlayerUpdate int64 = 103
	OpGameError    int64 = 104 // sent privately
	OpNewTurn      int64 = 105
	OpGameStarted  int64 = 106
	OpDiceRolled   int64 = 107
	OpGameEnded    int64 = 108
)

// Error codes carried by GameErrorEvent.
const (
	errCodeBadRequest   = 400
	errCodeForbidden    = 403
	errCodeInvalidState = 409
	errCodeInternal     = 500
)

// autoFillPlayers is how many seats the bot auto-fill tops a solo lobby up to.
const autoFillPlayers = 4
