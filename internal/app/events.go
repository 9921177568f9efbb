package app

// EventKind identifies emitted events for transport dispatch.
type EventKind string

const (
	EventGameState    EventKind = "game_state"
	EventPlayerInfo   EventKind = "player_info"
	EventPlayerUpdate EventKind = "player_update"
	EventGameStarted  EventKind = "game_started"
	EventNewTurn      EventKind = "new_turn"
	EventDiceRolled   EventKind = "dice_rolled"
	EventGameEnded    EventKind = "game_ended"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // player ids; empty means broadcast
}

// PlayerInfoPayload is a player's own record, sent on join and reconnect.
type PlayerInfoPayload struct {
	Player PlayerView `json:"player"`
}

// PlayerUpdatePayload is the lobby roster.
type PlayerUpdatePayload struct {
	Players []PlayerView `json:"players"`
}

type GameStartedPayload struct {
	GameID string   `json:"game_id"`
	Order  []string `json:"order"`
	Radius int      `json:"radius"`
}

type NewTurnPayload struct {
	PlayerID string `json:"player_id"`
	Phase    string `json:"phase"`
}

type DiceRolledPayload struct {
	PlayerID string `json:"player_id"`
	Total    int    `json:"total"`
	// Production maps player id to the resources that roll paid them.
	Production map[string]map[string]int `json:"production,omitempty"`
}

type GameEndedPayload struct {
	VictorID string `json:"victor_id"`
}
