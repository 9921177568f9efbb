package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"goatan/internal/app"
	"goatan/internal/bot"
	"goatan/internal/config"
	"goatan/internal/domain"
	"goatan/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match handler. Nakama calls
// the handler for one match sequentially, which is the per-game lock the engine requires.
type MatchState struct {
	Tick    int64                `json:"tick"`
	OwnerID string               `json:"owner_id"` // Human allowed to start the game
	Runtime config.RuntimeConfig `json:"runtime"`
	// Tick when the active bot should act.
	BotWaitUntil         int64 `json:"bot_wait"`
	LastSinglePlayerTick int64 `json:"last_single_player_tick"`

	Presences map[string]runtime.Presence // UserId -> Presence for targeted messaging
	App       *app.Service
	Game      *domain.Game // Lobby until initialized, then the running game
	Bots      map[string]*bot.Agent
	Economy   ports.EconomyPort
	Rng       *rand.Rand
}

// Roster returns the registered player ids in lobby or turn order.
func (ms *MatchState) Roster() []string {
	players := ms.Game.Players.All()
	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	return ids
}

func (ms *MatchState) GetOpenSeatsCount() int {
	if ms.Game.State() != domain.StateLobby {
		return 0
	}
	return ms.App.Config().MaxPlayers() - ms.Game.Players.Len()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, id := range ms.Roster() {
		if !isBotUserId(id) {
			count++
		}
	}
	return count
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// findFirstHuman returns the first human in ids or "" if none exist.
func findFirstHuman(ids []string) string {
	for _, userId := range ids {
		if userId != "" && !isBotUserId(userId) {
			return userId
		}
	}
	return ""
}

// shouldTerminateNoHumans returns true when no human is connected.
func shouldTerminateNoHumans(presences map[string]runtime.Presence) bool {
	for userId := range presences {
		if !isBotUserId(userId) {
			return false
		}
	}
	return true
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	rc, err := config.LoadRuntimeConfig(env)
	if err != nil {
		logger.Warn("MatchInit: Invalid runtime env, using defaults: %v", err)
		rc, _ = config.LoadRuntimeConfig(map[string]string{})
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	svc := app.NewService(rng, config.GetGameConfig())

	state := &MatchState{
		Presences: make(map[string]runtime.Presence),
		App:       svc,
		Game:      svc.NewGame(matchID),
		Runtime:   rc,
		Bots:      make(map[string]*bot.Agent),
		Economy:   NewNakamaEconomyAdapter(nk),
		Rng:       rng,
	}

	label, err := mh.label(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // 1 tick per second; bot delays are counted in ticks
	return state, tickRate, label
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Players already in the game may always come back.
	if matchState.Game.Players.Get(presence.GetUserId()) != nil {
		return state, true, ""
	}
	if matchState.Game.State() != domain.StateLobby {
		return state, false, "Game already started"
	}
	if matchState.GetOpenSeatsCount() <= 0 && len(matchState.Bots) == 0 {
		return state, false, "Match full"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		// Humans take over bot seats while still in the lobby.
		if matchState.Game.State() == domain.StateLobby && matchState.Game.Players.Get(userID) == nil && matchState.GetOpenSeatsCount() <= 0 {
			mh.replaceBot(ctx, matchState, dispatcher, logger, userID)
		}

		events, err := matchState.App.RegisterPlayer(matchState.Game, userID, p.GetUsername())
		if err != nil {
			logger.Warn("MatchJoin: User %s could not join: %v", userID, err)
			mh.sendError(matchState, dispatcher, logger, userID, errorCode(err), err.Error())
			continue
		}
		for _, ev := range events {
			mh.broadcastEvent(ctx, matchState, dispatcher, logger, ev)
		}
	}

	if owner := matchState.OwnerID; owner == "" || matchState.Game.Players.Get(owner) == nil {
		matchState.OwnerID = findFirstHuman(matchState.Roster())
		if matchState.OwnerID != "" {
			logger.Debug("MatchJoin: Owner set to %s.", matchState.OwnerID)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) replaceBot(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	for _, botID := range state.Roster() {
		if !isBotUserId(botID) {
			continue
		}
		events, err := state.App.RemovePlayer(state.Game, botID)
		if err != nil {
			logger.Error("MatchJoin: Failed to remove bot %s: %v", botID, err)
			return
		}
		delete(state.Bots, botID)
		logger.Info("MatchJoin: Replaced bot %s with human %s", botID, userID)
		for _, ev := range events {
			mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
		}
		return
	}
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)

		// Started games keep the seat so the player can reconnect.
		if matchState.Game.State() != domain.StateLobby {
			logger.Debug("MatchLeave: User %s disconnected from a running game.", userID)
			continue
		}
		events, err := matchState.App.RemovePlayer(matchState.Game, userID)
		if err != nil {
			logger.Warn("MatchLeave: Failed to remove %s from lobby: %v", userID, err)
			continue
		}
		logger.Debug("MatchLeave: User %s left the lobby.", userID)
		for _, ev := range events {
			mh.broadcastEvent(ctx, matchState, dispatcher, logger, ev)
		}
	}

	if shouldTerminateNoHumans(matchState.Presences) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	if matchState.Game.Players.Get(matchState.OwnerID) == nil {
		matchState.OwnerID = findFirstHuman(matchState.Roster())
		logger.Debug("MatchLeave: Owner set to %q.", matchState.OwnerID)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpInitialize:
			mh.handleInitialize(ctx, matchState, dispatcher, logger, msg)
		case OpEndTurn:
			mh.handleEndTurn(ctx, matchState, dispatcher, logger, msg)
		case OpPlacePiece:
			mh.handlePlacePiece(ctx, matchState, dispatcher, logger, msg)
		case OpRoll:
			mh.handleRoll(ctx, matchState, dispatcher, logger, msg)
		case OpBankTrade:
			mh.handleBankTrade(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.Runtime.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill the lobby with bots if there's only one human player after a delay.
	if state.Game.State() == domain.StateLobby {
		if state.GetHumanPlayerCount() != 1 {
			state.LastSinglePlayerTick = 0
			return
		}
		if state.LastSinglePlayerTick == 0 {
			state.LastSinglePlayerTick = state.Tick
			logger.Debug("processBots: Single player detected, starting auto-fill timer.")
		}
		if state.Tick-state.LastSinglePlayerTick < int64(state.Runtime.BotAutoFillDelaySec) {
			return
		}

		target := min(autoFillPlayers, state.App.Config().MaxPlayers())
		for i := 0; state.Game.Players.Len() < target && i < target*2; i++ {
			identity := bot.GetBotIdentity(i)
			if state.Game.Players.Get(identity.UserID) != nil {
				continue
			}
			agent, err := bot.NewAgent(identity, state.Rng)
			if err != nil {
				logger.Error("processBots: Failed to create bot agent for %s: %v", identity.UserID, err)
				break
			}
			events, err := state.App.RegisterPlayer(state.Game, identity.UserID, agent.Name)
			if err != nil {
				logger.Error("processBots: Failed to seat bot %s: %v", identity.UserID, err)
				break
			}
			state.Bots[identity.UserID] = agent
			logger.Info("processBots: Added bot %s (%s)", agent.Name, identity.UserID)
			for _, ev := range events {
				mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
			}
		}
		mh.updateLabel(state, dispatcher, logger)
		// Reset timer so it doesn't keep "adding" every tick.
		state.LastSinglePlayerTick = 0
		return
	}

	// 2. Handle bot turns in-game, one action per delay.
	active := state.Game.ActivePlayer()
	if active == nil || !isBotUserId(active.ID) {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		spread := state.Runtime.BotMaxDelaySec - state.Runtime.BotMinDelaySec + 1
		delay := state.Runtime.BotMinDelaySec + state.Rng.Intn(spread)
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s will act at tick %d (current %d)", active.ID, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, exists := state.Bots[active.ID]
	if !exists {
		var err error
		agent, err = bot.NewAgent(bot.BotIdentity{UserID: active.ID}, state.Rng)
		if err != nil {
			logger.Error("processBots: Failed to create fallback agent: %v", err)
			return
		}
		state.Bots[active.ID] = agent
	}

	action, events, err := agent.Act(state.App, state.Game)
	if err != nil {
		logger.Error("processBots: Bot %s failed to %s: %v", active.ID, action.Kind, err)
		// Ending the turn keeps the table moving when a bot gets stuck.
		events, err = state.App.EndTurn(state.Game, active.ID)
		if err != nil {
			logger.Error("processBots: Bot %s could not end its turn: %v", active.ID, err)
			return
		}
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleInitialize(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	logger.Info("handleInitialize: Request received from %s (owner=%s, players=%d)", senderID, state.OwnerID, state.Game.Players.Len())

	request := &InitializeRequest{}
	if !decodeRequest(msg, request) {
		logger.Warn("handleInitialize: Invalid InitializeRequest from %s", senderID)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "invalid initialize request")
		return
	}
	if senderID != state.OwnerID {
		logger.Warn("handleInitialize: User %s tried to start the game but is not owner (owner=%s)", senderID, state.OwnerID)
		mh.sendError(state, dispatcher, logger, senderID, errCodeForbidden, "only the match owner can start the game")
		return
	}

	radius := state.App.Config().DefaultRadius
	if request.Radius != nil {
		radius = *request.Radius
	}

	events, err := state.App.Initialize(state.Game, radius)
	if err != nil {
		logger.Warn("handleInitialize: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}

	mh.updateLabel(state, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
	logger.Info("handleInitialize: Game started with %d players on radius %d.", state.Game.Players.Len(), radius)
}

func (mh *matchHandler) handleEndTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	events, err := state.App.EndTurn(state.Game, senderID)
	mh.dispatchResult(ctx, state, dispatcher, logger, "handleEndTurn", senderID, events, err)
}

func (mh *matchHandler) handlePlacePiece(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	request := &PlacePieceRequest{}
	if !decodeRequest(msg, request) {
		logger.Warn("handlePlacePiece: Failed to unmarshal PlacePieceRequest from %s", senderID)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "invalid place piece request")
		return
	}
	kind, ok := domain.ParsePieceKind(request.Piece)
	if !ok {
		mh.dispatchResult(ctx, state, dispatcher, logger, "handlePlacePiece", senderID, nil,
			fmt.Errorf("%w: unknown piece %q", domain.ErrInvalidAction, request.Piece))
		return
	}
	events, err := state.App.PlacePiece(state.Game, senderID, kind, request.Location)
	mh.dispatchResult(ctx, state, dispatcher, logger, "handlePlacePiece", senderID, events, err)
}

func (mh *matchHandler) handleRoll(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	events, err := state.App.Roll(state.Game, senderID)
	mh.dispatchResult(ctx, state, dispatcher, logger, "handleRoll", senderID, events, err)
}

func (mh *matchHandler) handleBankTrade(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	request := &BankTradeRequest{}
	if !decodeRequest(msg, request) {
		logger.Warn("handleBankTrade: Failed to unmarshal BankTradeRequest from %s", senderID)
		mh.sendError(state, dispatcher, logger, senderID, errCodeBadRequest, "invalid bank trade request")
		return
	}
	events, err := state.App.BankTrade(state.Game, senderID, request.Transaction)
	mh.dispatchResult(ctx, state, dispatcher, logger, "handleBankTrade", senderID, events, err)
}

// dispatchResult reports err to the sender or forwards events.
func (mh *matchHandler) dispatchResult(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, handler, senderID string, events []app.Event, err error) {
	if err != nil {
		logger.Warn("%s: User %s failed: %v", handler, senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func decodeRequest(msg runtime.MatchData, out any) bool {
	data := msg.GetData()
	if len(data) == 0 {
		return true
	}
	return json.Unmarshal(data, out) == nil
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, ok := eventOpCodes[ev.Kind]
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	if ev.Kind == app.EventGameEnded {
		p := ev.Payload.(app.GameEndedPayload)
		logger.Info("Event: game_ended (victor=%s)", p.VictorID)
		mh.rewardVictor(ctx, state, logger, p.VictorID)
		mh.updateLabel(state, dispatcher, logger)
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If we had intended recipients but none are connected (e.g. they are bots),
		// we MUST NOT broadcast to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true); err != nil {
		logger.Error("Failed to dispatch event %v: %v", ev.Kind, err)
	}
}

func (mh *matchHandler) rewardVictor(ctx context.Context, state *MatchState, logger runtime.Logger, victorID string) {
	reward := state.App.Config().VictoryReward
	if state.Economy == nil || reward <= 0 || victorID == "" || isBotUserId(victorID) {
		return
	}
	update := ports.WalletUpdate{
		UserID: victorID,
		Amount: reward,
		Metadata: map[string]interface{}{
			"match_id": ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
			"reason":   "victory",
		},
	}
	if err := state.Economy.UpdateBalances(ctx, []ports.WalletUpdate{update}); err != nil {
		logger.Error("Failed to pay victory reward to %s: %v", victorID, err)
	}
}

// sendError sends a GameErrorEvent to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := json.Marshal(GameErrorEvent{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal GameErrorEvent: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	if err := dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send error to %s: %v", userID, err)
	}
}

func (mh *matchHandler) label(state *MatchState) (string, error) {
	return MatchLabel{
		Open:    state.GetOpenSeatsCount(),
		State:   string(state.Game.State()),
		Players: state.Game.Players.Len(),
	}.Marshal()
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := mh.label(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated with %d grace seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
