package bot

import (
	"fmt"
	"math/rand"
	"slices"

	"goatan/internal/domain"
)

// GreedyBot takes the best-scoring legal spot every time. It is deterministic.
type GreedyBot struct {
	Tuning Tuning

	roadsThisTurn int
}

// NextAction implements Brain.
func (b *GreedyBot) NextAction(game *domain.Game, player *domain.Player) (Action, error) {
	phase := game.Phase()
	if phase == nil || phase.ActivePlayer() != player {
		return Action{}, fmt.Errorf("bot %s is not the active player", player.ID)
	}
	houses, roads := placeable(phase)

	switch phase.Kind() {
	case domain.PhasePlacement:
		if len(houses) > 0 {
			return placeAction(domain.PieceHouse, b.bestIntersection(game.Board, player, houses)), nil
		}
		if len(roads) > 0 {
			return placeAction(domain.PieceRoad, b.bestEdge(game.Board, player, roads)), nil
		}
		return b.endTurn(), nil

	case domain.PhaseMain:
		if phase.ExpectingRoll() {
			return Action{Kind: ActionRoll}, nil
		}
		if len(houses) > 0 {
			return placeAction(domain.PieceHouse, b.bestIntersection(game.Board, player, houses)), nil
		}
		if tx, ok := tradeTowardHouse(game.Bank, player); ok {
			return Action{Kind: ActionTrade, Trade: tx}, nil
		}
		if len(roads) > 0 && b.roadsThisTurn < b.Tuning.MaxRoadsPerTurn {
			b.roadsThisTurn++
			return placeAction(domain.PieceRoad, b.bestEdge(game.Board, player, roads)), nil
		}
		return b.endTurn(), nil
	}
	return Action{}, fmt.Errorf("bot %s cannot act in phase %s", player.ID, phase.Kind())
}

func (b *GreedyBot) endTurn() Action {
	b.roadsThisTurn = 0
	return Action{Kind: ActionEndTurn}
}

func (b *GreedyBot) bestIntersection(board *domain.Board, player *domain.Player, ids []string) string {
	produced := producedResources(board, player.ID)
	best, bestScore := "", -1.0
	for _, id := range ids {
		ix, _ := board.IntersectionByID(id)
		if score := b.Tuning.scoreIntersection(board, player, produced, ix); score > bestScore {
			best, bestScore = id, score
		}
	}
	return best
}

// bestEdge scores a road by the best house spot it leads toward.
func (b *GreedyBot) bestEdge(board *domain.Board, player *domain.Player, ids []string) string {
	produced := producedResources(board, player.ID)
	best, bestScore := "", -1.0
	for _, id := range ids {
		e, _ := board.EdgeByID(id)
		score := 0.0
		for _, end := range board.Edges[e].Intersections {
			if !board.BordersSettlement(end) {
				score = max(score, b.Tuning.scoreIntersection(board, player, produced, end))
			}
			for _, next := range board.Intersections[end].Edges {
				if next == e {
					continue
				}
				far := board.OtherIntersection(next, end)
				if !board.BordersSettlement(far) {
					score = max(score, b.Tuning.scoreIntersection(board, player, produced, far)/2)
				}
			}
		}
		if score > bestScore {
			best, bestScore = id, score
		}
	}
	return best
}

func (t Tuning) scoreIntersection(board *domain.Board, player *domain.Player, produced map[domain.Resource]bool, ix domain.IntersectionRef) float64 {
	score := 0.0
	seen := make(map[domain.Resource]bool)
	for _, ref := range board.Intersections[ix].Tiles {
		tile := board.Tiles[ref]
		r, ok := tile.Type.Resource()
		if !ok {
			continue
		}
		score += t.PipWeight * float64(tile.Number.Pips())
		if !produced[r] && !seen[r] {
			score += t.VarietyWeight
		}
		if player.Balance(r) == 0 && domain.PieceHouse.Cost()[r] < 0 {
			score += t.ScarcityWeight
		}
		seen[r] = true
	}
	return score
}

// EasyBot picks uniformly among legal moves. It still trades toward a house so a lopsided hand
// never stalls it.
type EasyBot struct {
	rng *rand.Rand

	roadsThisTurn int
}

// NextAction implements Brain.
func (b *EasyBot) NextAction(game *domain.Game, player *domain.Player) (Action, error) {
	phase := game.Phase()
	if phase == nil || phase.ActivePlayer() != player {
		return Action{}, fmt.Errorf("bot %s is not the active player", player.ID)
	}
	houses, roads := placeable(phase)

	if phase.Kind() == domain.PhaseMain && phase.ExpectingRoll() {
		return Action{Kind: ActionRoll}, nil
	}
	if len(houses) > 0 {
		return placeAction(domain.PieceHouse, houses[b.rng.Intn(len(houses))]), nil
	}
	if phase.Kind() == domain.PhaseMain {
		if tx, ok := tradeTowardHouse(game.Bank, player); ok {
			return Action{Kind: ActionTrade, Trade: tx}, nil
		}
	}
	if len(roads) > 0 && (phase.Kind() == domain.PhasePlacement || b.roadsThisTurn < 1) {
		if phase.Kind() == domain.PhaseMain {
			b.roadsThisTurn++
		}
		return placeAction(domain.PieceRoad, roads[b.rng.Intn(len(roads))]), nil
	}
	b.roadsThisTurn = 0
	return Action{Kind: ActionEndTurn}, nil
}

func placeAction(kind domain.PieceKind, location string) Action {
	return Action{Kind: ActionPlace, Piece: kind, Location: location}
}

// placeable splits the phase hints by piece, sorted for determinism.
func placeable(phase domain.Phase) (houses, roads []string) {
	for id, kinds := range phase.Placeable() {
		if slices.Contains(kinds, domain.PieceHouse) {
			houses = append(houses, id)
		}
		if slices.Contains(kinds, domain.PieceRoad) {
			roads = append(roads, id)
		}
	}
	slices.Sort(houses)
	slices.Sort(roads)
	return houses, roads
}

func producedResources(board *domain.Board, playerID string) map[domain.Resource]bool {
	out := make(map[domain.Resource]bool)
	for _, ix := range board.SettledIntersections() {
		if board.Intersections[ix].Settlement.Owner != playerID {
			continue
		}
		for _, ref := range board.Intersections[ix].Tiles {
			if r, ok := board.Tiles[ref].Type.Resource(); ok {
				out[r] = true
			}
		}
	}
	return out
}

// tradeTowardHouse finds a bank offer that turns a surplus into a missing house resource.
func tradeTowardHouse(bank *domain.Bank, player *domain.Player) (domain.Transaction, bool) {
	cost := domain.PieceHouse.Cost()
	var missing []domain.Resource
	for _, r := range domain.Resources {
		if player.Balance(r) < -cost[r] {
			missing = append(missing, r)
		}
	}
	if len(missing) == 0 {
		return domain.Transaction{}, false
	}
	for _, give := range domain.Resources {
		if player.Balance(give)-max(0, -cost[give]) < 4 {
			continue
		}
		for _, receive := range missing {
			var tx domain.Transaction
			tx[give] = -4
			tx[receive] = 1
			if bank.Offering(tx) && player.CanApply(tx) {
				return tx, true
			}
		}
	}
	return domain.Transaction{}, false
}
