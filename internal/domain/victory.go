package domain

// WinCondition decides whether someone has won.
type WinCondition interface {
	// Victor returns the winning player id, if any.
	Victor(board *Board) (string, bool)
}

// DefaultVictoryPoints is the threshold used when none is configured.
const DefaultVictoryPoints = 5

// VictoryPoint awards one point per house and declares the first player, in placement order of
// their settlements, to reach Required.
type VictoryPoint struct {
	Required int
}

// Victor implements WinCondition.
func (v VictoryPoint) Victor(board *Board) (string, bool) {
	if board == nil {
		return "", false
	}
	points := make(map[string]int)
	for _, ix := range board.SettledIntersections() {
		owner := board.Intersections[ix].Settlement.Owner
		points[owner]++
		if points[owner] >= v.Required {
			return owner, true
		}
	}
	return "", false
}

// Points returns every player's current tally.
func (v VictoryPoint) Points(board *Board) map[string]int {
	points := make(map[string]int)
	if board == nil {
		return points
	}
	for _, ix := range board.SettledIntersections() {
		points[board.Intersections[ix].Settlement.Owner]++
	}
	return points
}
