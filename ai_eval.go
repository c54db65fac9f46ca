package main

// Difficulty doubles as the search depth in plies.
type Difficulty int

const (
	DifficultyBeginner Difficulty = 1
	DifficultyEasy     Difficulty = 2
	DifficultyMedium   Difficulty = 4
	DifficultyHard     Difficulty = 6
	DifficultyExpert   Difficulty = 8
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyBeginner:
		return "beginner"
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	case DifficultyExpert:
		return "expert"
	}
	return "medium"
}

func ParseDifficulty(name string) (Difficulty, bool) {
	switch name {
	case "beginner":
		return DifficultyBeginner, true
	case "easy":
		return DifficultyEasy, true
	case "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	case "expert":
		return DifficultyExpert, true
	}
	return DifficultyMedium, false
}

// maxCandidatesFor bounds the branching factor per difficulty; the cap
// matters more than depth for search cost on large boards.
func maxCandidatesFor(d Difficulty) int {
	switch d {
	case DifficultyBeginner:
		return 8
	case DifficultyEasy:
		return 12
	case DifficultyMedium:
		return 16
	case DifficultyHard:
		return 20
	case DifficultyExpert:
		return 25
	}
	return 16
}

type PlayStyle int

const (
	StyleBalanced PlayStyle = iota
	StyleAggressive
	StyleDefensive
	StylePositional
)

func (s PlayStyle) String() string {
	switch s {
	case StyleAggressive:
		return "aggressive"
	case StyleDefensive:
		return "defensive"
	case StylePositional:
		return "positional"
	}
	return "balanced"
}

func ParsePlayStyle(name string) (PlayStyle, bool) {
	switch name {
	case "balanced":
		return StyleBalanced, true
	case "aggressive":
		return StyleAggressive, true
	case "defensive":
		return StyleDefensive, true
	case "positional":
		return StylePositional, true
	}
	return StyleBalanced, false
}

const centerControlRadius = 3

// evaluateBoard is the static leaf value: the AI's prospects minus the
// opponent's, tilted by play style.
func (e *SearchEngine) evaluateBoard(b *Board) int {
	base := e.rules.EvaluateBoard(b, e.player) - e.rules.EvaluateBoard(b, e.opponent)
	switch e.playStyle {
	case StyleAggressive:
		return base + e.stonePatternScore(b, e.player)/2
	case StyleDefensive:
		return base - e.stonePatternScore(b, e.opponent)/2
	case StylePositional:
		return base + centerControl(b, e.player)
	}
	return base
}

// stonePatternScore sums pattern scores over the player's own stones,
// rewarding structure already on the board.
func (e *SearchEngine) stonePatternScore(b *Board, player PlayerColor) int {
	cell := CellFromPlayer(player)
	total := 0
	size := b.Size()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !b.regionActive(x, y) {
				continue
			}
			if b.At(x, y) == cell {
				total += e.rules.EvaluatePosition(b, x, y, player)
			}
		}
	}
	return total
}

// centerControl rewards stones near the center: within Chebyshev
// distance 3, each stone scores (4 - manhattan) * 10.
func centerControl(b *Board, player PlayerColor) int {
	cell := CellFromPlayer(player)
	size := b.Size()
	centerX := size / 2
	centerY := size / 2
	score := 0
	for dy := -centerControlRadius; dy <= centerControlRadius; dy++ {
		for dx := -centerControlRadius; dx <= centerControlRadius; dx++ {
			if b.At(centerX+dx, centerY+dy) != cell {
				continue
			}
			distance := abs(dx) + abs(dy)
			score += (4 - distance) * 10
		}
	}
	return score
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
