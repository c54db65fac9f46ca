package main

const winLength = 5

// The four scan axes: horizontal, vertical, and both diagonals.
var directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

type MoveResult int

const (
	MoveValid MoveResult = iota
	MoveOutOfBounds
	MoveCellOccupied
	MoveInvalidPlayer
)

func (r MoveResult) String() string {
	switch r {
	case MoveValid:
		return "valid"
	case MoveOutOfBounds:
		return "out_of_bounds"
	case MoveCellOccupied:
		return "cell_occupied"
	case MoveInvalidPlayer:
		return "invalid_player"
	}
	return "unknown"
}

type PatternType int

const (
	PatternNone PatternType = iota
	PatternSingle
	PatternPair
	PatternThreeSemi
	PatternThreeOpen
	PatternFourSemi
	PatternFourOpen
	PatternFive
)

// Tier scores are separated by an order of magnitude each so that a
// single higher-tier pattern dominates any number of lower-tier ones.
func PatternScore(pattern PatternType) int {
	switch pattern {
	case PatternSingle:
		return 1
	case PatternPair:
		return 10
	case PatternThreeSemi:
		return 100
	case PatternThreeOpen:
		return 1000
	case PatternFourSemi:
		return 10000
	case PatternFourOpen:
		return 100000
	case PatternFive:
		return 1000000
	}
	return 0
}

func (p PatternType) String() string {
	switch p {
	case PatternSingle:
		return "SINGLE"
	case PatternPair:
		return "PAIR"
	case PatternThreeSemi:
		return "THREE_SEMI"
	case PatternThreeOpen:
		return "THREE_OPEN"
	case PatternFourSemi:
		return "FOUR_SEMI"
	case PatternFourOpen:
		return "FOUR_OPEN"
	case PatternFive:
		return "FIVE"
	}
	return "NONE"
}

// Rules is the stateless rule engine: pure queries over a board
// snapshot. Threat simulation mutates the board only transiently and
// always restores it before returning.
type Rules struct{}

func NewRules() Rules {
	return Rules{}
}

// ValidateMove checks player identity first, then bounds, then
// occupancy; the order decides which error wins when several hold.
func (Rules) ValidateMove(b *Board, x, y int, player PlayerColor) MoveResult {
	if player != PlayerBlack && player != PlayerWhite {
		return MoveInvalidPlayer
	}
	if !b.InBounds(x, y) {
		return MoveOutOfBounds
	}
	if b.At(x, y) != CellEmpty {
		return MoveCellOccupied
	}
	return MoveValid
}

func countConsecutive(b *Board, x, y, dx, dy int, cell Cell) int {
	count := 0
	for b.At(x, y) == cell {
		count++
		x += dx
		y += dy
	}
	return count
}

// countInLine walks outward in both signs of the direction and sums,
// counting the center cell once.
func countInLine(b *Board, x, y, dx, dy int, cell Cell) int {
	count := countConsecutive(b, x+dx, y+dy, dx, dy, cell)
	count += countConsecutive(b, x-dx, y-dy, -dx, -dy, cell)
	if b.At(x, y) == cell {
		count++
	}
	return count
}

func (Rules) CheckWinAtPosition(b *Board, x, y int, player PlayerColor) bool {
	cell := CellFromPlayer(player)
	if player != PlayerBlack && player != PlayerWhite {
		return false
	}
	if b.At(x, y) != cell {
		return false
	}
	for _, dir := range directions {
		if countInLine(b, x, y, dir[0], dir[1], cell) >= winLength {
			return true
		}
	}
	return false
}

// CheckGameState inspects only the last-played cell for a win. This
// relies on the invariant that a win can only first appear at the
// stone just placed; board edits outside MakeMove would break it.
func (r Rules) CheckGameState(b *Board, lastX, lastY int) GameStatus {
	if b.InBounds(lastX, lastY) {
		if player, ok := PlayerFromCell(b.At(lastX, lastY)); ok {
			if r.CheckWinAtPosition(b, lastX, lastY, player) {
				if player == PlayerBlack {
					return StatusBlackWon
				}
				return StatusWhiteWon
			}
		}
	}
	if b.IsFull() {
		return StatusDraw
	}
	return StatusPlaying
}

// WinningLine returns the aligned run through the last move, for
// highlighting on the front end.
func (r Rules) WinningLine(b *Board, x, y int, player PlayerColor) ([]Move, bool) {
	cell := CellFromPlayer(player)
	if b.At(x, y) != cell {
		return nil, false
	}
	for _, dir := range directions {
		if countInLine(b, x, y, dir[0], dir[1], cell) < winLength {
			continue
		}
		startX, startY := x, y
		for b.At(startX-dir[0], startY-dir[1]) == cell {
			startX -= dir[0]
			startY -= dir[1]
		}
		var line []Move
		for b.At(startX, startY) == cell {
			line = append(line, Move{X: startX, Y: startY})
			startX += dir[0]
			startY += dir[1]
		}
		return line, true
	}
	return nil, false
}

// countOpenEnds walks to the actual ends of the run through (x, y) and
// counts how many of the cells just beyond are empty and in bounds.
func countOpenEnds(b *Board, x, y, dx, dy int, cell Cell) int {
	openEnds := 0
	px, py := x, y
	for b.At(px+dx, py+dy) == cell {
		px += dx
		py += dy
	}
	if b.At(px+dx, py+dy) == CellEmpty {
		openEnds++
	}
	nx, ny := x, y
	for b.At(nx-dx, ny-dy) == cell {
		nx -= dx
		ny -= dy
	}
	if b.At(nx-dx, ny-dy) == CellEmpty {
		openEnds++
	}
	return openEnds
}

func classifyPattern(consecutiveCount, openEnds int) PatternType {
	switch {
	case consecutiveCount >= winLength:
		return PatternFive
	case consecutiveCount == 4 && openEnds >= 2:
		return PatternFourOpen
	case consecutiveCount == 4 && openEnds == 1:
		return PatternFourSemi
	case consecutiveCount == 3 && openEnds >= 2:
		return PatternThreeOpen
	case consecutiveCount == 3 && openEnds == 1:
		return PatternThreeSemi
	case consecutiveCount == 2:
		return PatternPair
	case consecutiveCount == 1:
		return PatternSingle
	}
	return PatternNone
}

func (Rules) PatternAt(b *Board, x, y, dx, dy int, player PlayerColor) PatternType {
	cell := CellFromPlayer(player)
	count := countInLine(b, x, y, dx, dy, cell)
	if count == 0 {
		return PatternNone
	}
	openEnds := countOpenEnds(b, x, y, dx, dy, cell)
	return classifyPattern(count, openEnds)
}

// EvaluatePosition sums the per-direction pattern scores for player at
// one cell. Works on empty cells too: the run counted is the one the
// player would join by playing there.
func (r Rules) EvaluatePosition(b *Board, x, y int, player PlayerColor) int {
	if !b.InBounds(x, y) {
		return 0
	}
	total := 0
	for _, dir := range directions {
		total += PatternScore(r.PatternAt(b, x, y, dir[0], dir[1], player))
	}
	return total
}

// EvaluateBoard scores the whole position for player by summing
// EvaluatePosition over the empty cells near existing stones.
func (r Rules) EvaluateBoard(b *Board, player PlayerColor) int {
	total := 0
	for _, cell := range b.EmptyCellsNearStones(defaultNeighborRadius) {
		total += r.EvaluatePosition(b, cell.X, cell.Y, player)
	}
	return total
}

// IsWinningThreat reports whether player would win immediately by
// playing the empty cell (x, y). The stone is placed transiently.
func (r Rules) IsWinningThreat(b *Board, x, y int, player PlayerColor) bool {
	if b.At(x, y) != CellEmpty {
		return false
	}
	b.setCell(x, y, CellFromPlayer(player))
	won := r.CheckWinAtPosition(b, x, y, player)
	b.clearCell(x, y)
	return won
}

// IsBlockingThreat reports whether the opponent of player would win by
// taking (x, y), i.e. whether player must block there.
func (r Rules) IsBlockingThreat(b *Board, x, y int, player PlayerColor) bool {
	return r.IsWinningThreat(b, x, y, otherPlayer(player))
}

func (r Rules) FindThreats(b *Board, player PlayerColor) []Move {
	var threats []Move
	size := b.Size()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if b.At(x, y) != CellEmpty {
				continue
			}
			if r.IsWinningThreat(b, x, y, player) {
				threats = append(threats, Move{X: x, Y: y})
			}
		}
	}
	return threats
}
