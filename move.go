package main

type Move struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func NewMove(x, y int) Move {
	return Move{X: x, Y: y}
}

func (m Move) IsValid(boardSize int) bool {
	return m.X >= 0 && m.Y >= 0 && m.X < boardSize && m.Y < boardSize
}

func (m Move) Equals(other Move) bool {
	return m.X == other.X && m.Y == other.Y
}

// MoveEvaluation is what a search call hands back: a cell plus the
// score attached to it. NoMove (negative coordinates) is the sentinel
// for "nothing to play"; callers must check IsValid before applying.
type MoveEvaluation struct {
	Move       Move `json:"move"`
	Score      int  `json:"score"`
	Depth      int  `json:"depth,omitempty"`
	IsWinning  bool `json:"is_winning,omitempty"`
	IsBlocking bool `json:"is_blocking,omitempty"`
}

func NoMove() MoveEvaluation {
	return MoveEvaluation{Move: Move{X: -1, Y: -1}, Score: minScore}
}

func (e MoveEvaluation) IsValid(boardSize int) bool {
	return e.Move.IsValid(boardSize)
}
