package main

type PlayerColor int

// Player identifiers match the cell values on the wire: 0 is nobody,
// 1 plays first by default.
const (
	PlayerNone  PlayerColor = 0
	PlayerBlack PlayerColor = 1
	PlayerWhite PlayerColor = 2
)

type GameStatus int

const (
	StatusNotStarted GameStatus = iota
	StatusPlaying
	StatusBlackWon
	StatusWhiteWon
	StatusDraw
)

func (s GameStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusPlaying:
		return "playing"
	case StatusBlackWon:
		return "black_won"
	case StatusWhiteWon:
		return "white_won"
	case StatusDraw:
		return "draw"
	}
	return "unknown"
}

type GameState struct {
	Board       Board
	ToMove      PlayerColor
	Status      GameStatus
	HasLastMove bool
	LastMove    Move
	Hash        uint64
	LastMessage string
	WinningLine []Move
}

func DefaultGameState(settings GameSettings) GameState {
	state := GameState{}
	state.Reset(settings)
	return state
}

func (s *GameState) Reset(settings GameSettings) {
	s.Board = NewBoard(settings.BoardSize)
	if settings.BlackStarts {
		s.ToMove = PlayerBlack
	} else {
		s.ToMove = PlayerWhite
	}
	s.Status = StatusNotStarted
	s.HasLastMove = false
	s.LastMove = Move{X: -1, Y: -1}
	s.LastMessage = ""
	s.WinningLine = nil
	s.Hash = BoardHash(&s.Board, s.ToMove)
}

func (s GameState) Clone() GameState {
	clone := s
	clone.Board = s.Board.Clone()
	clone.WinningLine = append([]Move(nil), s.WinningLine...)
	return clone
}

func otherPlayer(player PlayerColor) PlayerColor {
	if player == PlayerBlack {
		return PlayerWhite
	}
	return PlayerBlack
}
