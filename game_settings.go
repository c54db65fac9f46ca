package main

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

func (t PlayerType) String() string {
	if t == PlayerAI {
		return "ai"
	}
	return "human"
}

type GameSettings struct {
	BoardSize   int        `json:"board_size"`
	BlackType   PlayerType `json:"-"`
	WhiteType   PlayerType `json:"-"`
	BlackStarts bool       `json:"black_starts"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		BoardSize:   defaultBoardSize,
		BlackType:   PlayerHuman,
		WhiteType:   PlayerAI,
		BlackStarts: true,
	}
}
