package main

import "sync"

// GameController serializes access to the Game from the HTTP handlers
// and the tick loop.
type GameController struct {
	mu   sync.Mutex
	game Game
}

func NewGameController(settings GameSettings) *GameController {
	return &GameController{game: NewGame(settings)}
}

func (gc *GameController) ApplyHumanMove(move Move) (bool, string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if !gc.game.CurrentPlayerIsHuman() {
		return false, "not human turn"
	}
	return gc.game.TryApplyMove(move)
}

func (gc *GameController) SubmitHumanMove(move Move) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.SubmitHumanMove(move)
}

func (gc *GameController) Tick() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Tick()
}

func (gc *GameController) State() GameState {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.State()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.settings
}

func (gc *GameController) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History()
}

func (gc *GameController) LatestHistoryEntry() (HistoryEntry, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History().Last()
}

func (gc *GameController) CurrentTurnStartedAtMs() int64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.TurnStartedAtMs()
}

func (gc *GameController) AiThinking() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.AiThinking()
}

func (gc *GameController) LastThinkingStats() (ThinkingStats, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.LastThinkingStats()
}

func (gc *GameController) Undo(count int) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Undo(count)
}

// ResizeBoard grows or shrinks the live board, keeping the stones that
// still fit.
func (gc *GameController) ResizeBoard(newSize int) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	game := &gc.game
	if !game.state.Board.Resize(newSize) {
		return false
	}
	game.settings.BoardSize = newSize
	// Keep the annotated history aligned with the stones that survived.
	entries := game.history.All()
	game.history.Clear()
	for _, entry := range entries {
		if entry.Move.IsValid(newSize) {
			game.history.Push(entry)
		}
	}
	game.state.Hash = BoardHash(&game.state.Board, game.state.ToMove)
	game.state.WinningLine = nil
	if last, ok := game.state.Board.LastMove(); ok {
		game.state.LastMove = Move{X: last.X, Y: last.Y}
		game.state.HasLastMove = true
	} else {
		game.state.LastMove = Move{X: -1, Y: -1}
		game.state.HasLastMove = false
	}
	return true
}

func (gc *GameController) Reset(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
}

func (gc *GameController) StartGame(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
	gc.game.Start()
}

// UpdateSettings applies new settings; without a reset only the player
// wiring changes, the position stays.
func (gc *GameController) UpdateSettings(update GameSettings, reset bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if reset {
		gc.game.Reset(update)
		return
	}
	gc.game.settings.BlackType = update.BlackType
	gc.game.settings.WhiteType = update.WhiteType
	gc.game.createPlayers()
}
