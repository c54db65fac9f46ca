package main

import (
	"log"
	"time"
)

type IPlayer interface {
	IsHuman() bool
	ChooseMove(state GameState, rules Rules) Move
}

// Game drives one match: it validates and applies moves, keeps the
// annotated history, and feeds the AI players. All rule decisions go
// through Rules; Game itself only sequences turns.
type Game struct {
	settings    GameSettings
	rules       Rules
	state       GameState
	history     MoveHistory
	blackPlayer IPlayer
	whitePlayer IPlayer
	turnStart   time.Time
}

func NewGame(settings GameSettings) Game {
	g := Game{}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.settings = settings
	g.rules = NewRules()
	g.state.Reset(settings)
	g.history.Clear()
	g.createPlayers()
	g.turnStart = time.Now()
	log.Printf("new game: %dx%d, black=%s white=%s", g.state.Board.Size(), g.state.Board.Size(),
		settings.BlackType, settings.WhiteType)
}

func (g *Game) Start() {
	if g.state.Status == StatusNotStarted {
		g.state.Status = StatusPlaying
		g.turnStart = time.Now()
	}
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

// TryApplyMove validates and commits one move for the side to play.
// The returned string is the rejection reason, empty on success.
func (g *Game) TryApplyMove(move Move) (bool, string) {
	return g.applyMove(move, 0)
}

func (g *Game) applyMove(move Move, searchDepth int) (bool, string) {
	if g.state.Status != StatusPlaying {
		return false, "game not running"
	}
	result := g.rules.ValidateMove(&g.state.Board, move.X, move.Y, g.state.ToMove)
	if result != MoveValid {
		g.state.LastMessage = "illegal move: " + result.String()
		return false, g.state.LastMessage
	}
	player := g.state.ToMove
	isAi := !g.playerForColor(player).IsHuman()
	elapsedMs := float64(time.Since(g.turnStart).Milliseconds())

	g.state.Board.MakeMove(move.X, move.Y, player)
	g.state.Hash = UpdateHashAfterMove(g.state.Hash, g.state.Board.Size(), move, player)
	g.state.LastMove = move
	g.state.HasLastMove = true
	g.state.LastMessage = ""
	g.history.Push(HistoryEntry{Move: move, Player: player, ElapsedMs: elapsedMs, IsAi: isAi, Depth: searchDepth})

	g.state.Status = g.rules.CheckGameState(&g.state.Board, move.X, move.Y)
	switch g.state.Status {
	case StatusBlackWon, StatusWhiteWon:
		if line, ok := g.rules.WinningLine(&g.state.Board, move.X, move.Y, player); ok {
			g.state.WinningLine = line
		}
		log.Printf("player %d wins after %d moves", int(player), g.history.Size())
	case StatusDraw:
		log.Printf("draw after %d moves", g.history.Size())
	default:
		g.state.ToMove = otherPlayer(player)
		g.turnStart = time.Now()
	}
	return true, ""
}

// Undo reverts the last count moves and hands the turn back to the
// player of the earliest reverted move.
func (g *Game) Undo(count int) bool {
	if count <= 0 || count > g.history.Size() {
		return false
	}
	var entry HistoryEntry
	for i := 0; i < count; i++ {
		popped, ok := g.history.Pop()
		if !ok || !g.state.Board.UndoLastMove() {
			return false
		}
		entry = popped
	}
	g.state.ToMove = entry.Player
	if g.state.Status != StatusNotStarted {
		g.state.Status = StatusPlaying
	}
	g.state.WinningLine = nil
	g.state.LastMessage = ""
	if last, ok := g.state.Board.LastMove(); ok {
		g.state.LastMove = Move{X: last.X, Y: last.Y}
		g.state.HasLastMove = true
	} else {
		g.state.LastMove = Move{X: -1, Y: -1}
		g.state.HasLastMove = false
	}
	g.state.Hash = BoardHash(&g.state.Board, g.state.ToMove)
	g.turnStart = time.Now()
	// Recreate the players so an in-flight AI result computed for the
	// pre-undo position can never be applied.
	g.createPlayers()
	return true
}

// Tick advances the loop once: applies a pending human move or drives
// the AI thinking cycle. Returns true when a move was applied.
func (g *Game) Tick() bool {
	if g.state.Status != StatusPlaying {
		return false
	}
	player := g.currentPlayer()
	if player == nil {
		return false
	}
	if player.IsHuman() {
		human, ok := player.(*HumanPlayer)
		if !ok {
			return false
		}
		move, ok := human.TakePendingMove()
		if !ok {
			return false
		}
		applied, _ := g.TryApplyMove(move)
		return applied
	}
	ai, ok := player.(*AIPlayer)
	if !ok {
		move := player.ChooseMove(g.state.Clone(), g.rules)
		applied, _ := g.TryApplyMove(move)
		return applied
	}
	if ai.HasMoveReady() {
		result := ai.TakeMove()
		if !result.IsValid(g.state.Board.Size()) {
			// Sentinel no-move: nothing playable, leave it to the
			// draw detection on the next applied move.
			return false
		}
		applied, _ := g.applyMove(result.Move, result.Depth)
		return applied
	}
	if !ai.IsThinking() {
		ai.StartThinking(g.state.Clone())
	}
	return false
}

func (g *Game) SubmitHumanMove(move Move) bool {
	player := g.currentPlayer()
	human, ok := player.(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(move)
	return true
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	ai, ok := g.currentPlayer().(*AIPlayer)
	return ok && ai.IsThinking()
}

func (g *Game) LastThinkingStats() (ThinkingStats, bool) {
	for _, p := range []IPlayer{g.blackPlayer, g.whitePlayer} {
		if ai, ok := p.(*AIPlayer); ok {
			return ai.LastStats(), true
		}
	}
	return ThinkingStats{}, false
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForColor(g.state.ToMove)
}

func (g *Game) playerForColor(color PlayerColor) IPlayer {
	if color == PlayerBlack {
		return g.blackPlayer
	}
	return g.whitePlayer
}

func (g *Game) createPlayers() {
	config := GetConfig()
	if g.settings.BlackType == PlayerHuman {
		g.blackPlayer = NewHumanPlayer()
	} else {
		g.blackPlayer = NewAIPlayer(PlayerBlack, config)
	}
	if g.settings.WhiteType == PlayerHuman {
		g.whitePlayer = NewHumanPlayer()
	} else {
		g.whitePlayer = NewAIPlayer(PlayerWhite, config)
	}
}
