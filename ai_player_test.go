package main

import (
	"testing"
	"time"
)

func aiTestConfig() Config {
	config := DefaultConfig()
	config.AiDifficulty = "easy"
	config.AiEnableCache = false
	config.AiRandomSeed = 7
	return config
}

func TestNewAIPlayerUsesConfig(t *testing.T) {
	config := aiTestConfig()
	config.AiDifficulty = "expert"
	config.AiPlayStyle = "defensive"
	player := NewAIPlayer(PlayerWhite, config)
	engine := player.Engine()
	if engine.Difficulty() != DifficultyExpert {
		t.Fatalf("difficulty not applied: %s", engine.Difficulty())
	}
	if engine.PlayStyle() != StyleDefensive {
		t.Fatalf("style not applied: %s", engine.PlayStyle())
	}
	if engine.Player() != PlayerWhite {
		t.Fatalf("color not applied: %d", engine.Player())
	}
	if player.IsHuman() {
		t.Fatalf("AI player must not report human")
	}
}

func TestNewAIPlayerBadConfigFallsBack(t *testing.T) {
	config := aiTestConfig()
	config.AiDifficulty = "impossible"
	config.AiPlayStyle = "chaotic"
	player := NewAIPlayer(PlayerBlack, config)
	if player.Engine().Difficulty() != DifficultyMedium {
		t.Fatalf("bad difficulty must fall back to medium, got %s", player.Engine().Difficulty())
	}
	if player.Engine().PlayStyle() != StyleBalanced {
		t.Fatalf("bad style must fall back to balanced, got %s", player.Engine().PlayStyle())
	}
}

func TestSharedSearchCacheDisabled(t *testing.T) {
	config := DefaultConfig()
	config.AiEnableCache = false
	if SharedSearchCache(config) != nil {
		t.Fatalf("disabled cache must be nil")
	}
}

func TestAIPlayerChooseMoveBlocksThreat(t *testing.T) {
	settings := DefaultGameSettings()
	state := DefaultGameState(settings)
	state.Status = StatusPlaying
	// Black four blocked on the left: white must answer at (9,7).
	state.Board.MakeMove(4, 7, PlayerWhite)
	placeRun(t, &state.Board, 5, 7, 1, 0, 4, PlayerBlack)
	state.Board.MakeMove(3, 3, PlayerWhite)

	player := NewAIPlayer(PlayerWhite, aiTestConfig())
	move := player.ChooseMove(state, NewRules())
	if move.X != 9 || move.Y != 7 {
		t.Fatalf("expected block at (9,7), got (%d,%d)", move.X, move.Y)
	}
}

func TestAIPlayerAsyncSearch(t *testing.T) {
	settings := DefaultGameSettings()
	state := DefaultGameState(settings)
	state.Status = StatusPlaying
	state.Board.MakeMove(7, 7, PlayerBlack)
	state.Board.MakeMove(8, 8, PlayerWhite)
	state.Board.MakeMove(6, 6, PlayerBlack)
	state.ToMove = PlayerWhite

	player := NewAIPlayer(PlayerWhite, aiTestConfig())
	if player.HasMoveReady() {
		t.Fatalf("no move should be ready before thinking")
	}
	player.StartThinking(state)

	deadline := time.Now().Add(10 * time.Second)
	for !player.HasMoveReady() {
		if time.Now().After(deadline) {
			t.Fatalf("search did not finish in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if player.IsThinking() {
		t.Fatalf("thinking flag must clear once the move is ready")
	}

	result := player.TakeMove()
	if !result.IsValid(state.Board.Size()) {
		t.Fatalf("expected a playable move, got %+v", result)
	}
	if state.Board.At(result.Move.X, result.Move.Y) != CellEmpty {
		t.Fatalf("move (%d,%d) targets an occupied cell", result.Move.X, result.Move.Y)
	}
	if player.HasMoveReady() {
		t.Fatalf("TakeMove must consume the ready move")
	}
	if player.LastStats().NodesEvaluated == 0 {
		t.Fatalf("expected search stats after thinking")
	}
}

func TestAIPlayerStartThinkingIsIdempotentWhileBusy(t *testing.T) {
	settings := DefaultGameSettings()
	settings.BoardSize = 20
	state := DefaultGameState(settings)
	state.Status = StatusPlaying
	state.Board.MakeMove(10, 10, PlayerBlack)
	state.ToMove = PlayerWhite

	player := NewAIPlayer(PlayerWhite, aiTestConfig())
	player.StartThinking(state)
	// A second call while a search is in flight must not start a
	// second worker or panic; it simply returns.
	player.StartThinking(state)

	deadline := time.Now().Add(10 * time.Second)
	for !player.HasMoveReady() {
		if time.Now().After(deadline) {
			t.Fatalf("search did not finish in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
	result := player.TakeMove()
	if !result.IsValid(state.Board.Size()) {
		t.Fatalf("expected a playable move, got %+v", result)
	}
}

func TestSearchConfigHashTracksSearchKnobs(t *testing.T) {
	base := DefaultConfig()
	changedDifficulty := base
	changedDifficulty.AiDifficulty = "expert"
	changedStyle := base
	changedStyle.AiPlayStyle = "aggressive"
	cosmetic := base
	cosmetic.AiLogSearchStats = !base.AiLogSearchStats
	cosmetic.AiCacheSize = base.AiCacheSize * 2

	if searchConfigHash(base) == searchConfigHash(changedDifficulty) {
		t.Fatalf("difficulty change must change the fingerprint")
	}
	if searchConfigHash(base) == searchConfigHash(changedStyle) {
		t.Fatalf("style change must change the fingerprint")
	}
	if searchConfigHash(base) != searchConfigHash(cosmetic) {
		t.Fatalf("non-search knobs must not change the fingerprint")
	}
}
