package main

import (
	"testing"
	"time"
)

// plainMinimax is an exhaustive reference search: identical recursion
// to the engine's but with no pruning and no cache, so the pruned
// search can be checked against it move for move.
func plainMinimax(e *SearchEngine, b *Board, depth int, maximizing bool, lastX, lastY int) int {
	if lastX >= 0 && lastY >= 0 {
		if mover, ok := PlayerFromCell(b.At(lastX, lastY)); ok {
			if e.rules.CheckWinAtPosition(b, lastX, lastY, mover) {
				if mover == e.player {
					return winScore + depth
				}
				return -(winScore + depth)
			}
		}
	}
	if depth <= 0 {
		return e.evaluateBoard(b)
	}
	candidates := e.generateCandidates(b)
	if len(candidates) == 0 {
		return e.evaluateBoard(b)
	}
	e.orderCandidates(b, candidates)
	mover := e.opponent
	if maximizing {
		mover = e.player
	}
	bestScore := maxScore
	if maximizing {
		bestScore = minScore
	}
	for _, cand := range candidates {
		if !b.MakeMove(cand.Move.X, cand.Move.Y, mover) {
			continue
		}
		eval := plainMinimax(e, b, depth-1, !maximizing, cand.Move.X, cand.Move.Y)
		b.UndoLastMove()
		if maximizing {
			if eval > bestScore {
				bestScore = eval
			}
		} else {
			if eval < bestScore {
				bestScore = eval
			}
		}
	}
	return bestScore
}

func plainBestMove(e *SearchEngine, b *Board, depth int) MoveEvaluation {
	candidates := e.generateCandidates(b)
	if len(candidates) == 0 {
		return NoMove()
	}
	e.orderCandidates(b, candidates)
	best := NoMove()
	for _, cand := range candidates {
		if !b.MakeMove(cand.Move.X, cand.Move.Y, e.player) {
			continue
		}
		score := plainMinimax(e, b, depth-1, false, cand.Move.X, cand.Move.Y)
		b.UndoLastMove()
		if score > best.Score {
			best = MoveEvaluation{Move: cand.Move, Score: score, Depth: depth}
		}
	}
	return best
}

func midgameBoard(t *testing.T) Board {
	t.Helper()
	board := NewBoard(15)
	moves := []PlacedStone{
		{X: 7, Y: 7, Player: PlayerBlack},
		{X: 7, Y: 8, Player: PlayerWhite},
		{X: 8, Y: 8, Player: PlayerBlack},
		{X: 8, Y: 7, Player: PlayerWhite},
		{X: 6, Y: 7, Player: PlayerBlack},
		{X: 9, Y: 9, Player: PlayerWhite},
	}
	for _, m := range moves {
		if !board.MakeMove(m.X, m.Y, m.Player) {
			t.Fatalf("setup move (%d,%d) failed", m.X, m.Y)
		}
	}
	return board
}

func TestAlphaBetaMatchesPlainMinimax(t *testing.T) {
	for depth := 1; depth <= 4; depth++ {
		board := midgameBoard(t)
		// The narrow candidate cap keeps the exhaustive reference
		// tractable at depth 4.
		difficulty := DifficultyEasy
		if depth == 4 {
			difficulty = DifficultyBeginner
		}
		engine := NewSearchEngineSeeded(PlayerBlack, difficulty, StyleBalanced, 1)
		before := board.Clone()

		got := engine.findBestMoveAtDepth(&board, depth)
		want := plainBestMove(engine, &board, depth)

		if !got.Move.Equals(want.Move) {
			t.Fatalf("depth %d: pruned search chose (%d,%d), exhaustive chose (%d,%d)",
				depth, got.Move.X, got.Move.Y, want.Move.X, want.Move.Y)
		}
		if got.Score != want.Score {
			t.Fatalf("depth %d: pruned score %d, exhaustive score %d", depth, got.Score, want.Score)
		}
		boardsEqual(t, &before, &board)
	}
}

func TestCandidateGenerationBounds(t *testing.T) {
	board := NewBoard(15)
	// Scatter stones so the radius-2 neighborhood is far larger than
	// any difficulty's candidate cap.
	player := PlayerBlack
	for _, pos := range [][2]int{{2, 2}, {5, 5}, {8, 8}, {11, 11}, {2, 11}, {11, 2}, {7, 3}, {3, 7}} {
		board.MakeMove(pos[0], pos[1], player)
		player = otherPlayer(player)
	}
	for _, difficulty := range []Difficulty{DifficultyBeginner, DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert} {
		engine := NewSearchEngineSeeded(PlayerBlack, difficulty, StyleBalanced, 1)
		candidates := engine.generateCandidates(&board)
		if len(candidates) > maxCandidatesFor(difficulty) {
			t.Fatalf("%s: %d candidates exceeds cap %d", difficulty, len(candidates), maxCandidatesFor(difficulty))
		}
		if len(candidates) == 0 {
			t.Fatalf("%s: expected candidates near stones", difficulty)
		}
		for _, cand := range candidates {
			if board.At(cand.Move.X, cand.Move.Y) != CellEmpty {
				t.Fatalf("candidate (%d,%d) is occupied", cand.Move.X, cand.Move.Y)
			}
			if !board.hasAdjacentStone(cand.Move.X, cand.Move.Y, defaultNeighborRadius) {
				t.Fatalf("candidate (%d,%d) has no nearby stone", cand.Move.X, cand.Move.Y)
			}
		}
	}
}

func TestCriticalCandidatesComeFirst(t *testing.T) {
	board := NewBoard(15)
	// Black open four: its two extensions are win cells for black and
	// must be flagged even at the smallest candidate cap.
	placeRun(t, &board, 5, 7, 1, 0, 4, PlayerBlack)
	board.MakeMove(5, 9, PlayerWhite)
	engine := NewSearchEngineSeeded(PlayerBlack, DifficultyBeginner, StyleBalanced, 1)
	candidates := engine.generateCandidates(&board)
	if len(candidates) < 2 {
		t.Fatalf("expected at least the two win cells, got %d", len(candidates))
	}
	if !candidates[0].IsWinning || !candidates[1].IsWinning {
		t.Fatalf("win cells must lead the candidate list: %+v", candidates[:2])
	}
	if candidates[0].Move.X != 4 || candidates[0].Move.Y != 7 {
		t.Fatalf("first critical cell should be (4,7), got (%d,%d)", candidates[0].Move.X, candidates[0].Move.Y)
	}

	// Same four seen from white: the cells are blocking, not winning.
	white := NewSearchEngineSeeded(PlayerWhite, DifficultyBeginner, StyleBalanced, 1)
	candidates = white.generateCandidates(&board)
	if !candidates[0].IsBlocking {
		t.Fatalf("white must flag black's win cell as blocking: %+v", candidates[0])
	}
}

func TestOpeningMoveIsCenter(t *testing.T) {
	board := NewBoard(15)
	engine := NewSearchEngineSeeded(PlayerBlack, DifficultyMedium, StyleBalanced, 1)
	result := engine.FindBestMove(&board)
	if result.Move.X != 7 || result.Move.Y != 7 {
		t.Fatalf("opening on empty 15x15 must be (7,7), got (%d,%d)", result.Move.X, result.Move.Y)
	}
	if result.Score != openingScore {
		t.Fatalf("opening score must be %d, got %d", openingScore, result.Score)
	}

	big := NewBoard(25)
	result = engine.FindBestMove(&big)
	if result.Move.X != 12 || result.Move.Y != 12 {
		t.Fatalf("opening on empty 25x25 must be (12,12), got (%d,%d)", result.Move.X, result.Move.Y)
	}
}

func TestImmediateWinTaken(t *testing.T) {
	for _, difficulty := range []Difficulty{DifficultyBeginner, DifficultyExpert} {
		board := NewBoard(15)
		// Black four with both extensions open; (4,7) comes first in
		// scan order.
		placeRun(t, &board, 5, 7, 1, 0, 4, PlayerBlack)
		board.MakeMove(5, 9, PlayerWhite)
		engine := NewSearchEngineSeeded(PlayerBlack, difficulty, StyleBalanced, 1)
		result := engine.FindBestMove(&board)
		if !result.IsWinning || result.Score != immediateWinScore {
			t.Fatalf("%s: expected immediate win, got %+v", difficulty, result)
		}
		if result.Move.X != 4 || result.Move.Y != 7 {
			t.Fatalf("%s: expected (4,7), got (%d,%d)", difficulty, result.Move.X, result.Move.Y)
		}
	}
}

func TestBlockOpponentWin(t *testing.T) {
	board := NewBoard(15)
	// White four blocked on the left: only (9,7) saves black.
	board.MakeMove(4, 7, PlayerBlack)
	placeRun(t, &board, 5, 7, 1, 0, 4, PlayerWhite)
	board.MakeMove(3, 3, PlayerBlack)
	engine := NewSearchEngineSeeded(PlayerBlack, DifficultyMedium, StyleBalanced, 1)
	result := engine.FindBestMove(&board)
	if !result.IsBlocking || result.Score != blockWinScore {
		t.Fatalf("expected forced block, got %+v", result)
	}
	if result.Move.X != 9 || result.Move.Y != 7 {
		t.Fatalf("expected block at (9,7), got (%d,%d)", result.Move.X, result.Move.Y)
	}
}

func TestWinPreferredOverBlock(t *testing.T) {
	board := NewBoard(15)
	// Both sides have an open four. Black to move must take its own
	// win even though white's threat cells come earlier in scan order.
	placeRun(t, &board, 5, 2, 1, 0, 4, PlayerWhite)
	placeRun(t, &board, 5, 10, 1, 0, 4, PlayerBlack)
	engine := NewSearchEngineSeeded(PlayerBlack, DifficultyMedium, StyleBalanced, 1)
	result := engine.FindBestMove(&board)
	if !result.IsWinning {
		t.Fatalf("must take the win, not block: %+v", result)
	}
	if result.Move.Y != 10 {
		t.Fatalf("winning move must be on black's row, got (%d,%d)", result.Move.X, result.Move.Y)
	}
}

func TestNoMoveSentinels(t *testing.T) {
	full := NewBoard(15)
	fillDraw(t, &full)
	engine := NewSearchEngineSeeded(PlayerBlack, DifficultyMedium, StyleBalanced, 1)
	if result := engine.FindBestMove(&full); result.IsValid(full.Size()) {
		t.Fatalf("full board must yield the no-move sentinel, got %+v", result)
	}

	bad := NewSearchEngineSeeded(PlayerBlack, DifficultyMedium, StyleBalanced, 1)
	bad.player = PlayerNone
	board := NewBoard(15)
	board.MakeMove(7, 7, PlayerBlack)
	if result := bad.FindBestMove(&board); result.IsValid(board.Size()) {
		t.Fatalf("invalid player must yield the no-move sentinel, got %+v", result)
	}
}

func TestSearchRestoresBoard(t *testing.T) {
	board := midgameBoard(t)
	before := board.Clone()
	engine := NewSearchEngineSeeded(PlayerBlack, DifficultyMedium, StyleBalanced, 1)
	engine.FindBestMove(&board)
	boardsEqual(t, &before, &board)
}

func TestTimedSearchCompletesDepths(t *testing.T) {
	board := midgameBoard(t)
	engine := NewSearchEngineSeeded(PlayerBlack, DifficultyEasy, StyleBalanced, 1)

	// A generous budget completes every depth.
	result := engine.FindBestMoveTimed(&board, time.Hour)
	if !result.IsValid(board.Size()) {
		t.Fatalf("expected a move, got %+v", result)
	}
	if engine.LastStats().CompletedDepths != int(DifficultyEasy) {
		t.Fatalf("expected %d completed depths, got %d", int(DifficultyEasy), engine.LastStats().CompletedDepths)
	}

	// A tiny budget still finishes depth one; the check runs only
	// between iterations.
	result = engine.FindBestMoveTimed(&board, time.Nanosecond)
	if !result.IsValid(board.Size()) {
		t.Fatalf("expected a move under a tiny budget, got %+v", result)
	}
	if engine.LastStats().CompletedDepths < 1 {
		t.Fatalf("depth one must always complete, got %d", engine.LastStats().CompletedDepths)
	}

	// Zero budget means unlimited.
	result = engine.FindBestMoveTimed(&board, 0)
	if engine.LastStats().CompletedDepths != int(DifficultyEasy) {
		t.Fatalf("zero budget must run all depths, got %d", engine.LastStats().CompletedDepths)
	}
	_ = result
}

func TestGetTopMovesSortedAndTruncated(t *testing.T) {
	board := midgameBoard(t)
	engine := NewSearchEngineSeeded(PlayerBlack, DifficultyEasy, StyleBalanced, 1)
	moves := engine.GetTopMoves(&board, 3)
	if len(moves) != 3 {
		t.Fatalf("expected 3 moves, got %d", len(moves))
	}
	for i := 1; i < len(moves); i++ {
		if moves[i].Score > moves[i-1].Score {
			t.Fatalf("top moves not sorted at %d: %d > %d", i, moves[i].Score, moves[i-1].Score)
		}
	}
	// GetTopMoves searches each candidate to depth 2 below the trial
	// move, the same horizon findBestMoveAtDepth(3) uses, so the best
	// scores must agree even if tie-broken moves differ.
	best := engine.findBestMoveAtDepth(&board, 3)
	if moves[0].Score != best.Score {
		t.Fatalf("top score %d disagrees with search score %d", moves[0].Score, best.Score)
	}
}

func TestSharedCacheKeepsPerspectivesApart(t *testing.T) {
	board := midgameBoard(t)
	// White's cache-free result is the ground truth.
	plain := NewSearchEngineSeeded(PlayerWhite, DifficultyEasy, StyleBalanced, 1)
	want := plain.findBestMoveAtDepth(&board, 2)

	// Black searches first and fills the shared table with scores from
	// its own point of view, for the very positions white will visit.
	cache := NewTranspositionTable(1<<12, 4)
	black := NewSearchEngineSeeded(PlayerBlack, DifficultyEasy, StyleBalanced, 1)
	black.SetCache(cache, 99)
	black.findBestMoveAtDepth(&board, 2)
	if cache.Count() == 0 {
		t.Fatalf("black's search must populate the table")
	}

	// White sharing the table must not read black's entries.
	white := NewSearchEngineSeeded(PlayerWhite, DifficultyEasy, StyleBalanced, 1)
	white.SetCache(cache, 99)
	got := white.findBestMoveAtDepth(&board, 2)
	if got.Score != want.Score {
		t.Fatalf("shared cache changed white's score: got %d, want %d", got.Score, want.Score)
	}
	if !got.Move.Equals(want.Move) {
		t.Fatalf("shared cache changed white's move: got (%d,%d), want (%d,%d)",
			got.Move.X, got.Move.Y, want.Move.X, want.Move.Y)
	}
}

func TestCacheOnlySpeedsUpSearch(t *testing.T) {
	board := midgameBoard(t)
	plain := NewSearchEngineSeeded(PlayerBlack, DifficultyEasy, StyleBalanced, 1)
	want := plain.findBestMoveAtDepth(&board, 2)

	cached := NewSearchEngineSeeded(PlayerBlack, DifficultyEasy, StyleBalanced, 1)
	cached.SetCache(NewTranspositionTable(1<<12, 4), 99)
	// Twice: the second run probes what the first stored.
	cached.findBestMoveAtDepth(&board, 2)
	got := cached.findBestMoveAtDepth(&board, 2)
	if got.Score != want.Score || !got.Move.Equals(want.Move) {
		t.Fatalf("cache changed the result: got (%d,%d) %d, want (%d,%d) %d",
			got.Move.X, got.Move.Y, got.Score, want.Move.X, want.Move.Y, want.Score)
	}
}

func TestMaxDepthReachedTracksIteration(t *testing.T) {
	board := midgameBoard(t)
	engine := NewSearchEngineSeeded(PlayerBlack, DifficultyExpert, StyleBalanced, 1)
	// Only the depth-1 iteration fits the budget, so no node is ever
	// more than one ply from the root.
	engine.FindBestMoveTimed(&board, time.Nanosecond)
	stats := engine.LastStats()
	if stats.CompletedDepths != 1 {
		t.Fatalf("expected a single completed depth, got %d", stats.CompletedDepths)
	}
	if stats.MaxDepthReached != 1 {
		t.Fatalf("depth-1 pass must report 1 reached, got %d", stats.MaxDepthReached)
	}
}

func TestGetTopMovesOnEmptyBoard(t *testing.T) {
	board := NewBoard(15)
	engine := NewSearchEngineSeeded(PlayerBlack, DifficultyMedium, StyleBalanced, 1)
	moves := engine.GetTopMoves(&board, 5)
	if len(moves) != 1 {
		t.Fatalf("empty board must suggest exactly the opening, got %d moves", len(moves))
	}
	if moves[0].Move.X != 7 || moves[0].Move.Y != 7 || moves[0].Score != openingScore {
		t.Fatalf("expected center opening, got %+v", moves[0])
	}
}

func TestPromoteMove(t *testing.T) {
	candidates := []MoveEvaluation{
		{Move: Move{X: 1, Y: 1}},
		{Move: Move{X: 2, Y: 2}},
		{Move: Move{X: 3, Y: 3}},
		{Move: Move{X: 4, Y: 4}},
	}
	promoteMove(candidates, Move{X: 3, Y: 3})
	want := [][2]int{{3, 3}, {1, 1}, {2, 2}, {4, 4}}
	for i, w := range want {
		if candidates[i].Move.X != w[0] || candidates[i].Move.Y != w[1] {
			t.Fatalf("after promote, slot %d = (%d,%d), want (%d,%d)",
				i, candidates[i].Move.X, candidates[i].Move.Y, w[0], w[1])
		}
	}
	// A move not in the list leaves it untouched.
	promoteMove(candidates, Move{X: 9, Y: 9})
	if candidates[0].Move.X != 3 {
		t.Fatalf("promote of absent move must be a no-op")
	}
}

func TestRandomMoveSeeded(t *testing.T) {
	board := NewBoard(15)
	board.MakeMove(7, 7, PlayerBlack)
	a := NewSearchEngineSeeded(PlayerWhite, DifficultyMedium, StyleBalanced, 42)
	b := NewSearchEngineSeeded(PlayerWhite, DifficultyMedium, StyleBalanced, 42)
	first := a.randomMove(&board)
	second := b.randomMove(&board)
	if !first.Move.Equals(second.Move) {
		t.Fatalf("same seed must pick the same cell: (%d,%d) vs (%d,%d)",
			first.Move.X, first.Move.Y, second.Move.X, second.Move.Y)
	}
	if board.At(first.Move.X, first.Move.Y) != CellEmpty {
		t.Fatalf("random move must land on an empty cell")
	}

	full := NewBoard(15)
	fillDraw(t, &full)
	if result := a.randomMove(&full); result.IsValid(full.Size()) {
		t.Fatalf("no empty cell must yield the sentinel, got %+v", result)
	}
}
