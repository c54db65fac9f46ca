package main

import (
	"math/rand"
	"sort"
	"time"
)

const (
	openingScore      = 1000
	immediateWinScore = 1000000
	blockWinScore     = 999999
	winScore          = 1000000000
	minScore          = -1 << 62
	maxScore          = 1 << 62
)

// ThinkingStats is a diagnostic side output of a search call. It is
// consumed by the suggest endpoint and the stats log line, never by
// game logic.
type ThinkingStats struct {
	NodesEvaluated  int           `json:"nodes_evaluated"`
	PruningCount    int           `json:"pruning_count"`
	MaxDepthReached int           `json:"max_depth_reached"`
	CompletedDepths int           `json:"completed_depths"`
	CacheProbes     int           `json:"cache_probes"`
	CacheHits       int           `json:"cache_hits"`
	TimeElapsed     time.Duration `json:"time_elapsed_ns"`
}

// SearchEngine picks moves for one side via candidate-bounded minimax
// with alpha-beta pruning. It owns the board it is handed only for the
// duration of one search call: every trial move is undone before the
// call returns (mutate-then-undo, never clone-per-node).
type SearchEngine struct {
	player        PlayerColor
	opponent      PlayerColor
	rules         Rules
	difficulty    Difficulty
	playStyle     PlayStyle
	maxDepth      int
	maxCandidates int
	rootDepth     int
	rng           *rand.Rand
	cache         *TranspositionTable
	configHash    uint64
	stats         ThinkingStats
}

func NewSearchEngine(player PlayerColor, difficulty Difficulty, style PlayStyle) *SearchEngine {
	return NewSearchEngineSeeded(player, difficulty, style, time.Now().UnixNano())
}

// NewSearchEngineSeeded takes an explicit seed so the random fallback
// is reproducible in tests.
func NewSearchEngineSeeded(player PlayerColor, difficulty Difficulty, style PlayStyle, seed int64) *SearchEngine {
	e := &SearchEngine{
		player:    player,
		opponent:  otherPlayer(player),
		rules:     NewRules(),
		playStyle: style,
		rng:       rand.New(rand.NewSource(seed)),
	}
	e.SetDifficulty(difficulty)
	return e
}

func (e *SearchEngine) SetDifficulty(difficulty Difficulty) {
	e.difficulty = difficulty
	e.maxDepth = int(difficulty)
	if e.maxDepth < 1 {
		e.maxDepth = int(DifficultyMedium)
		e.difficulty = DifficultyMedium
	}
	e.maxCandidates = maxCandidatesFor(e.difficulty)
}

func (e *SearchEngine) SetPlayStyle(style PlayStyle) {
	e.playStyle = style
}

func (e *SearchEngine) Difficulty() Difficulty {
	return e.difficulty
}

func (e *SearchEngine) PlayStyle() PlayStyle {
	return e.playStyle
}

func (e *SearchEngine) Player() PlayerColor {
	return e.player
}

// SetCache attaches a shared transposition table. Without one the
// search is pure minimax; the cache changes only speed, and only the
// server path enables it.
//
// Scores are stored from this engine's perspective, so the fingerprint
// folds the perspective in: the other side probing the same position
// must miss rather than read a sign-flipped score.
func (e *SearchEngine) SetCache(cache *TranspositionTable, configHash uint64) {
	e.cache = cache
	mix := splitmix64{state: configHash ^ uint64(e.player)}
	e.configHash = mix.next()
}

func (e *SearchEngine) LastStats() ThinkingStats {
	return e.stats
}

// FindBestMove picks a move at the full difficulty depth:
// center opening, forced win/block short-circuits, then candidate
// search. Returns the no-move sentinel when nothing is playable.
func (e *SearchEngine) FindBestMove(b *Board) MoveEvaluation {
	start := time.Now()
	e.stats = ThinkingStats{}
	defer func() { e.stats.TimeElapsed = time.Since(start) }()

	if e.player != PlayerBlack && e.player != PlayerWhite {
		return NoMove()
	}
	if b.IsFull() {
		return NoMove()
	}
	if b.IsEmpty() {
		return e.openingMove(b)
	}
	if forced, ok := e.findForcedMove(b); ok {
		return forced
	}
	if len(e.generateCandidates(b)) == 0 {
		return e.randomMove(b)
	}
	best := e.findBestMoveAtDepth(b, e.maxDepth)
	e.stats.CompletedDepths = e.maxDepth
	return best
}

// FindBestMoveTimed runs iterative deepening under a wall-clock
// budget. The clock is checked only between whole-depth iterations, so
// the mutate-then-undo invariant never has to survive a mid-recursion
// abort; a timeout returns the deepest fully completed result.
func (e *SearchEngine) FindBestMoveTimed(b *Board, budget time.Duration) MoveEvaluation {
	start := time.Now()
	e.stats = ThinkingStats{}
	defer func() { e.stats.TimeElapsed = time.Since(start) }()

	if e.player != PlayerBlack && e.player != PlayerWhite {
		return NoMove()
	}
	if b.IsFull() {
		return NoMove()
	}
	if b.IsEmpty() {
		return e.openingMove(b)
	}
	if forced, ok := e.findForcedMove(b); ok {
		return forced
	}
	if len(e.generateCandidates(b)) == 0 {
		return e.randomMove(b)
	}

	best := NoMove()
	for depth := 1; depth <= e.maxDepth; depth++ {
		if depth > 1 && budget > 0 && time.Since(start) >= budget {
			break
		}
		best = e.findBestMoveAtDepth(b, depth)
		e.stats.CompletedDepths = depth
	}
	return best
}

// GetTopMoves scores every candidate with a depth-capped search and
// returns the best count of them, for analysis display.
func (e *SearchEngine) GetTopMoves(b *Board, count int) []MoveEvaluation {
	if count <= 0 {
		count = 5
	}
	if e.player != PlayerBlack && e.player != PlayerWhite {
		return nil
	}
	if b.IsEmpty() {
		return []MoveEvaluation{e.openingMove(b)}
	}
	candidates := e.generateCandidates(b)
	depth := e.maxDepth
	if depth > 4 {
		depth = 4
	}
	// Each candidate is searched depth plies below the trial move.
	e.rootDepth = depth + 1
	hash := BoardHash(b, e.player)
	for i := range candidates {
		move := candidates[i].Move
		if !b.MakeMove(move.X, move.Y, e.player) {
			continue
		}
		childHash := UpdateHashAfterMove(hash, b.Size(), move, e.player)
		candidates[i].Score = e.minimax(b, depth, false, minScore, maxScore, move.X, move.Y, childHash)
		candidates[i].Depth = depth
		b.UndoLastMove()
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates
}

func (e *SearchEngine) openingMove(b *Board) MoveEvaluation {
	size := b.Size()
	return MoveEvaluation{Move: Move{X: size / 2, Y: size / 2}, Score: openingScore}
}

// findForcedMove scans for one-move tactics: take an immediate win if
// one exists, otherwise block the opponent's.
func (e *SearchEngine) findForcedMove(b *Board) (MoveEvaluation, bool) {
	size := b.Size()
	var block MoveEvaluation
	haveBlock := false
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !b.regionActive(x, y) || b.At(x, y) != CellEmpty {
				continue
			}
			if e.rules.IsWinningThreat(b, x, y, e.player) {
				return MoveEvaluation{Move: Move{X: x, Y: y}, Score: immediateWinScore, IsWinning: true}, true
			}
			if !haveBlock && e.rules.IsWinningThreat(b, x, y, e.opponent) {
				block = MoveEvaluation{Move: Move{X: x, Y: y}, Score: blockWinScore, IsBlocking: true}
				haveBlock = true
			}
		}
	}
	return block, haveBlock
}

// generateCandidates builds the bounded candidate set: critical cells
// first (create or block a five), then empty cells within radius 2 of
// a stone, deduplicated and truncated to the difficulty's cap.
func (e *SearchEngine) generateCandidates(b *Board) []MoveEvaluation {
	size := b.Size()
	seen := make([]bool, size*size)
	var candidates []MoveEvaluation
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !b.regionActive(x, y) || b.At(x, y) != CellEmpty {
				continue
			}
			if e.rules.IsWinningThreat(b, x, y, e.player) {
				candidates = append(candidates, MoveEvaluation{Move: Move{X: x, Y: y}, Score: immediateWinScore, IsWinning: true})
				seen[y*size+x] = true
			} else if e.rules.IsWinningThreat(b, x, y, e.opponent) {
				candidates = append(candidates, MoveEvaluation{Move: Move{X: x, Y: y}, Score: blockWinScore, IsBlocking: true})
				seen[y*size+x] = true
			}
		}
	}
	for _, move := range b.EmptyCellsNearStones(defaultNeighborRadius) {
		idx := move.Y*size + move.X
		if seen[idx] {
			continue
		}
		seen[idx] = true
		candidates = append(candidates, MoveEvaluation{Move: move})
	}
	if len(candidates) > e.maxCandidates {
		candidates = candidates[:e.maxCandidates]
	}
	return candidates
}

// orderCandidates scores each candidate with the cheap single-ply
// heuristic and sorts best-first (stable, so ties keep scan order).
// Good ordering is what makes alpha-beta bite.
func (e *SearchEngine) orderCandidates(b *Board, candidates []MoveEvaluation) {
	for i := range candidates {
		candidates[i].Score = e.rules.EvaluatePosition(b, candidates[i].Move.X, candidates[i].Move.Y, e.player)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
}

func (e *SearchEngine) findBestMoveAtDepth(b *Board, depth int) MoveEvaluation {
	e.rootDepth = depth
	candidates := e.generateCandidates(b)
	if len(candidates) == 0 {
		return e.randomMove(b)
	}
	e.orderCandidates(b, candidates)
	hash := BoardHash(b, e.player)
	best := NoMove()
	for _, cand := range candidates {
		if !b.MakeMove(cand.Move.X, cand.Move.Y, e.player) {
			continue
		}
		childHash := UpdateHashAfterMove(hash, b.Size(), cand.Move, e.player)
		score := e.minimax(b, depth-1, false, minScore, maxScore, cand.Move.X, cand.Move.Y, childHash)
		b.UndoLastMove()
		// Strict greater keeps the first-seen candidate on ties.
		if score > best.Score {
			best = MoveEvaluation{Move: cand.Move, Score: score, Depth: depth}
		}
	}
	return best
}

func (e *SearchEngine) minimax(b *Board, depth int, maximizing bool, alpha, beta int, lastX, lastY int, hash uint64) int {
	e.stats.NodesEvaluated++
	// Depth from the root of the current iteration, not the configured
	// maximum: a depth-1 deepening pass reaches 1, not maxDepth.
	if reached := e.rootDepth - depth; reached > e.stats.MaxDepthReached {
		e.stats.MaxDepthReached = reached
	}

	// A win can only first appear at the stone just played.
	if lastX >= 0 && lastY >= 0 {
		if mover, ok := PlayerFromCell(b.At(lastX, lastY)); ok {
			if e.rules.CheckWinAtPosition(b, lastX, lastY, mover) {
				// Bias by remaining depth: win sooner, lose later.
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

	alphaOrig := alpha
	betaOrig := beta
	var cachedMove Move
	haveCachedMove := false
	if e.cache != nil {
		e.stats.CacheProbes++
		if entry, ok := e.cache.Probe(hash, e.configHash); ok {
			e.stats.CacheHits++
			if entry.Depth >= depth {
				score := int(entry.Score)
				switch entry.Flag {
				case TTExact:
					return score
				case TTLower:
					if score > alpha {
						alpha = score
					}
				case TTUpper:
					if score < beta {
						beta = score
					}
				}
				if alpha >= beta {
					return score
				}
			}
			if entry.BestMove.IsValid(b.Size()) {
				cachedMove = entry.BestMove
				haveCachedMove = true
			}
		}
	}

	candidates := e.generateCandidates(b)
	if len(candidates) == 0 {
		return e.evaluateBoard(b)
	}
	e.orderCandidates(b, candidates)
	if haveCachedMove {
		promoteMove(candidates, cachedMove)
	}

	mover := e.opponent
	if maximizing {
		mover = e.player
	}
	size := b.Size()
	var bestMove Move
	var bestScore int
	if maximizing {
		bestScore = minScore
	} else {
		bestScore = maxScore
	}
	for _, cand := range candidates {
		if !b.MakeMove(cand.Move.X, cand.Move.Y, mover) {
			continue
		}
		childHash := UpdateHashAfterMove(hash, size, cand.Move, mover)
		eval := e.minimax(b, depth-1, !maximizing, alpha, beta, cand.Move.X, cand.Move.Y, childHash)
		// Undo before any break so every exit path restores the board.
		b.UndoLastMove()
		if maximizing {
			if eval > bestScore {
				bestScore = eval
				bestMove = cand.Move
			}
			if eval > alpha {
				alpha = eval
			}
		} else {
			if eval < bestScore {
				bestScore = eval
				bestMove = cand.Move
			}
			if eval < beta {
				beta = eval
			}
		}
		if beta <= alpha {
			e.stats.PruningCount++
			break
		}
	}
	e.storeInCache(hash, depth, bestScore, alphaOrig, betaOrig, bestMove)
	return bestScore
}

func (e *SearchEngine) storeInCache(hash uint64, depth, score, alphaOrig, betaOrig int, best Move) {
	if e.cache == nil {
		return
	}
	flag := TTExact
	if score <= alphaOrig {
		flag = TTUpper
	} else if score >= betaOrig {
		flag = TTLower
	}
	e.cache.Store(hash, e.configHash, depth, score, flag, best)
}

// promoteMove moves the cached best move to the front of the candidate
// list, keeping the rest in order.
func promoteMove(candidates []MoveEvaluation, move Move) {
	for i := range candidates {
		if !candidates[i].Move.Equals(move) {
			continue
		}
		promoted := candidates[i]
		copy(candidates[1:i+1], candidates[:i])
		candidates[0] = promoted
		return
	}
}

// randomMove is the degenerate fallback when no candidate exists near
// any stone; it picks uniformly among all legal cells.
func (e *SearchEngine) randomMove(b *Board) MoveEvaluation {
	size := b.Size()
	var available []Move
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if b.At(x, y) == CellEmpty {
				available = append(available, Move{X: x, Y: y})
			}
		}
	}
	if len(available) == 0 {
		return NoMove()
	}
	move := available[e.rng.Intn(len(available))]
	return MoveEvaluation{Move: move}
}
