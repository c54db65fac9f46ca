package main

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// AIPlayer wraps a SearchEngine for the game loop: the search runs on
// a worker goroutine over a cloned board, so websocket clients keep
// getting ticks while the engine thinks. The engine itself stays
// single-threaded, exactly one search in flight per player.
type AIPlayer struct {
	engine     *SearchEngine
	moveMutex  sync.Mutex
	workerDone chan struct{}
	thinking   atomic.Bool
	moveReady  atomic.Bool
	readyMove  MoveEvaluation
}

func NewAIPlayer(color PlayerColor, config Config) *AIPlayer {
	difficulty, _ := ParseDifficulty(config.AiDifficulty)
	style, _ := ParsePlayStyle(config.AiPlayStyle)
	var engine *SearchEngine
	if config.AiRandomSeed != 0 {
		engine = NewSearchEngineSeeded(color, difficulty, style, config.AiRandomSeed)
	} else {
		engine = NewSearchEngine(color, difficulty, style)
	}
	if cache := SharedSearchCache(config); cache != nil {
		engine.SetCache(cache, searchConfigHash(config))
	}
	return &AIPlayer{engine: engine}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) Engine() *SearchEngine {
	return a.engine
}

// ChooseMove is the synchronous path used by tests and by callers that
// do not need a background worker.
func (a *AIPlayer) ChooseMove(state GameState, rules Rules) Move {
	board := state.Board.Clone()
	result := a.searchBoard(&board, GetConfig())
	return result.Move
}

func (a *AIPlayer) StartThinking(state GameState) {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)

	board := state.Board.Clone()
	done := make(chan struct{})
	a.workerDone = done
	config := GetConfig()
	go func() {
		defer close(done)
		result := a.searchBoard(&board, config)
		a.moveMutex.Lock()
		a.readyMove = result
		a.moveMutex.Unlock()
		a.moveReady.Store(true)
		a.thinking.Store(false)
	}()
}

func (a *AIPlayer) searchBoard(b *Board, config Config) MoveEvaluation {
	var result MoveEvaluation
	if config.AiTimeBudgetMs > 0 {
		result = a.engine.FindBestMoveTimed(b, time.Duration(config.AiTimeBudgetMs)*time.Millisecond)
	} else {
		result = a.engine.FindBestMove(b)
	}
	if config.AiLogSearchStats {
		logSearchStats("search", a.engine)
	}
	if a.engine.cache != nil {
		a.engine.cache.NextGeneration()
	}
	return result
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeMove() MoveEvaluation {
	a.moveMutex.Lock()
	defer a.moveMutex.Unlock()
	a.moveReady.Store(false)
	return a.readyMove
}

func (a *AIPlayer) LastStats() ThinkingStats {
	return a.engine.LastStats()
}

var (
	searchCacheMu sync.Mutex
	searchCache   *TranspositionTable
)

// SharedSearchCache returns the process-wide transposition table, or
// nil when caching is disabled. All AI players and the suggest
// endpoint share one table; entries are keyed by position hash plus a
// fingerprint carrying the search config and the probing engine's
// perspective, so sharing across sides is safe.
func SharedSearchCache(config Config) *TranspositionTable {
	if !config.AiEnableCache {
		return nil
	}
	searchCacheMu.Lock()
	defer searchCacheMu.Unlock()
	if searchCache == nil {
		searchCache = NewTranspositionTable(uint64(config.AiCacheSize), config.AiCacheBuckets)
	}
	return searchCache
}

func logSearchStats(tag string, e *SearchEngine) {
	stats := e.LastStats()
	fmt.Printf("[ai:%s] player=%d difficulty=%s style=%s t=%dms depth=%d completed=%d max_reached=%d nodes=%d prunes=%d cache_probe=%d cache_hit=%d cache_size=%d\n",
		tag,
		int(e.Player()),
		e.Difficulty(),
		e.PlayStyle(),
		stats.TimeElapsed.Milliseconds(),
		e.maxDepth,
		stats.CompletedDepths,
		stats.MaxDepthReached,
		stats.NodesEvaluated,
		stats.PruningCount,
		stats.CacheProbes,
		stats.CacheHits,
		e.cache.Count(),
	)
}
