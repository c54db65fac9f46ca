package main

import (
	"hash/fnv"
	"sync"
)

type Config struct {
	AiDifficulty     string `json:"ai_difficulty"`
	AiPlayStyle      string `json:"ai_play_style"`
	AiTimeBudgetMs   int    `json:"ai_time_budget_ms"`
	AiEnableCache    bool   `json:"ai_enable_cache"`
	AiCacheSize      int    `json:"ai_cache_size"`
	AiCacheBuckets   int    `json:"ai_cache_buckets"`
	AiLogSearchStats bool   `json:"ai_log_search_stats"`
	AiRandomSeed     int64  `json:"ai_random_seed"`
}

func DefaultConfig() Config {
	return Config{
		AiDifficulty: DifficultyMedium.String(),
		AiPlayStyle:  StyleBalanced.String(),

		// Time budget mode: 0 means fixed-depth search.
		AiTimeBudgetMs: 0,

		// Shared transposition table; a pure speed lever, the search
		// is correct without it.
		AiEnableCache:  true,
		AiCacheSize:    1 << 16,
		AiCacheBuckets: 4,

		AiLogSearchStats: false, // turn ON temporarily to tune

		// 0 seeds the random fallback from the clock.
		AiRandomSeed: 0,
	}
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}

// searchConfigHash fingerprints the knobs that change search results.
// Cached entries tagged with an old fingerprint stop matching after a
// tuning change, without a table flush.
func searchConfigHash(config Config) uint64 {
	h := fnv.New64a()
	h.Write([]byte(config.AiDifficulty))
	h.Write([]byte{0})
	h.Write([]byte(config.AiPlayStyle))
	mix := splitmix64{state: h.Sum64()}
	return mix.next()
}
