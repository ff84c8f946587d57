package cache

import "time"

// SegmentName identifies one of the manager's fixed capacity partitions.
type SegmentName string

const (
	SegmentPattern  SegmentName = "pattern"
	SegmentSolution SegmentName = "solution"
	SegmentDecision SegmentName = "decision"
	SegmentQuery    SegmentName = "query"
)

// Segment capacity shares of the total entry budget.
const (
	patternShare  = 0.35
	solutionShare = 0.25
	decisionShare = 0.20
	queryShare    = 0.20
)

// ManagerConfig configures the segmented cache manager.
type ManagerConfig struct {
	// TotalEntries is the overall entry budget split across segments.
	TotalEntries int `json:"totalEntries"`

	// DefaultTTL applies to the pattern, solution, and decision
	// segments. QueryTTL is the query segment's shorter lifetime:
	// identical queries repeat often but answers go stale quickly.
	DefaultTTL time.Duration `json:"defaultTtl"`
	QueryTTL   time.Duration `json:"queryTtl"`
}

// DefaultManagerConfig returns the default manager configuration.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		TotalEntries: 2000,
		DefaultTTL:   time.Hour,
		QueryTTL:     5 * time.Minute,
	}
}

// Manager partitions one entry budget into four independent segments,
// each its own BoundedCache with its own policy and TTL.
type Manager struct {
	segments map[SegmentName]*BoundedCache
}

// NewManager creates the four segments from the configured budget.
func NewManager(config ManagerConfig) *Manager {
	if config.TotalEntries <= 0 {
		config.TotalEntries = DefaultManagerConfig().TotalEntries
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = DefaultManagerConfig().DefaultTTL
	}
	if config.QueryTTL <= 0 {
		config.QueryTTL = DefaultManagerConfig().QueryTTL
	}

	budget := func(share float64) int {
		n := int(float64(config.TotalEntries) * share)
		if n < 1 {
			n = 1
		}
		return n
	}

	return &Manager{
		segments: map[SegmentName]*BoundedCache{
			SegmentPattern: New(Config{
				MaxEntries: budget(patternShare),
				TTL:        config.DefaultTTL,
				Policy:     PolicyLRU,
			}),
			SegmentSolution: New(Config{
				MaxEntries: budget(solutionShare),
				TTL:        config.DefaultTTL,
				Policy:     PolicyLRU,
			}),
			SegmentDecision: New(Config{
				MaxEntries: budget(decisionShare),
				TTL:        config.DefaultTTL,
				Policy:     PolicyLRU,
			}),
			SegmentQuery: New(Config{
				MaxEntries: budget(queryShare),
				TTL:        config.QueryTTL,
				Policy:     PolicyLFU,
			}),
		},
	}
}

// Segment returns the cache backing a named segment, or nil for an
// unknown name.
func (m *Manager) Segment(name SegmentName) *BoundedCache {
	return m.segments[name]
}

// CombinedStats sums hits, misses, evictions, and sizes across segments
// and derives the overall hit rate.
func (m *Manager) CombinedStats() Stats {
	var combined Stats
	for _, segment := range m.segments {
		stats := segment.Stats()
		combined.Hits += stats.Hits
		combined.Misses += stats.Misses
		combined.Evictions += stats.Evictions
		combined.Size += stats.Size
		combined.MaxSize += stats.MaxSize
	}
	if total := combined.Hits + combined.Misses; total > 0 {
		combined.HitRate = float64(combined.Hits) / float64(total)
	}
	return combined
}

// SegmentStats returns per-segment statistics keyed by segment name.
func (m *Manager) SegmentStats() map[SegmentName]Stats {
	result := make(map[SegmentName]Stats, len(m.segments))
	for name, segment := range m.segments {
		result[name] = segment.Stats()
	}
	return result
}

// Warm bulk-loads entries into a segment, bypassing eviction bookkeeping
// but honoring the size cap. Returns the number of entries loaded.
func (m *Manager) Warm(name SegmentName, entries map[string]interface{}) int {
	segment := m.segments[name]
	if segment == nil {
		return 0
	}
	loaded := 0
	for key, value := range entries {
		if segment.warm(key, value) {
			loaded++
		}
	}
	return loaded
}

// EvictExpired sweeps every segment and returns the total removed.
func (m *Manager) EvictExpired() int {
	removed := 0
	for _, segment := range m.segments {
		removed += segment.EvictExpired()
	}
	return removed
}

// Clear empties every segment.
func (m *Manager) Clear() {
	for _, segment := range m.segments {
		segment.Clear()
	}
}
