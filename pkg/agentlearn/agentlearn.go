// Package agentlearn provides the public API for the adaptive learning
// engine: pattern recognition over recorded agent actions, success
// weighting for patterns, solutions, and decisions, and tabular
// reinforcement learning for action selection.
//
// Example:
//
//	engine, err := agentlearn.NewEngine(agentlearn.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	patterns := engine.MinePatterns(actions, "agent-1")
//	for _, p := range patterns {
//	    result := engine.ScorePattern(p, nil, nil)
//	    fmt.Println(p.Name, result.TotalWeight, result.Recommendation)
//	}
package agentlearn

import (
	"fmt"

	"github.com/agentkit/agentlearn/internal/domain/learning"
	"github.com/agentkit/agentlearn/internal/domain/policy"
	"github.com/agentkit/agentlearn/internal/infrastructure/cache"
	"github.com/agentkit/agentlearn/internal/infrastructure/persistence"
	"github.com/agentkit/agentlearn/internal/infrastructure/recognition"
	"github.com/agentkit/agentlearn/internal/infrastructure/rl"
	"github.com/agentkit/agentlearn/internal/infrastructure/weighting"
	"github.com/agentkit/agentlearn/internal/shared"
)

// Re-export types for public API
type (
	// Domain records
	ActionRecord     = learning.ActionRecord
	ActionSequence   = learning.ActionSequence
	Pattern          = learning.Pattern
	PatternBody      = learning.PatternBody
	Approach         = learning.Approach
	Solution         = learning.Solution
	Decision         = learning.Decision
	ExecutionOutcome = learning.ExecutionOutcome

	// Configuration
	RecognitionConfig = learning.RecognitionConfig
	WeightingConfig   = learning.WeightingConfig
	FactorWeights     = learning.FactorWeights
	LearnerConfig     = policy.LearnerConfig
	ManagerConfig     = cache.ManagerConfig

	// Scoring
	WeightResult       = weighting.WeightResult
	FactorBreakdown    = weighting.FactorBreakdown
	ConfidenceInterval = weighting.ConfidenceInterval
	Strength           = weighting.Strength
	PerformanceHistory = weighting.PerformanceHistory
	ValidationResult   = recognition.ValidationResult

	// Reinforcement learning
	State        = policy.State
	Action       = policy.Action
	Reward       = policy.Reward
	QValueEntry  = policy.QValueEntry
	QTableExport = policy.QTableExport
	Statistics   = policy.Statistics

	// Shared scalars
	Value     = shared.Value
	ValueMap  = shared.ValueMap
	RiskLevel = shared.RiskLevel
)

// Re-export constructors and constants.
var (
	StringValue = shared.String
	NumberValue = shared.Number
	BoolValue   = shared.Bool
)

const (
	RiskLow    = shared.RiskLow
	RiskMedium = shared.RiskMedium
	RiskHigh   = shared.RiskHigh

	StrengthVeryStrong = weighting.StrengthVeryStrong
	StrengthStrong     = weighting.StrengthStrong
	StrengthModerate   = weighting.StrengthModerate
	StrengthWeak       = weighting.StrengthWeak
)

// Config assembles the configuration of every engine subsystem. The zero
// value is not usable; start from DefaultConfig.
type Config struct {
	Recognition RecognitionConfig `json:"recognition" yaml:"recognition"`
	Weighting   WeightingConfig   `json:"weighting" yaml:"weighting"`
	Learner     LearnerConfig     `json:"learner" yaml:"learner"`
	Cache       ManagerConfig     `json:"cache" yaml:"cache"`

	// StorePath enables the SQLite store when non-empty. Without it the
	// engine is purely in-memory.
	StorePath string `json:"storePath,omitempty" yaml:"storePath,omitempty"`
}

// DefaultConfig returns the standard configuration for all subsystems.
func DefaultConfig() Config {
	return Config{
		Recognition: learning.DefaultRecognitionConfig(),
		Weighting:   learning.DefaultWeightingConfig(),
		Learner:     policy.DefaultLearnerConfig(),
		Cache:       cache.DefaultManagerConfig(),
	}
}

// Engine wires the recognition, weighting, and reinforcement learning
// subsystems behind a shared cache manager and optional persistence.
// All methods are safe for concurrent use.
type Engine struct {
	config      Config
	caches      *cache.Manager
	recognition *recognition.Engine
	weighting   *weighting.System
	learner     *rl.Learner
	store       *persistence.Store
}

// NewEngine creates an engine from the given configuration, opening the
// SQLite store when Config.StorePath is set.
func NewEngine(config Config) (*Engine, error) {
	caches := cache.NewManager(config.Cache)
	e := &Engine{
		config:      config,
		caches:      caches,
		recognition: recognition.NewEngine(config.Recognition, caches),
		weighting:   weighting.NewSystem(config.Weighting),
		learner:     rl.NewLearner(config.Learner),
	}
	if config.StorePath != "" {
		store, err := persistence.Open(config.StorePath)
		if err != nil {
			return nil, err
		}
		e.store = store
	}
	return e, nil
}

// Close releases the engine's persistent resources. It is a no-op for a
// purely in-memory engine.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// ============================================================================
// Pattern recognition
// ============================================================================

// ExtractSequences groups an agent's actions into time-ordered sequences
// split at idle gaps.
func (e *Engine) ExtractSequences(actions []ActionRecord, agentID string) []*ActionSequence {
	return e.recognition.ExtractSequences(actions, agentID)
}

// MinePatterns runs the full recognition pipeline: extract sequences,
// find recurring subsequences, keep the statistically significant ones,
// and build a pattern from each survivor.
func (e *Engine) MinePatterns(actions []ActionRecord, agentID string) []*Pattern {
	sequences := e.recognition.ExtractSequences(actions, agentID)
	candidates := e.recognition.FindCommonSubsequences(sequences)

	existing := make([]*Pattern, 0)
	patterns := make([]*Pattern, 0)
	for _, candidate := range candidates {
		result := e.recognition.ValidatePattern(candidate, existing)
		if !result.Valid {
			continue
		}
		p := e.recognition.BuildPattern(candidate, candidate.Signature())
		patterns = append(patterns, p)
		existing = append(existing, p)
	}
	return patterns
}

// FindCommonSubsequences returns the recurring subsequences across the
// given sequences, most frequent first.
func (e *Engine) FindCommonSubsequences(sequences []*ActionSequence) []*ActionSequence {
	return e.recognition.FindCommonSubsequences(sequences)
}

// ValidatePattern tests a candidate sequence for statistical significance
// against the given known patterns.
func (e *Engine) ValidatePattern(candidate *ActionSequence, existing []*Pattern) ValidationResult {
	return e.recognition.ValidatePattern(candidate, existing)
}

// SequenceSimilarity returns the cosine similarity between two sequences
// in [0, 1].
func (e *Engine) SequenceSimilarity(a, b *ActionSequence) float64 {
	return e.recognition.CosineSimilarity(a, b)
}

// RecordPatternOutcome folds one execution into a pattern's metrics and
// evolution state.
func (e *Engine) RecordPatternOutcome(pattern *Pattern, outcome ExecutionOutcome) {
	pattern.RecordExecution(outcome.Success, outcome.TimeSavedMs)
	e.recognition.TrackEvolution(pattern, outcome)
}

// ============================================================================
// Success weighting
// ============================================================================

// ScorePattern computes a pattern's composite weight from its success
// rate, recency, complexity, and fit to the given context.
func (e *Engine) ScorePattern(pattern *Pattern, context, metadata ValueMap) WeightResult {
	return e.weighting.CalculatePatternWeight(pattern, context, metadata)
}

// ScoreSolution scores a recorded solution with the pattern machinery.
func (e *Engine) ScoreSolution(solution *Solution, context, metadata ValueMap) WeightResult {
	return e.weighting.CalculateSolutionWeight(solution, context, metadata)
}

// ScoreDecision scores a recorded decision with the pattern machinery.
func (e *Engine) ScoreDecision(decision *Decision, context, metadata ValueMap) WeightResult {
	return e.weighting.CalculateDecisionWeight(decision, context, metadata)
}

// WeightHistory returns the accumulated scoring history for an item, if
// it has been scored before.
func (e *Engine) WeightHistory(id string) (PerformanceHistory, bool) {
	return e.weighting.History(id)
}

// AdjustThresholds nudges the acceptance threshold based on an item's
// performance trend.
func (e *Engine) AdjustThresholds(id string) {
	e.weighting.AdjustThresholds(id)
}

// ============================================================================
// Reinforcement learning
// ============================================================================

// SelectAction picks an action with epsilon-greedy exploration.
func (e *Engine) SelectAction(state State, available []Action, agentID string) (Action, error) {
	return e.learner.SelectAction(state, available, agentID, false)
}

// BestAction picks the highest-valued action without exploring.
func (e *Engine) BestAction(state State, available []Action, agentID string) (Action, error) {
	return e.learner.GetBestAction(state, available, agentID)
}

// ShapeReward converts an observed outcome into a bounded scalar reward.
func (e *Engine) ShapeReward(success bool, timeSavedMs, qualityScore float64, isNovel bool, risk RiskLevel) Reward {
	return e.learner.ShapeReward(success, timeSavedMs, qualityScore, isNovel, risk)
}

// ObserveOutcome shapes a reward from the outcome and applies the
// temporal-difference update, returning the reward used.
func (e *Engine) ObserveOutcome(state State, action Action, nextState State, agentID string, success bool, timeSavedMs, qualityScore float64, isNovel bool) Reward {
	reward := e.learner.ShapeReward(success, timeSavedMs, qualityScore, isNovel, action.Risk)
	e.learner.UpdateQValue(state, action, reward.Value, nextState, agentID)
	return reward
}

// UpdateQValue applies a temporal-difference update with a caller-shaped
// reward.
func (e *Engine) UpdateQValue(state State, action Action, reward float64, nextState State, agentID string) {
	e.learner.UpdateQValue(state, action, reward, nextState, agentID)
}

// QValue returns the stored entry for a state/action pair.
func (e *Engine) QValue(state State, action Action) (QValueEntry, bool) {
	return e.learner.GetQValue(state, action)
}

// LearnerStatistics summarizes learning progress for one agent, or
// globally when agentID is empty.
func (e *Engine) LearnerStatistics(agentID string) Statistics {
	return e.learner.GetStatistics(agentID)
}

// ExportQTable snapshots the learner's table.
func (e *Engine) ExportQTable() QTableExport {
	return e.learner.ExportQTable()
}

// ImportQTable replaces the learner's table from a snapshot, returning
// the number of entries restored.
func (e *Engine) ImportQTable(export QTableExport) int {
	return e.learner.ImportQTable(export)
}

// ============================================================================
// Persistence
// ============================================================================

// Store returns the engine's persistent store, or nil when the engine
// was built without one.
func (e *Engine) Store() *persistence.Store {
	return e.store
}

// SaveQTable persists the current learner table for an agent. Requires a
// store.
func (e *Engine) SaveQTable(agentID string) error {
	if e.store == nil {
		return fmt.Errorf("%w: no store configured", persistence.ErrStoreError)
	}
	return e.store.SaveQTable(agentID, e.learner.ExportQTable())
}

// LoadQTable restores the learner table from an agent's persisted
// snapshot, returning the number of entries restored.
func (e *Engine) LoadQTable(agentID string) (int, error) {
	if e.store == nil {
		return 0, fmt.Errorf("%w: no store configured", persistence.ErrStoreError)
	}
	export, err := e.store.LoadQTable(agentID)
	if err != nil {
		return 0, err
	}
	return e.learner.ImportQTable(export), nil
}

// ============================================================================
// Caching
// ============================================================================

// CacheStats aggregates hit/miss counters across all cache segments.
func (e *Engine) CacheStats() cache.Stats {
	return e.caches.CombinedStats()
}

// SegmentStats reports per-segment cache counters.
func (e *Engine) SegmentStats() map[cache.SegmentName]cache.Stats {
	return e.caches.SegmentStats()
}

// EvictExpired removes expired entries from every cache segment.
func (e *Engine) EvictExpired() int {
	return e.caches.EvictExpired()
}

// ClearCaches empties every cache segment.
func (e *Engine) ClearCaches() {
	e.caches.Clear()
}
