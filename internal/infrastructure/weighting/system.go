// Package weighting scores patterns, solutions, and decisions by blending
// historical success, recency, complexity, and contextual fit into a
// single confidence-annotated weight.
package weighting

import (
	"math"
	"sync"
	"time"

	"github.com/agentkit/agentlearn/internal/domain/learning"
	"github.com/agentkit/agentlearn/internal/shared"
)

// Strength is the categorical recommendation banding of weight times
// confidence.
type Strength string

const (
	StrengthVeryStrong Strength = "very-strong"
	StrengthStrong     Strength = "strong"
	StrengthModerate   Strength = "moderate"
	StrengthWeak       Strength = "weak"
)

// FactorBreakdown carries the four contributing factor values.
type FactorBreakdown struct {
	BaseRate   float64 `json:"baseRate"`
	Recency    float64 `json:"recency"`
	Complexity float64 `json:"complexity"`
	ProjectFit float64 `json:"projectFit"`
}

// ConfidenceInterval is a Wilson score interval scaled by the weight.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// WeightResult is the ephemeral output of one weight computation. It is
// recomputed on every call and never persisted.
type WeightResult struct {
	TotalWeight    float64            `json:"totalWeight"`
	Factors        FactorBreakdown    `json:"factors"`
	Confidence     float64            `json:"confidence"`
	Interval       ConfidenceInterval `json:"interval"`
	Recommendation Strength           `json:"recommendation"`
}

// System computes pattern weights and maintains per-pattern performance
// history. One mutex guards the history map and the adaptive threshold.
type System struct {
	mu      sync.Mutex
	config  learning.WeightingConfig
	history map[string]*PerformanceHistory

	// minWeightThreshold is the process-wide acceptance bar nudged by
	// AdjustThresholds.
	minWeightThreshold float64
}

// NewSystem creates a weighting system with the given configuration.
func NewSystem(config learning.WeightingConfig) *System {
	return &System{
		config:             config,
		history:            make(map[string]*PerformanceHistory),
		minWeightThreshold: config.InitialThreshold,
	}
}

// CalculatePatternWeight blends the four factors into a total weight,
// derives confidence and a Wilson interval, bands a recommendation, and
// folds the result into the pattern's performance history.
func (s *System) CalculatePatternWeight(pattern *learning.Pattern, context, metadata shared.ValueMap) WeightResult {
	factors := FactorBreakdown{
		BaseRate:   s.baseSuccessRate(pattern),
		Recency:    s.recencyFactor(pattern),
		Complexity: s.complexityFactor(pattern),
		ProjectFit: s.projectFitFactor(pattern, context, metadata),
	}

	w := s.config.Weights
	total := factors.BaseRate*w.BaseRate +
		factors.Recency*w.Recency +
		factors.Complexity*w.Complexity +
		factors.ProjectFit*w.ProjectFit

	confidence := s.sampleConfidence(pattern.Metrics.ExecutionCount)

	result := WeightResult{
		TotalWeight:    total,
		Factors:        factors,
		Confidence:     confidence,
		Interval:       s.wilsonInterval(pattern, total),
		Recommendation: band(total * confidence),
	}

	s.recordUsage(pattern.ID, total)
	return result
}

// baseSuccessRate applies Laplace smoothing with the configured
// pseudocount so small samples do not overstate certainty.
func (s *System) baseSuccessRate(pattern *learning.Pattern) float64 {
	alpha := s.config.SmoothingAlpha
	total := float64(pattern.Metrics.ExecutionCount)
	successes := pattern.Metrics.SuccessRate * total
	return (successes + alpha) / (total + 2*alpha)
}

// recencyFactor decays exponentially with pattern age, floored at the
// configured minimum and hard-clamped past the maximum age cutoff.
func (s *System) recencyFactor(pattern *learning.Pattern) float64 {
	reference := pattern.Evolution.LastUsed
	if reference.IsZero() {
		reference = pattern.Evolution.CreatedAt
	}
	ageDays := time.Since(reference).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	if ageDays > s.config.MaxAgeDays {
		return s.config.RecencyFloor
	}

	tau := s.config.RecencyHalfLifeDays / math.Ln2
	factor := math.Exp(-ageDays / tau)
	if factor < s.config.RecencyFloor {
		factor = s.config.RecencyFloor
	}
	return factor
}

// complexityFactor penalizes elaborate patterns logarithmically: the
// composite score counts steps, half-weights conditions, and lightly
// weights context keys, normalized by the max-steps constant. Simpler
// patterns score higher; the factor never drops below the floor.
func (s *System) complexityFactor(pattern *learning.Pattern) float64 {
	steps := float64(len(pattern.Body.Approach.Steps))
	conditions := float64(len(pattern.Body.Applicability) + len(pattern.Body.Inapplicability))
	contextKeys := float64(len(pattern.Body.Context))

	score := steps + 0.5*conditions + 0.3*contextKeys
	maxSteps := float64(s.config.ComplexityMaxSteps)
	penalty := math.Log(1+score) / math.Log(1+maxSteps)
	if penalty > 1 {
		penalty = 1
	}

	factor := 1 - penalty
	if factor < s.config.ComplexityFloor {
		factor = s.config.ComplexityFloor
	}
	return factor
}

// projectFitFactor scores how well the call's context and metadata match
// the pattern's recorded context: exact value matches earn full credit,
// present-but-different values earn partial credit. With no context or
// metadata at all the factor is a neutral 0.5.
func (s *System) projectFitFactor(pattern *learning.Pattern, context, metadata shared.ValueMap) float64 {
	if context == nil && metadata == nil {
		return 0.5
	}

	merged := make(shared.ValueMap, len(context)+len(metadata))
	for k, v := range metadata {
		merged[k] = v
	}
	for k, v := range context {
		merged[k] = v
	}
	if len(merged) == 0 {
		return 0.5
	}

	var credit float64
	for k, v := range merged {
		recorded, ok := pattern.Body.Context[k]
		if !ok {
			continue
		}
		if recorded.Equal(v) {
			credit += 1.0
		} else {
			credit += 0.3
		}
	}
	return credit / float64(len(merged))
}

// sampleConfidence is a sigmoid of execution count centered at the
// minimum sample size.
func (s *System) sampleConfidence(executions int) float64 {
	k := s.config.SigmoidSteepness
	n0 := float64(s.config.MinSampleSize)
	return 1 / (1 + math.Exp(-k*(float64(executions)-n0)))
}

// wilsonInterval computes the Wilson score interval on the success rate,
// scaled by the total weight. Below three samples the interval is the
// maximal [0, 1] since nothing meaningful can be said.
func (s *System) wilsonInterval(pattern *learning.Pattern, totalWeight float64) ConfidenceInterval {
	n := float64(pattern.Metrics.ExecutionCount)
	if n < 3 {
		return ConfidenceInterval{Lower: 0, Upper: 1}
	}

	z := zScore(s.config.ConfidenceLevel)
	p := pattern.Metrics.SuccessRate

	denom := 1 + z*z/n
	center := (p + z*z/(2*n)) / denom
	half := z * math.Sqrt(p*(1-p)/n+z*z/(4*n*n)) / denom

	return ConfidenceInterval{
		Lower: clamp01((center - half) * totalWeight),
		Upper: clamp01((center + half) * totalWeight),
	}
}

// zScore maps the configured confidence level to its normal quantile.
func zScore(level float64) float64 {
	switch {
	case level >= 0.99:
		return 2.576
	case level >= 0.95:
		return 1.96
	case level >= 0.90:
		return 1.645
	default:
		return 1.282
	}
}

func band(strength float64) Strength {
	switch {
	case strength >= 0.8:
		return StrengthVeryStrong
	case strength >= 0.6:
		return StrengthStrong
	case strength >= 0.4:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// MinWeightThreshold returns the current process-wide acceptance bar.
func (s *System) MinWeightThreshold() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minWeightThreshold
}
