package recognition

import (
	"math"

	"github.com/agentkit/agentlearn/internal/domain/learning"
)

// ValidationResult is the outcome of candidate validation.
type ValidationResult struct {
	Valid  bool    `json:"valid"`
	PValue float64 `json:"pValue"`
}

// ValidatePattern decides whether a candidate sequence is statistically
// significant enough to become a pattern. A candidate must clear the
// configured frequency floor and a one-sided Poisson tail test: under
// the null hypothesis, recurrences arrive at the baseline chance rate,
// discounted by the candidate's average similarity to already accepted
// patterns (a candidate resembling known-good patterns needs less raw
// recurrence to convince). The p-value is monotonic: more recurrences or
// higher similarity never make acceptance less favorable.
func (e *Engine) ValidatePattern(candidate *learning.ActionSequence, existing []*learning.Pattern) ValidationResult {
	if candidate == nil || len(candidate.Actions) == 0 {
		return ValidationResult{Valid: false, PValue: 1}
	}

	avgSim := e.averageSimilarity(candidate, existing)

	// Null rate shrinks as similarity support grows, tightening the tail.
	lambda := e.config.BaselineRate * (1 - 0.5*avgSim)
	p := poissonUpperTail(lambda, candidate.Frequency)

	valid := candidate.Frequency >= e.config.MinFrequency && p < e.config.SignificanceLevel
	return ValidationResult{Valid: valid, PValue: p}
}

// averageSimilarity measures the candidate against each active accepted
// pattern's feature vector and averages the result. No accepted patterns
// means no similarity support.
func (e *Engine) averageSimilarity(candidate *learning.ActionSequence, existing []*learning.Pattern) float64 {
	if len(existing) == 0 {
		return 0
	}
	candidateFeatures := candidate.FeatureCounts()

	var total float64
	counted := 0
	for _, p := range existing {
		if p == nil || !p.Active {
			continue
		}
		total += cosine(candidateFeatures, patternFeatures(p))
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// poissonUpperTail returns P(X >= k) for X ~ Poisson(lambda).
func poissonUpperTail(lambda float64, k int) float64 {
	if k <= 0 {
		return 1
	}
	if lambda <= 0 {
		return 0
	}

	// P(X >= k) = 1 - sum_{i<k} e^-lambda lambda^i / i!
	term := math.Exp(-lambda)
	cdf := term
	for i := 1; i < k; i++ {
		term *= lambda / float64(i)
		cdf += term
	}

	tail := 1 - cdf
	if tail < 0 {
		tail = 0
	}
	return tail
}
