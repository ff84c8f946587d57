package learning

import "time"

// RecognitionConfig configures the pattern recognition engine.
type RecognitionConfig struct {
	// SequenceGap is the maximum pause between consecutive actions that
	// still belong to the same sequence.
	SequenceGap time.Duration `json:"sequenceGap"`

	// MinFrequency is the observed-recurrence floor below which a
	// candidate is rejected outright.
	MinFrequency int `json:"minFrequency"`

	// SignificanceLevel is the p-value threshold for accepting a
	// candidate pattern.
	SignificanceLevel float64 `json:"significanceLevel"`

	// SimilarityThreshold separates near-identical sequences from
	// merely related ones.
	SimilarityThreshold float64 `json:"similarityThreshold"`

	// BaselineRate is the expected chance-recurrence rate used as the
	// null hypothesis in validation.
	BaselineRate float64 `json:"baselineRate"`

	// MinSubsequenceLen and MaxSubsequenceLen bound the window sizes
	// searched for common subsequences.
	MinSubsequenceLen int `json:"minSubsequenceLen"`
	MaxSubsequenceLen int `json:"maxSubsequenceLen"`

	// ConfidenceIncrement is added to a pattern's confidence score on
	// repeated successful use.
	ConfidenceIncrement float64 `json:"confidenceIncrement"`
}

// DefaultRecognitionConfig returns the default recognition configuration.
func DefaultRecognitionConfig() RecognitionConfig {
	return RecognitionConfig{
		SequenceGap:         5 * time.Second,
		MinFrequency:        3,
		SignificanceLevel:   0.05,
		SimilarityThreshold: 0.8,
		BaselineRate:        1.0,
		MinSubsequenceLen:   2,
		MaxSubsequenceLen:   5,
		ConfidenceIncrement: 0.02,
	}
}

// FactorWeights is the distribution across the four scoring factors.
// Callers may override individual weights; the system does not require
// them to sum to 1.
type FactorWeights struct {
	BaseRate   float64 `json:"baseRate"`
	Recency    float64 `json:"recency"`
	Complexity float64 `json:"complexity"`
	ProjectFit float64 `json:"projectFit"`
}

// WeightingConfig configures the success weighting system.
type WeightingConfig struct {
	Weights FactorWeights `json:"weights"`

	// SmoothingAlpha is the Laplace pseudocount guarding small samples.
	SmoothingAlpha float64 `json:"smoothingAlpha"`

	// RecencyHalfLifeDays controls the exponential decay of the recency
	// factor. RecencyFloor is its minimum; past MaxAgeDays the factor is
	// clamped to the floor.
	RecencyHalfLifeDays float64 `json:"recencyHalfLifeDays"`
	RecencyFloor        float64 `json:"recencyFloor"`
	MaxAgeDays          float64 `json:"maxAgeDays"`

	// ComplexityMaxSteps normalizes the composite complexity score;
	// ComplexityFloor is the factor's minimum.
	ComplexityMaxSteps int     `json:"complexityMaxSteps"`
	ComplexityFloor    float64 `json:"complexityFloor"`

	// MinSampleSize centers the confidence sigmoid; SigmoidSteepness is
	// its slope. ConfidenceLevel selects the Wilson interval z-score.
	MinSampleSize    int     `json:"minSampleSize"`
	SigmoidSteepness float64 `json:"sigmoidSteepness"`
	ConfidenceLevel  float64 `json:"confidenceLevel"`

	// EMAFactor is the smoothing factor for per-pattern performance
	// history averages.
	EMAFactor float64 `json:"emaFactor"`

	// Threshold adjustment bounds and step for AdjustThresholds.
	InitialThreshold    float64 `json:"initialThreshold"`
	MinThreshold        float64 `json:"minThreshold"`
	MaxThreshold        float64 `json:"maxThreshold"`
	ThresholdAdjustRate float64 `json:"thresholdAdjustRate"`
}

// DefaultWeightingConfig returns the default weighting configuration.
func DefaultWeightingConfig() WeightingConfig {
	return WeightingConfig{
		Weights: FactorWeights{
			BaseRate:   0.4,
			Recency:    0.3,
			Complexity: 0.1,
			ProjectFit: 0.2,
		},
		SmoothingAlpha:      2.0,
		RecencyHalfLifeDays: 30,
		RecencyFloor:        0.1,
		MaxAgeDays:          180,
		ComplexityMaxSteps:  20,
		ComplexityFloor:     0.1,
		MinSampleSize:       10,
		SigmoidSteepness:    0.3,
		ConfidenceLevel:     0.95,
		EMAFactor:           0.2,
		InitialThreshold:    0.6,
		MinThreshold:        0.3,
		MaxThreshold:        0.9,
		ThresholdAdjustRate: 0.05,
	}
}
