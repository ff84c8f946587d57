package policy

// LearnerConfig configures the tabular reinforcement learner.
type LearnerConfig struct {
	// LearningRate is the base TD step size before adaptive scaling.
	LearningRate float64 `json:"learningRate"`

	// DiscountFactor weighs the bootstrapped next-state estimate.
	DiscountFactor float64 `json:"discountFactor"`

	// InitialQValue seeds entries created lazily on first update and is
	// the assumed value of never-tried actions during selection.
	InitialQValue float64 `json:"initialQValue"`

	// Epsilon is the exploration probability; it decays multiplicatively
	// by EpsilonDecay per update down to EpsilonFloor.
	Epsilon      float64 `json:"epsilon"`
	EpsilonDecay float64 `json:"epsilonDecay"`
	EpsilonFloor float64 `json:"epsilonFloor"`

	// ExplorationBonus rewards actions never tried in a state during
	// greedy comparison.
	ExplorationBonus float64 `json:"explorationBonus"`

	// RiskPenalty is subtracted in full from high-risk known values and
	// in half from medium-risk ones; it also scales the reward-shaping
	// risk component.
	RiskPenalty float64 `json:"riskPenalty"`

	// Reward shaping multipliers.
	SuccessReward   float64 `json:"successReward"`
	FailurePenalty  float64 `json:"failurePenalty"`
	TimeBonusCap    float64 `json:"timeBonusCap"`
	TimeBonusPerMin float64 `json:"timeBonusPerMin"`
	QualityWeight   float64 `json:"qualityWeight"`
	NoveltyBonus    float64 `json:"noveltyBonus"`

	// ConfidenceIncrement is added to an entry's confidence per update,
	// capped at 1.
	ConfidenceIncrement float64 `json:"confidenceIncrement"`

	// Replay buffer sizing and trigger cadence.
	ReplayBufferSize int `json:"replayBufferSize"`
	ReplayBatchSize  int `json:"replayBatchSize"`
	ReplayInterval   int `json:"replayInterval"`

	// Table bounds and pruning cadence.
	MaxTableSize             int     `json:"maxTableSize"`
	PruneConfidenceThreshold float64 `json:"pruneConfidenceThreshold"`
	PruneInterval            int     `json:"pruneInterval"`

	// Per-agent reward history cap and trend window.
	RewardHistorySize int     `json:"rewardHistorySize"`
	TrendWindow       int     `json:"trendWindow"`
	TrendThreshold    float64 `json:"trendThreshold"`
}

// DefaultLearnerConfig returns the default learner configuration.
func DefaultLearnerConfig() LearnerConfig {
	return LearnerConfig{
		LearningRate:             0.1,
		DiscountFactor:           0.9,
		InitialQValue:            0.5,
		Epsilon:                  0.2,
		EpsilonDecay:             0.995,
		EpsilonFloor:             0.05,
		ExplorationBonus:         0.1,
		RiskPenalty:              0.2,
		SuccessReward:            0.5,
		FailurePenalty:           -0.5,
		TimeBonusCap:             0.2,
		TimeBonusPerMin:          0.05,
		QualityWeight:            0.2,
		NoveltyBonus:             0.1,
		ConfidenceIncrement:      0.05,
		ReplayBufferSize:         1000,
		ReplayBatchSize:          32,
		ReplayInterval:           10,
		MaxTableSize:             10000,
		PruneConfidenceThreshold: 0.1,
		PruneInterval:            500,
		RewardHistorySize:        100,
		TrendWindow:              20,
		TrendThreshold:           0.1,
	}
}
