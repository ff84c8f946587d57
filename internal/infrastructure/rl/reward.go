package rl

import (
	"github.com/agentkit/agentlearn/internal/domain/policy"
	"github.com/agentkit/agentlearn/internal/shared"
)

// ShapeReward combines a success/failure base, a capped time-saved
// bonus, a quality bonus, a novelty bonus, and a risk penalty into a
// single reward. Individual components are reported unclamped; only the
// combined value is clamped into [-1, 1].
func (l *Learner) ShapeReward(success bool, timeSavedMs float64, qualityScore float64, isNovel bool, risk shared.RiskLevel) policy.Reward {
	components := policy.RewardComponents{}

	if success {
		components.Success = l.config.SuccessReward
	} else {
		components.Success = l.config.FailurePenalty
	}

	// Time saved contributes per minute, capped so a huge win cannot
	// dominate the reward.
	components.Efficiency = timeSavedMs / 60000 * l.config.TimeBonusPerMin
	if components.Efficiency > l.config.TimeBonusCap {
		components.Efficiency = l.config.TimeBonusCap
	}

	components.Quality = qualityScore * l.config.QualityWeight

	if isNovel {
		components.Novelty = l.config.NoveltyBonus
	}

	switch risk {
	case shared.RiskHigh:
		components.RiskPenalty = -l.config.RiskPenalty
	case shared.RiskMedium:
		components.RiskPenalty = -l.config.RiskPenalty / 2
	}

	value := components.Success + components.Efficiency + components.Quality +
		components.Novelty + components.RiskPenalty
	if value > 1 {
		value = 1
	}
	if value < -1 {
		value = -1
	}

	return policy.Reward{Value: value, Components: components}
}
