package weighting

import (
	"github.com/agentkit/agentlearn/internal/domain/learning"
	"github.com/agentkit/agentlearn/internal/shared"
)

// CalculateSolutionWeight adapts a solution record into the pattern shape
// and delegates, so solutions are scored with identical machinery.
func (s *System) CalculateSolutionWeight(solution *learning.Solution, context, metadata shared.ValueMap) WeightResult {
	adapted := &learning.Pattern{
		ID:      solution.ID,
		AgentID: solution.AgentID,
		Name:    solution.Problem,
		Body: learning.PatternBody{
			Type:     "solution",
			Context:  solution.Context,
			Approach: solution.Approach,
		},
		Metrics: learning.PatternMetrics{
			SuccessRate:    solution.SuccessRate,
			ExecutionCount: solution.UseCount,
		},
		Evolution: learning.PatternEvolution{
			CreatedAt: solution.CreatedAt,
			LastUsed:  solution.LastUsed,
		},
		Tags:   solution.Tags,
		Active: true,
	}
	return s.CalculatePatternWeight(adapted, context, metadata)
}

// CalculateDecisionWeight adapts a decision record into the pattern shape
// and delegates. The considered alternatives become applicability
// conditions so more deliberated decisions carry a mild complexity cost.
func (s *System) CalculateDecisionWeight(decision *learning.Decision, context, metadata shared.ValueMap) WeightResult {
	adapted := &learning.Pattern{
		ID:      decision.ID,
		AgentID: decision.AgentID,
		Name:    decision.Question,
		Body: learning.PatternBody{
			Type:    "decision",
			Context: decision.Context,
			Approach: learning.Approach{
				Technique: decision.Choice,
				Rationale: decision.Rationale,
			},
			Applicability: decision.Alternatives,
		},
		Metrics: learning.PatternMetrics{
			SuccessRate:    decision.SuccessRate,
			ExecutionCount: decision.TimesApplied,
		},
		Evolution: learning.PatternEvolution{
			CreatedAt: decision.CreatedAt,
			LastUsed:  decision.LastUsed,
		},
		Active: true,
	}
	return s.CalculatePatternWeight(adapted, context, metadata)
}
