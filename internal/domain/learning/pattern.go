package learning

import (
	"time"

	"github.com/google/uuid"

	"github.com/agentkit/agentlearn/internal/shared"
)

// Approach describes how a pattern accomplishes its work.
type Approach struct {
	Technique string   `json:"technique"`
	Rationale string   `json:"rationale,omitempty"`
	Steps     []string `json:"steps,omitempty"`
}

// PatternBody is the generalized description of the behavior a pattern
// captures: its type, recorded context, approach, and applicability.
type PatternBody struct {
	Type            string          `json:"type"`
	Context         shared.ValueMap `json:"context,omitempty"`
	Approach        Approach        `json:"approach"`
	Applicability   []string        `json:"applicability,omitempty"`
	Inapplicability []string        `json:"inapplicability,omitempty"`
}

// PatternMetrics tracks a pattern's historical performance.
type PatternMetrics struct {
	SuccessRate     float64 `json:"successRate"`
	ExecutionCount  int     `json:"executionCount"`
	AvgTimeSavedMs  float64 `json:"avgTimeSavedMs"`
	ErrorsPrevented int     `json:"errorsPrevented"`
}

// PatternEvolution tracks how a pattern changes over its lifetime.
type PatternEvolution struct {
	CreatedAt       time.Time `json:"createdAt"`
	LastUsed        time.Time `json:"lastUsed"`
	Refinements     int       `json:"refinements"`
	ConfidenceScore float64   `json:"confidenceScore"`
}

// Pattern is a named, versioned generalization of one or more observed
// action sequences. Metrics and evolution mutate as the pattern is
// exercised; the engine never deletes patterns, it only deactivates them.
type Pattern struct {
	ID        string           `json:"id"`
	AgentID   string           `json:"agentId"`
	Name      string           `json:"name"`
	Version   int              `json:"version"`
	Body      PatternBody      `json:"body"`
	Metrics   PatternMetrics   `json:"metrics"`
	Evolution PatternEvolution `json:"evolution"`
	Tags      []string         `json:"tags,omitempty"`
	Active    bool             `json:"active"`
}

// NewPattern creates an active pattern with a generated ID and a neutral
// starting confidence.
func NewPattern(agentID, name string, body PatternBody) *Pattern {
	now := time.Now()
	return &Pattern{
		ID:      uuid.New().String(),
		AgentID: agentID,
		Name:    name,
		Version: 1,
		Body:    body,
		Evolution: PatternEvolution{
			CreatedAt:       now,
			LastUsed:        now,
			ConfidenceScore: 0.5,
		},
		Active: true,
	}
}

// RecordExecution folds one execution result into the pattern's metrics,
// keeping SuccessRate in [0, 1].
func (p *Pattern) RecordExecution(success bool, timeSavedMs float64) {
	successes := p.Metrics.SuccessRate * float64(p.Metrics.ExecutionCount)
	if success {
		successes++
	}
	p.Metrics.ExecutionCount++
	p.Metrics.SuccessRate = successes / float64(p.Metrics.ExecutionCount)

	n := float64(p.Metrics.ExecutionCount)
	p.Metrics.AvgTimeSavedMs = p.Metrics.AvgTimeSavedMs*(n-1)/n + timeSavedMs/n
}

// Deactivate marks the pattern as retired from selection.
func (p *Pattern) Deactivate() {
	p.Active = false
}

// ExecutionOutcome reports one exercised use of a pattern.
type ExecutionOutcome struct {
	Success     bool      `json:"success"`
	Timestamp   time.Time `json:"timestamp"`
	DurationMs  int64     `json:"durationMs,omitempty"`
	TimeSavedMs float64   `json:"timeSavedMs,omitempty"`
}
