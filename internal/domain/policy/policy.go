// Package policy provides domain types for the tabular reinforcement
// learning module: states, actions, rewards, experiences, and the Q-value
// entry keyed store contract.
package policy

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentkit/agentlearn/internal/shared"
)

// State is an opaque snapshot of an agent's situation: a feature mapping
// plus rounded internal telemetry. States are compared through their
// derived keys, never structurally.
type State struct {
	Features          shared.ValueMap `json:"features,omitempty"`
	RecentSuccessRate float64         `json:"recentSuccessRate"`
	ConfidenceLevel   float64         `json:"confidenceLevel"`
	Energy            float64         `json:"energy"`
}

// Key derives a stable string identity from sorted feature pairs and the
// agent-state fields rounded to one decimal. Rounding keeps nearby
// telemetry readings in the same table row.
func (s State) Key() string {
	var sb strings.Builder
	for _, k := range shared.SortedKeys(s.Features) {
		sb.WriteString(k)
		sb.WriteString(":")
		sb.WriteString(s.Features[k].Canonical())
		sb.WriteString("|")
	}
	fmt.Fprintf(&sb, "sr:%.1f|cf:%.1f|en:%.1f", s.RecentSuccessRate, s.ConfidenceLevel, s.Energy)
	return sb.String()
}

// Action is a selectable unit of work with an optional pattern reference
// and a risk tier.
type Action struct {
	Type          string           `json:"type"`
	PatternID     string           `json:"patternId,omitempty"`
	Parameters    shared.ValueMap  `json:"parameters,omitempty"`
	EstimatedCost float64          `json:"estimatedCost"`
	Risk          shared.RiskLevel `json:"risk"`
}

// Key derives a stable string identity from the action type, optional
// pattern reference, and risk tier.
func (a Action) Key() string {
	return a.Type + "|" + a.PatternID + "|" + string(a.Risk)
}

// RewardComponents are the named contributions combined into a reward.
// Individual components are unclamped; only the combined value is.
type RewardComponents struct {
	Success     float64 `json:"success"`
	Efficiency  float64 `json:"efficiency"`
	Quality     float64 `json:"quality"`
	Novelty     float64 `json:"novelty"`
	RiskPenalty float64 `json:"riskPenalty"`
}

// Reward is a shaped scalar in [-1, 1] with its contributing components.
type Reward struct {
	Value      float64          `json:"value"`
	Components RewardComponents `json:"components"`
}

// Experience is one observed transition retained for replay.
type Experience struct {
	State     State     `json:"state"`
	Action    Action    `json:"action"`
	Reward    float64   `json:"reward"`
	NextState State     `json:"nextState"`
	Timestamp time.Time `json:"timestamp"`
}

// QValueEntry is the learned estimate for one (state, action) pair.
// Confidence only rises (by a fixed increment per update, capped at 1);
// pruning deletes entries rather than decrementing confidence.
type QValueEntry struct {
	Value       float64   `json:"value"`
	UpdateCount int       `json:"updateCount"`
	LastUpdated time.Time `json:"lastUpdated"`
	Confidence  float64   `json:"confidence"`
}

// QTableExport is the export/import contract: state key to action key to
// entry. Round-trip fidelity is required.
type QTableExport map[string]map[string]QValueEntry

// Statistics summarizes a learner's progress, per agent or globally.
type Statistics struct {
	TotalUpdates     int64   `json:"totalUpdates"`
	TableSize        int     `json:"tableSize"`
	ReplayBufferSize int     `json:"replayBufferSize"`
	Epsilon          float64 `json:"epsilon"`
	AverageReward    float64 `json:"averageReward"`
	Trend            Trend   `json:"trend"`
	AgentID          string  `json:"agentId,omitempty"`
}

// Trend classifies reward movement over the statistics window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)
