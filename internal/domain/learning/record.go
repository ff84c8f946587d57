package learning

import (
	"time"

	"github.com/agentkit/agentlearn/internal/shared"
)

// Solution is a recorded fix for a concrete problem. Solutions are scored
// with the same machinery as patterns via an adapter.
type Solution struct {
	ID          string          `json:"id"`
	AgentID     string          `json:"agentId"`
	Problem     string          `json:"problem"`
	Approach    Approach        `json:"approach"`
	Context     shared.ValueMap `json:"context,omitempty"`
	SuccessRate float64         `json:"successRate"`
	UseCount    int             `json:"useCount"`
	CreatedAt   time.Time       `json:"createdAt"`
	LastUsed    time.Time       `json:"lastUsed"`
	Tags        []string        `json:"tags,omitempty"`
}

// Decision is a recorded choice between alternatives, scored like a
// pattern via an adapter.
type Decision struct {
	ID           string          `json:"id"`
	AgentID      string          `json:"agentId"`
	Question     string          `json:"question"`
	Choice       string          `json:"choice"`
	Alternatives []string        `json:"alternatives,omitempty"`
	Rationale    string          `json:"rationale,omitempty"`
	Context      shared.ValueMap `json:"context,omitempty"`
	SuccessRate  float64         `json:"successRate"`
	TimesApplied int             `json:"timesApplied"`
	CreatedAt    time.Time       `json:"createdAt"`
	LastUsed     time.Time       `json:"lastUsed"`
}
