// Package learning provides domain entities for the adaptive learning engine.
package learning

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentkit/agentlearn/internal/shared"
)

// ActionRecord is a timestamped unit of observed agent work. Records are
// immutable once captured; downstream components copy rather than mutate.
type ActionRecord struct {
	ID         string            `json:"id"`
	AgentID    string            `json:"agentId"`
	Type       string            `json:"type"`
	Context    shared.ValueMap   `json:"context,omitempty"`
	Parameters shared.ValueMap   `json:"parameters,omitempty"`
	Outcome    shared.OutcomeTag `json:"outcome"`
	DurationMs int64             `json:"durationMs"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Signature returns a stable identity string for subsequence matching:
// the action type plus its sorted parameter pairs.
func (a ActionRecord) Signature() string {
	var sb strings.Builder
	sb.WriteString(a.Type)
	keys := shared.SortedKeys(a.Parameters)
	for _, k := range keys {
		sb.WriteString("|")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(a.Parameters[k].Canonical())
	}
	return sb.String()
}

// Features returns the feature terms used for similarity vectors: the
// action type, each context pair, and each parameter pair.
func (a ActionRecord) Features() []string {
	features := make([]string, 0, 1+len(a.Context)+len(a.Parameters))
	features = append(features, "type:"+a.Type)
	for _, k := range shared.SortedKeys(a.Context) {
		features = append(features, "ctx:"+k+"="+a.Context[k].Canonical())
	}
	for _, k := range shared.SortedKeys(a.Parameters) {
		features = append(features, "param:"+k+"="+a.Parameters[k].Canonical())
	}
	return features
}

// ActionSequence is an ordered, non-empty list of action records with
// derived timing and recurrence fields. Built by the recognition engine,
// consumed read-only by scoring.
type ActionSequence struct {
	ID            string         `json:"id"`
	AgentID       string         `json:"agentId"`
	Actions       []ActionRecord `json:"actions"`
	StartTime     time.Time      `json:"startTime"`
	EndTime       time.Time      `json:"endTime"`
	Frequency     int            `json:"frequency"`
	AvgDurationMs float64        `json:"avgDurationMs"`
}

// NewActionSequence builds a sequence from an ordered slice of actions,
// deriving start/end times and the average action duration. The action
// slice is copied.
func NewActionSequence(agentID string, actions []ActionRecord) *ActionSequence {
	copied := make([]ActionRecord, len(actions))
	copy(copied, actions)

	seq := &ActionSequence{
		ID:        uuid.New().String(),
		AgentID:   agentID,
		Actions:   copied,
		Frequency: 1,
	}
	if len(copied) > 0 {
		seq.StartTime = copied[0].Timestamp
		seq.EndTime = copied[len(copied)-1].Timestamp

		var total int64
		for _, a := range copied {
			total += a.DurationMs
		}
		seq.AvgDurationMs = float64(total) / float64(len(copied))
	}
	return seq
}

// Signature returns a stable identity for the sequence as a whole, used
// as one half of a similarity cache key.
func (s *ActionSequence) Signature() string {
	parts := make([]string, len(s.Actions))
	for i, a := range s.Actions {
		parts[i] = a.Signature()
	}
	return strings.Join(parts, ">")
}

// FeatureCounts aggregates feature term occurrences across all actions.
func (s *ActionSequence) FeatureCounts() map[string]float64 {
	counts := make(map[string]float64)
	for _, a := range s.Actions {
		for _, f := range a.Features() {
			counts[f]++
		}
	}
	return counts
}

// SortActionsByTime returns a time-ordered copy of the given actions
// without mutating the input slice.
func SortActionsByTime(actions []ActionRecord) []ActionRecord {
	copied := make([]ActionRecord, len(actions))
	copy(copied, actions)
	sort.SliceStable(copied, func(i, j int) bool {
		return copied[i].Timestamp.Before(copied[j].Timestamp)
	})
	return copied
}
