// Package recognition discovers recurring action sequences in observed
// agent work and validates them as reusable patterns.
package recognition

import (
	"strings"
	"sync"
	"time"

	"github.com/agentkit/agentlearn/internal/domain/learning"
	"github.com/agentkit/agentlearn/internal/infrastructure/cache"
)

// Engine segments action logs into sequences, measures similarity, and
// validates candidate patterns. The optional cache manager serves
// previously computed similarity pairs from its pattern segment.
type Engine struct {
	mu     sync.RWMutex
	config learning.RecognitionConfig
	caches *cache.Manager

	// lastOutcome tracks the previous execution result per pattern so
	// confidence only climbs on repeated success.
	lastOutcome map[string]bool
}

// NewEngine creates a recognition engine. The cache manager may be nil,
// in which case every similarity is computed fresh.
func NewEngine(config learning.RecognitionConfig, caches *cache.Manager) *Engine {
	return &Engine{
		config:      config,
		caches:      caches,
		lastOutcome: make(map[string]bool),
	}
}

// ExtractSequences groups a time-ordered action log into sequences by
// temporal proximity: consecutive actions within the configured gap
// belong together, a larger pause starts a new sequence. Actions for
// other agents are ignored when agentID is non-empty. The input slice is
// never mutated; any non-empty relevant input yields at least one
// sequence.
func (e *Engine) ExtractSequences(actions []learning.ActionRecord, agentID string) []*learning.ActionSequence {
	relevant := make([]learning.ActionRecord, 0, len(actions))
	for _, a := range actions {
		if agentID == "" || a.AgentID == agentID {
			relevant = append(relevant, a)
		}
	}
	if len(relevant) == 0 {
		return nil
	}

	ordered := learning.SortActionsByTime(relevant)

	var sequences []*learning.ActionSequence
	start := 0
	for i := 1; i < len(ordered); i++ {
		gap := ordered[i].Timestamp.Sub(ordered[i-1].Timestamp)
		if gap > e.config.SequenceGap {
			sequences = append(sequences, learning.NewActionSequence(agentID, ordered[start:i]))
			start = i
		}
	}
	sequences = append(sequences, learning.NewActionSequence(agentID, ordered[start:]))
	return sequences
}

// FindCommonSubsequences identifies sub-patterns that recur across the
// given sequences, annotating each with its observed frequency. Windows
// between the configured minimum and maximum length are matched by
// action signature. Results are ordered most frequent first.
func (e *Engine) FindCommonSubsequences(sequences []*learning.ActionSequence) []*learning.ActionSequence {
	type occurrence struct {
		count   int
		actions []learning.ActionRecord
		agentID string
	}
	seen := make(map[string]*occurrence)
	var keyOrder []string

	minLen := e.config.MinSubsequenceLen
	if minLen < 2 {
		minLen = 2
	}
	maxLen := e.config.MaxSubsequenceLen
	if maxLen < minLen {
		maxLen = minLen
	}

	for _, seq := range sequences {
		signatures := make([]string, len(seq.Actions))
		for i, a := range seq.Actions {
			signatures[i] = a.Signature()
		}
		for length := minLen; length <= maxLen; length++ {
			for start := 0; start+length <= len(seq.Actions); start++ {
				key := strings.Join(signatures[start:start+length], ">")
				occ, ok := seen[key]
				if !ok {
					occ = &occurrence{
						actions: seq.Actions[start : start+length],
						agentID: seq.AgentID,
					}
					seen[key] = occ
					keyOrder = append(keyOrder, key)
				}
				occ.count++
			}
		}
	}

	var common []*learning.ActionSequence
	for _, key := range keyOrder {
		occ := seen[key]
		if occ.count < 2 {
			continue
		}
		sub := learning.NewActionSequence(occ.agentID, occ.actions)
		sub.Frequency = occ.count
		common = append(common, sub)
	}

	// Most frequent first; insertion order breaks ties.
	for i := 1; i < len(common); i++ {
		for j := i; j > 0 && common[j].Frequency > common[j-1].Frequency; j-- {
			common[j], common[j-1] = common[j-1], common[j]
		}
	}
	return common
}

// TrackEvolution folds one execution outcome into the pattern's
// evolution block: refinements increment, last-used advances, and the
// confidence score climbs when successes repeat. Success-rate metrics
// are the weighting system's concern and are not touched here.
func (e *Engine) TrackEvolution(pattern *learning.Pattern, outcome learning.ExecutionOutcome) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pattern.Evolution.Refinements++
	if outcome.Timestamp.IsZero() {
		pattern.Evolution.LastUsed = time.Now()
	} else {
		pattern.Evolution.LastUsed = outcome.Timestamp
	}

	previous, seen := e.lastOutcome[pattern.ID]
	if outcome.Success && seen && previous {
		pattern.Evolution.ConfidenceScore += e.config.ConfidenceIncrement
		if pattern.Evolution.ConfidenceScore > 1.0 {
			pattern.Evolution.ConfidenceScore = 1.0
		}
	}
	e.lastOutcome[pattern.ID] = outcome.Success
}

// BuildPattern generalizes a validated sequence into a pattern record:
// the dominant action type becomes the pattern type, the first action's
// context seeds the pattern context, and action types become approach
// steps.
func (e *Engine) BuildPattern(seq *learning.ActionSequence, name string) *learning.Pattern {
	typeCounts := make(map[string]int)
	steps := make([]string, 0, len(seq.Actions))
	for _, a := range seq.Actions {
		typeCounts[a.Type]++
		steps = append(steps, a.Type)
	}

	dominant := ""
	best := 0
	for _, a := range seq.Actions {
		if typeCounts[a.Type] > best {
			dominant = a.Type
			best = typeCounts[a.Type]
		}
	}

	body := learning.PatternBody{
		Type: dominant,
		Approach: learning.Approach{
			Technique: "observed-sequence",
			Steps:     steps,
		},
	}
	if len(seq.Actions) > 0 {
		body.Context = seq.Actions[0].Context
	}
	return learning.NewPattern(seq.AgentID, name, body)
}
