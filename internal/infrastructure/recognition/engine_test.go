package recognition

import (
	"testing"
	"time"

	"github.com/agentkit/agentlearn/internal/domain/learning"
	"github.com/agentkit/agentlearn/internal/infrastructure/cache"
	"github.com/agentkit/agentlearn/internal/shared"
)

func testAction(agentID, actionType string, at time.Time) learning.ActionRecord {
	return learning.ActionRecord{
		ID:        actionType + "-" + at.String(),
		AgentID:   agentID,
		Type:      actionType,
		Outcome:   shared.OutcomeSuccess,
		Timestamp: at,
	}
}

func TestExtractSequences_SplitsOnGap(t *testing.T) {
	e := NewEngine(learning.DefaultRecognitionConfig(), nil)
	base := time.Now()

	actions := []learning.ActionRecord{
		testAction("agent-1", "read", base),
		testAction("agent-1", "edit", base.Add(time.Second)),
		testAction("agent-1", "test", base.Add(2*time.Second)),
		// 30s pause starts a new sequence.
		testAction("agent-1", "read", base.Add(32*time.Second)),
		testAction("agent-1", "edit", base.Add(33*time.Second)),
	}

	sequences := e.ExtractSequences(actions, "agent-1")
	if len(sequences) != 2 {
		t.Fatalf("expected 2 sequences, got %d", len(sequences))
	}
	if len(sequences[0].Actions) != 3 || len(sequences[1].Actions) != 2 {
		t.Fatalf("unexpected sequence sizes: %d, %d", len(sequences[0].Actions), len(sequences[1].Actions))
	}
	if sequences[0].StartTime != base {
		t.Fatal("first sequence should start at the first action")
	}
}

func TestExtractSequences_NonEmptyInputYieldsSequence(t *testing.T) {
	e := NewEngine(learning.DefaultRecognitionConfig(), nil)

	sequences := e.ExtractSequences([]learning.ActionRecord{
		testAction("agent-1", "read", time.Now()),
	}, "agent-1")
	if len(sequences) != 1 {
		t.Fatalf("expected exactly 1 sequence for single action, got %d", len(sequences))
	}
}

func TestExtractSequences_DoesNotMutateInput(t *testing.T) {
	e := NewEngine(learning.DefaultRecognitionConfig(), nil)
	base := time.Now()

	// Deliberately out of order.
	actions := []learning.ActionRecord{
		testAction("agent-1", "second", base.Add(time.Second)),
		testAction("agent-1", "first", base),
	}

	e.ExtractSequences(actions, "agent-1")
	if actions[0].Type != "second" {
		t.Fatal("input slice order must not change")
	}
}

func TestExtractSequences_FiltersByAgent(t *testing.T) {
	e := NewEngine(learning.DefaultRecognitionConfig(), nil)
	base := time.Now()

	actions := []learning.ActionRecord{
		testAction("agent-1", "read", base),
		testAction("agent-2", "write", base.Add(time.Second)),
	}

	sequences := e.ExtractSequences(actions, "agent-2")
	if len(sequences) != 1 || len(sequences[0].Actions) != 1 {
		t.Fatal("expected only agent-2 actions in the result")
	}
	if sequences[0].Actions[0].Type != "write" {
		t.Fatalf("wrong action selected: %s", sequences[0].Actions[0].Type)
	}

	if got := e.ExtractSequences(actions, "agent-3"); got != nil {
		t.Fatalf("expected no sequences for unknown agent, got %d", len(got))
	}
}

func TestFindCommonSubsequences_AnnotatesFrequency(t *testing.T) {
	e := NewEngine(learning.DefaultRecognitionConfig(), nil)
	base := time.Now()

	makeSeq := func(offset time.Duration) *learning.ActionSequence {
		return learning.NewActionSequence("agent-1", []learning.ActionRecord{
			testAction("agent-1", "read", base.Add(offset)),
			testAction("agent-1", "edit", base.Add(offset+time.Second)),
			testAction("agent-1", "test", base.Add(offset+2*time.Second)),
		})
	}

	sequences := []*learning.ActionSequence{
		makeSeq(0),
		makeSeq(time.Minute),
		makeSeq(2 * time.Minute),
	}

	common := e.FindCommonSubsequences(sequences)
	if len(common) == 0 {
		t.Fatal("expected recurring subsequences across identical sequences")
	}
	if common[0].Frequency != 3 {
		t.Fatalf("expected top subsequence frequency 3, got %d", common[0].Frequency)
	}
	for i := 1; i < len(common); i++ {
		if common[i].Frequency > common[i-1].Frequency {
			t.Fatal("results must be ordered most frequent first")
		}
	}
}

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	e := NewEngine(learning.DefaultRecognitionConfig(), nil)
	base := time.Now()

	seq := learning.NewActionSequence("agent-1", []learning.ActionRecord{
		testAction("agent-1", "read", base),
		testAction("agent-1", "edit", base.Add(time.Second)),
	})

	if sim := e.CosineSimilarity(seq, seq); sim < 0.999 {
		t.Fatalf("self similarity should be ~1.0, got %f", sim)
	}
}

func TestCosineSimilarity_SymmetricAndBanded(t *testing.T) {
	e := NewEngine(learning.DefaultRecognitionConfig(), nil)
	base := time.Now()

	withParams := func(actionType string, params shared.ValueMap, at time.Time) learning.ActionRecord {
		a := testAction("agent-1", actionType, at)
		a.Parameters = params
		a.Context = shared.ValueMap{"project": shared.String("api")}
		return a
	}

	a := learning.NewActionSequence("agent-1", []learning.ActionRecord{
		withParams("read", shared.ValueMap{"file": shared.String("main.go")}, base),
		withParams("edit", shared.ValueMap{"file": shared.String("main.go")}, base.Add(time.Second)),
	})
	b := learning.NewActionSequence("agent-1", []learning.ActionRecord{
		withParams("read", shared.ValueMap{"file": shared.String("main.go")}, base.Add(time.Minute)),
		withParams("edit", shared.ValueMap{"file": shared.String("main.go")}, base.Add(time.Minute+time.Second)),
	})
	disjoint := learning.NewActionSequence("agent-1", []learning.ActionRecord{
		testAction("agent-1", "deploy", base),
		testAction("agent-1", "rollback", base.Add(time.Second)),
	})

	simAB := e.CosineSimilarity(a, b)
	simBA := e.CosineSimilarity(b, a)
	if simAB != simBA {
		t.Fatalf("similarity must be symmetric: %f vs %f", simAB, simBA)
	}
	if simAB <= 0.8 {
		t.Fatalf("near-identical sequences must score above 0.8, got %f", simAB)
	}
	if sim := e.CosineSimilarity(a, disjoint); sim >= 0.8 {
		t.Fatalf("disjoint sequences must score below 0.8, got %f", sim)
	}
}

func TestCosineSimilarity_ServedFromCache(t *testing.T) {
	caches := cache.NewManager(cache.DefaultManagerConfig())
	e := NewEngine(learning.DefaultRecognitionConfig(), caches)
	base := time.Now()

	a := learning.NewActionSequence("agent-1", []learning.ActionRecord{testAction("agent-1", "read", base)})
	b := learning.NewActionSequence("agent-1", []learning.ActionRecord{testAction("agent-1", "read", base.Add(time.Second))})

	first := e.CosineSimilarity(a, b)
	second := e.CosineSimilarity(a, b)
	if first != second {
		t.Fatalf("cached similarity must match computed: %f vs %f", first, second)
	}

	stats := caches.Segment(cache.SegmentPattern).Stats()
	if stats.Hits == 0 {
		t.Fatal("second lookup should hit the pattern segment")
	}
}

func TestValidatePattern_FrequencyFloor(t *testing.T) {
	e := NewEngine(learning.DefaultRecognitionConfig(), nil)
	base := time.Now()

	candidate := learning.NewActionSequence("agent-1", []learning.ActionRecord{
		testAction("agent-1", "read", base),
		testAction("agent-1", "edit", base.Add(time.Second)),
	})

	candidate.Frequency = 2
	if result := e.ValidatePattern(candidate, nil); result.Valid {
		t.Fatal("frequency 2 must be rejected")
	}

	candidate.Frequency = 20
	result := e.ValidatePattern(candidate, nil)
	if !result.Valid {
		t.Fatalf("frequency 20 must be accepted, p=%f", result.PValue)
	}
	if result.PValue >= 0.05 {
		t.Fatalf("expected significant p-value, got %f", result.PValue)
	}
}

func TestValidatePattern_MonotonicInFrequency(t *testing.T) {
	e := NewEngine(learning.DefaultRecognitionConfig(), nil)
	base := time.Now()

	candidate := learning.NewActionSequence("agent-1", []learning.ActionRecord{
		testAction("agent-1", "read", base),
		testAction("agent-1", "edit", base.Add(time.Second)),
	})

	previous := 1.0
	for freq := 1; freq <= 30; freq++ {
		candidate.Frequency = freq
		p := e.ValidatePattern(candidate, nil).PValue
		if p > previous {
			t.Fatalf("p-value must not increase with frequency: %f -> %f at freq %d", previous, p, freq)
		}
		previous = p
	}
}

func TestValidatePattern_SimilaritySupportLowersPValue(t *testing.T) {
	e := NewEngine(learning.DefaultRecognitionConfig(), nil)
	base := time.Now()

	candidate := learning.NewActionSequence("agent-1", []learning.ActionRecord{
		testAction("agent-1", "read", base),
		testAction("agent-1", "edit", base.Add(time.Second)),
	})
	candidate.Frequency = 3

	unsupported := e.ValidatePattern(candidate, nil).PValue

	similar := learning.NewPattern("agent-1", "editing loop", learning.PatternBody{
		Type: "read",
		Approach: learning.Approach{
			Technique: "observed-sequence",
			Steps:     []string{"read", "edit"},
		},
	})
	supported := e.ValidatePattern(candidate, []*learning.Pattern{similar}).PValue

	if supported >= unsupported {
		t.Fatalf("similarity to accepted patterns must lower the p-value: %f vs %f", supported, unsupported)
	}
}

func TestTrackEvolution_RefinementsAndConfidence(t *testing.T) {
	e := NewEngine(learning.DefaultRecognitionConfig(), nil)

	pattern := learning.NewPattern("agent-1", "test pattern", learning.PatternBody{Type: "edit"})
	before := pattern.Evolution.ConfidenceScore

	first := learning.ExecutionOutcome{Success: true, Timestamp: time.Now()}
	e.TrackEvolution(pattern, first)
	if pattern.Evolution.Refinements != 1 {
		t.Fatalf("expected 1 refinement, got %d", pattern.Evolution.Refinements)
	}
	if pattern.Evolution.ConfidenceScore != before {
		t.Fatal("a single success must not raise confidence yet")
	}

	e.TrackEvolution(pattern, learning.ExecutionOutcome{Success: true, Timestamp: time.Now()})
	if pattern.Evolution.ConfidenceScore <= before {
		t.Fatal("repeated success must raise confidence")
	}
	if pattern.Evolution.Refinements != 2 {
		t.Fatalf("expected 2 refinements, got %d", pattern.Evolution.Refinements)
	}

	raised := pattern.Evolution.ConfidenceScore
	e.TrackEvolution(pattern, learning.ExecutionOutcome{Success: false, Timestamp: time.Now()})
	if pattern.Evolution.ConfidenceScore != raised {
		t.Fatal("failure must not change confidence")
	}
}

func TestBuildPattern_GeneralizesSequence(t *testing.T) {
	e := NewEngine(learning.DefaultRecognitionConfig(), nil)
	base := time.Now()

	seq := learning.NewActionSequence("agent-1", []learning.ActionRecord{
		testAction("agent-1", "edit", base),
		testAction("agent-1", "edit", base.Add(time.Second)),
		testAction("agent-1", "test", base.Add(2*time.Second)),
	})

	pattern := e.BuildPattern(seq, "edit loop")
	if pattern.Body.Type != "edit" {
		t.Fatalf("expected dominant type edit, got %s", pattern.Body.Type)
	}
	if len(pattern.Body.Approach.Steps) != 3 {
		t.Fatalf("expected 3 approach steps, got %d", len(pattern.Body.Approach.Steps))
	}
	if !pattern.Active {
		t.Fatal("new patterns start active")
	}
}
