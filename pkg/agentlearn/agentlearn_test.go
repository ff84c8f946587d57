package agentlearn

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentkit/agentlearn/internal/infrastructure/persistence"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	t.Cleanup(func() { engine.Close() })
	return engine
}

// repeatedActions builds count repetitions of the same short workflow,
// each run separated by a pause wide enough to split sequences.
func repeatedActions(agentID string, steps []string, count int) []ActionRecord {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	actions := make([]ActionRecord, 0, count*len(steps))
	for run := 0; run < count; run++ {
		runStart := base.Add(time.Duration(run) * time.Minute)
		for i, step := range steps {
			actions = append(actions, ActionRecord{
				ID:        step,
				AgentID:   agentID,
				Type:      step,
				Outcome:   "success",
				Timestamp: runStart.Add(time.Duration(i) * time.Second),
			})
		}
	}
	return actions
}

func TestMinePatterns_RecurringWorkflow(t *testing.T) {
	engine := newTestEngine(t)

	actions := repeatedActions("agent-1", []string{"fetch", "parse", "store"}, 8)
	patterns := engine.MinePatterns(actions, "agent-1")
	if len(patterns) == 0 {
		t.Fatal("expected at least one mined pattern from 8 repetitions")
	}
	for _, p := range patterns {
		if p.AgentID != "agent-1" {
			t.Errorf("pattern agent = %q, want agent-1", p.AgentID)
		}
		if !p.Active {
			t.Error("mined pattern should start active")
		}
		if p.Evolution.ConfidenceScore != 0.5 {
			t.Errorf("initial confidence = %v, want 0.5", p.Evolution.ConfidenceScore)
		}
	}
}

func TestMinePatterns_RareWorkflowRejected(t *testing.T) {
	engine := newTestEngine(t)

	actions := repeatedActions("agent-1", []string{"fetch", "parse"}, 2)
	patterns := engine.MinePatterns(actions, "agent-1")
	if len(patterns) != 0 {
		t.Fatalf("2 repetitions should not be significant, got %d patterns", len(patterns))
	}
}

func TestExtractSequences_SplitsOnGap(t *testing.T) {
	engine := newTestEngine(t)

	actions := repeatedActions("agent-1", []string{"a", "b"}, 3)
	sequences := engine.ExtractSequences(actions, "agent-1")
	if len(sequences) != 3 {
		t.Fatalf("got %d sequences, want 3", len(sequences))
	}
}

func TestScorePattern_RecordsHistory(t *testing.T) {
	engine := newTestEngine(t)

	actions := repeatedActions("agent-1", []string{"fetch", "parse", "store"}, 8)
	patterns := engine.MinePatterns(actions, "agent-1")
	if len(patterns) == 0 {
		t.Fatal("no patterns mined")
	}
	p := patterns[0]

	engine.RecordPatternOutcome(p, ExecutionOutcome{Success: true, Timestamp: time.Now(), TimeSavedMs: 1500})

	result := engine.ScorePattern(p, nil, nil)
	if result.TotalWeight < 0 || result.TotalWeight > 1 {
		t.Errorf("weight %v out of [0,1]", result.TotalWeight)
	}
	if result.Recommendation == "" {
		t.Error("expected a recommendation band")
	}

	history, ok := engine.WeightHistory(p.ID)
	if !ok {
		t.Fatal("scoring should record history")
	}
	if history.TotalUses != 1 {
		t.Errorf("TotalUses = %d, want 1", history.TotalUses)
	}
}

func TestObserveOutcome_TrainsLearner(t *testing.T) {
	engine := newTestEngine(t)

	state := State{Energy: 0.8}
	next := State{Energy: 0.7}
	action := Action{Type: "apply-pattern", Risk: RiskLow}

	var reward Reward
	for i := 0; i < 20; i++ {
		reward = engine.ObserveOutcome(state, action, next, "agent-1", true, 60_000, 0.5, false)
	}
	if reward.Value <= 0 {
		t.Fatalf("successful outcome reward = %v, want > 0", reward.Value)
	}

	entry, ok := engine.QValue(state, action)
	if !ok {
		t.Fatal("expected a Q-value after updates")
	}
	if entry.UpdateCount != 20 {
		t.Errorf("UpdateCount = %d, want 20", entry.UpdateCount)
	}
	if entry.Value <= 0.5 {
		t.Errorf("value = %v, want > initial 0.5 after consistent success", entry.Value)
	}

	best, err := engine.BestAction(state, []Action{action, {Type: "untried", Risk: RiskHigh}}, "agent-1")
	if err != nil {
		t.Fatalf("BestAction: %v", err)
	}
	if best.Type != "apply-pattern" {
		t.Errorf("best action = %q, want apply-pattern", best.Type)
	}

	stats := engine.LearnerStatistics("agent-1")
	if stats.TotalUpdates != 20 {
		t.Errorf("TotalUpdates = %d, want 20", stats.TotalUpdates)
	}
}

func TestQTablePersistence_RoundTrip(t *testing.T) {
	config := DefaultConfig()
	config.StorePath = filepath.Join(t.TempDir(), "learn.db")
	engine, err := NewEngine(config)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	defer engine.Close()

	state := State{Energy: 1.0}
	action := Action{Type: "build", Risk: RiskLow}
	engine.UpdateQValue(state, action, 0.8, state, "agent-1")

	if err := engine.SaveQTable("agent-1"); err != nil {
		t.Fatalf("SaveQTable: %v", err)
	}

	engine.ImportQTable(QTableExport{})
	if _, ok := engine.QValue(state, action); ok {
		t.Fatal("table should be empty after importing an empty snapshot")
	}

	restored, err := engine.LoadQTable("agent-1")
	if err != nil {
		t.Fatalf("LoadQTable: %v", err)
	}
	if restored != 1 {
		t.Errorf("restored = %d, want 1", restored)
	}
	if _, ok := engine.QValue(state, action); !ok {
		t.Error("expected the saved entry back after load")
	}
}

func TestQTablePersistence_RequiresStore(t *testing.T) {
	engine := newTestEngine(t)

	if err := engine.SaveQTable("agent-1"); !errors.Is(err, persistence.ErrStoreError) {
		t.Errorf("SaveQTable without store = %v, want ErrStoreError", err)
	}
	if _, err := engine.LoadQTable("agent-1"); !errors.Is(err, persistence.ErrStoreError) {
		t.Errorf("LoadQTable without store = %v, want ErrStoreError", err)
	}
}

func TestCacheStats_TracksSimilarityLookups(t *testing.T) {
	engine := newTestEngine(t)

	actions := repeatedActions("agent-1", []string{"a", "b"}, 2)
	sequences := engine.ExtractSequences(actions, "agent-1")
	if len(sequences) < 2 {
		t.Fatal("need two sequences")
	}

	engine.SequenceSimilarity(sequences[0], sequences[1])
	engine.SequenceSimilarity(sequences[0], sequences[1])

	stats := engine.CacheStats()
	if stats.Hits == 0 {
		t.Error("second similarity lookup should hit the cache")
	}
}
