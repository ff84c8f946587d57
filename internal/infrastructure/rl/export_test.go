package rl

import (
	"testing"

	"github.com/agentkit/agentlearn/internal/domain/policy"
	"github.com/agentkit/agentlearn/internal/shared"
)

func TestExportImport_RoundTripIdempotence(t *testing.T) {
	l := NewLearner(policy.DefaultLearnerConfig())
	l.SetTriggerPolicy(manualTrigger{})

	states := []policy.State{testState("build"), testState("test"), testState("deploy")}
	actions := []policy.Action{
		testAction("compile", shared.RiskLow),
		testAction("retry", shared.RiskMedium),
	}

	for _, s := range states {
		for _, a := range actions {
			l.UpdateQValue(s, a, 0.7, s, "agent-1")
			l.UpdateQValue(s, a, 0.4, s, "agent-1")
		}
	}

	export := l.ExportQTable()

	restored := NewLearner(policy.DefaultLearnerConfig())
	imported := restored.ImportQTable(export)
	if imported != len(states)*len(actions) {
		t.Fatalf("expected %d entries imported, got %d", len(states)*len(actions), imported)
	}

	for _, s := range states {
		for _, a := range actions {
			original, ok := l.GetQValue(s, a)
			if !ok {
				t.Fatalf("missing original entry for %s/%s", s.Key(), a.Key())
			}
			roundTripped, ok := restored.GetQValue(s, a)
			if !ok {
				t.Fatalf("missing imported entry for %s/%s", s.Key(), a.Key())
			}
			if original != roundTripped {
				t.Fatalf("entry mismatch after round trip: %+v vs %+v", original, roundTripped)
			}
		}
	}
}

func TestExport_IsACopy(t *testing.T) {
	l := NewLearner(policy.DefaultLearnerConfig())
	l.SetTriggerPolicy(manualTrigger{})
	state := testState("build")
	action := testAction("compile", shared.RiskLow)

	l.UpdateQValue(state, action, 1.0, state, "agent-1")

	export := l.ExportQTable()
	for _, actionEntries := range export {
		for key, entry := range actionEntries {
			entry.Value = -99
			actionEntries[key] = entry
		}
	}

	live, _ := l.GetQValue(state, action)
	if live.Value == -99 {
		t.Fatal("mutating the export must not affect the learner")
	}
}

func TestImport_SkipsMalformedEntries(t *testing.T) {
	l := NewLearner(policy.DefaultLearnerConfig())

	imported := l.ImportQTable(policy.QTableExport{
		"": {
			"orphan||low": {Value: 0.5},
		},
		"state-ok": {
			"":            {Value: 0.5},
			"act-ok||low": {Value: 0.6, UpdateCount: -3, Confidence: 1.7},
		},
	})

	if imported != 1 {
		t.Fatalf("expected only the well-formed entry imported, got %d", imported)
	}

	export := l.ExportQTable()
	entry := export["state-ok"]["act-ok||low"]
	if entry.Confidence != 1.0 {
		t.Fatalf("confidence must clamp to 1.0, got %f", entry.Confidence)
	}
	if entry.UpdateCount != 0 {
		t.Fatalf("negative update counts must import as 0, got %d", entry.UpdateCount)
	}
}
