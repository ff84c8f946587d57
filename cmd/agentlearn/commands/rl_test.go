package commands

import (
	"path/filepath"
	"testing"
)

// setGlobalFlags points the shared flags at a fresh store and restores
// them when the test ends.
func setGlobalFlags(t *testing.T) {
	t.Helper()
	prevConfig, prevStore, prevJSON := configPath, storePath, jsonOutput
	t.Cleanup(func() {
		configPath, storePath, jsonOutput = prevConfig, prevStore, prevJSON
	})
	configPath = ""
	storePath = filepath.Join(t.TempDir(), "learn.db")
	jsonOutput = true
}

func TestRLStats_UnknownAgentReportsEmptyTable(t *testing.T) {
	setGlobalFlags(t)
	rlAgentID = "never-seen"

	if err := rlStatsCmd.RunE(rlStatsCmd, nil); err != nil {
		t.Fatalf("stats for an agent with no snapshot should succeed, got %v", err)
	}
}

func TestRLResetThenStats(t *testing.T) {
	setGlobalFlags(t)
	rlAgentID = "agent-1"

	if err := rlResetCmd.RunE(rlResetCmd, nil); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := rlStatsCmd.RunE(rlStatsCmd, nil); err != nil {
		t.Fatalf("stats after reset: %v", err)
	}
}
