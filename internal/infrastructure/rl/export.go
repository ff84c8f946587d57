package rl

import (
	"github.com/agentkit/agentlearn/internal/domain/policy"
)

// ExportQTable snapshots the full table as the nested state→action→entry
// structure of the export contract. Entries are copied; mutating the
// export does not touch the learner.
func (l *Learner) ExportQTable() policy.QTableExport {
	l.mu.Lock()
	defer l.mu.Unlock()

	export := make(policy.QTableExport, len(l.stateActions))
	for key, entry := range l.table {
		actions, ok := export[key.state]
		if !ok {
			actions = make(map[string]policy.QValueEntry)
			export[key.state] = actions
		}
		actions[key.action] = *entry
	}
	return export
}

// ImportQTable replaces the table with the exported structure and
// returns the number of entries restored. Malformed entries are skipped
// rather than aborting the import: an empty state or action key drops
// the entry, a confidence outside [0, 1] is clamped, and a negative
// update count is treated as zero.
func (l *Learner) ImportQTable(export policy.QTableExport) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.table = make(map[tableKey]*policy.QValueEntry)
	l.stateActions = make(map[string]map[string]struct{})

	imported := 0
	for stateKey, actions := range export {
		if stateKey == "" {
			continue
		}
		for actionKey, entry := range actions {
			if actionKey == "" {
				continue
			}

			restored := entry
			if restored.Confidence < 0 {
				restored.Confidence = 0
			}
			if restored.Confidence > 1 {
				restored.Confidence = 1
			}
			if restored.UpdateCount < 0 {
				restored.UpdateCount = 0
			}

			l.table[tableKey{state: stateKey, action: actionKey}] = &restored
			index, ok := l.stateActions[stateKey]
			if !ok {
				index = make(map[string]struct{})
				l.stateActions[stateKey] = index
			}
			index[actionKey] = struct{}{}
			imported++
		}
	}
	return imported
}
