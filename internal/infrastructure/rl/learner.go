// Package rl implements the tabular reinforcement learning module:
// epsilon-greedy action selection, temporal-difference value updates,
// experience replay, and table pruning.
package rl

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/agentkit/agentlearn/internal/domain/policy"
	"github.com/agentkit/agentlearn/internal/shared"
)

// tableKey is the composite (state key, action key) tuple indexing the
// flat Q-value table.
type tableKey struct {
	state  string
	action string
}

// TriggerPolicy decides when periodic maintenance runs. Injecting a
// policy lets tests drive replay and pruning deterministically instead
// of relying on modulo-count side effects.
type TriggerPolicy interface {
	ShouldReplay(updateCount int64) bool
	ShouldPrune(updateCount int64) bool
}

// intervalTrigger fires on fixed update-count intervals.
type intervalTrigger struct {
	replayEvery int64
	pruneEvery  int64
}

func (t intervalTrigger) ShouldReplay(count int64) bool {
	return t.replayEvery > 0 && count%t.replayEvery == 0
}

func (t intervalTrigger) ShouldPrune(count int64) bool {
	return t.pruneEvery > 0 && count%t.pruneEvery == 0
}

// Learner is the tabular value learner. A single mutex guards the table,
// the replay buffer, and the reward histories; updates to the same state
// are therefore serialized, preserving the read-modify-write atomicity
// of the TD update.
type Learner struct {
	mu     sync.Mutex
	config policy.LearnerConfig
	rng    *rand.Rand

	table map[tableKey]*policy.QValueEntry
	// stateActions is the secondary index: state key to the set of
	// action keys present in the table for that state.
	stateActions map[string]map[string]struct{}

	buffer       []policy.Experience
	agentRewards map[string][]float64
	allRewards   []float64

	epsilon     float64
	updateCount int64
	trigger     TriggerPolicy
}

// NewLearner creates a learner with the given configuration and the
// default interval-based maintenance trigger.
func NewLearner(config policy.LearnerConfig) *Learner {
	return &Learner{
		config:       config,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		table:        make(map[tableKey]*policy.QValueEntry),
		stateActions: make(map[string]map[string]struct{}),
		agentRewards: make(map[string][]float64),
		epsilon:      config.Epsilon,
		trigger: intervalTrigger{
			replayEvery: int64(config.ReplayInterval),
			pruneEvery:  int64(config.PruneInterval),
		},
	}
}

// SetTriggerPolicy replaces the maintenance trigger.
func (l *Learner) SetTriggerPolicy(trigger TriggerPolicy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trigger = trigger
}

// SelectAction picks an action for the state. With probability epsilon
// (and unless forceExploit) a uniformly random action is explored;
// otherwise the action with the highest adjusted value wins: known
// entries are read from the table with a risk penalty subtracted (full
// for high risk, half for medium), unknown actions are assumed at the
// initial Q-value plus an exploration bonus.
func (l *Learner) SelectAction(state policy.State, available []policy.Action, agentID string, forceExploit bool) (policy.Action, error) {
	if len(available) == 0 {
		return policy.Action{}, fmt.Errorf("%w: agent %q", policy.ErrNoAvailableActions, agentID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !forceExploit && l.rng.Float64() < l.epsilon {
		return available[l.rng.Intn(len(available))], nil
	}

	stateKey := state.Key()
	best := available[0]
	bestValue := l.adjustedValue(stateKey, available[0])
	for _, action := range available[1:] {
		if v := l.adjustedValue(stateKey, action); v > bestValue {
			best = action
			bestValue = v
		}
	}
	return best, nil
}

// GetBestAction is the pure greedy selection: no exploration regardless
// of the current epsilon.
func (l *Learner) GetBestAction(state policy.State, available []policy.Action, agentID string) (policy.Action, error) {
	return l.SelectAction(state, available, agentID, true)
}

// adjustedValue scores one action for greedy comparison. Caller holds
// the lock.
func (l *Learner) adjustedValue(stateKey string, action policy.Action) float64 {
	entry, ok := l.table[tableKey{state: stateKey, action: action.Key()}]
	if !ok {
		// Never tried in this state: assume the initial value and add
		// the exploration bonus.
		return l.config.InitialQValue + l.config.ExplorationBonus
	}
	return entry.Value - l.riskPenalty(action)
}

func (l *Learner) riskPenalty(action policy.Action) float64 {
	switch action.Risk {
	case shared.RiskHigh:
		return l.config.RiskPenalty
	case shared.RiskMedium:
		return l.config.RiskPenalty / 2
	default:
		return 0
	}
}

// UpdateQValue applies the temporal-difference update
// Q ← Q + α·(r + γ·max_a' Q(s',a') − Q) with an adaptive learning rate:
// the base rate shrinks as the entry accumulates updates and grows while
// confidence is still low. The experience is retained for replay, the
// agent's reward history is appended, epsilon decays toward its floor,
// and the maintenance trigger may fire replay or pruning.
func (l *Learner) UpdateQValue(state policy.State, action policy.Action, reward float64, nextState policy.State, agentID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.applyTD(state, action, reward, nextState, 1.0)

	// Retain for replay, dropping the oldest on overflow.
	exp := policy.Experience{
		State:     state,
		Action:    action,
		Reward:    reward,
		NextState: nextState,
		Timestamp: time.Now(),
	}
	if len(l.buffer) >= l.config.ReplayBufferSize {
		l.buffer = l.buffer[1:]
	}
	l.buffer = append(l.buffer, exp)

	l.recordReward(agentID, reward)

	l.epsilon *= l.config.EpsilonDecay
	if l.epsilon < l.config.EpsilonFloor {
		l.epsilon = l.config.EpsilonFloor
	}

	l.updateCount++
	if l.trigger.ShouldReplay(l.updateCount) {
		l.replayLocked()
	}
	if l.trigger.ShouldPrune(l.updateCount) {
		l.pruneLocked()
	}
}

// applyTD performs one TD update at lrScale times the adaptive rate.
// Caller holds the lock.
func (l *Learner) applyTD(state policy.State, action policy.Action, reward float64, nextState policy.State, lrScale float64) {
	stateKey := state.Key()
	actionKey := action.Key()
	key := tableKey{state: stateKey, action: actionKey}

	entry, ok := l.table[key]
	if !ok {
		entry = &policy.QValueEntry{Value: l.config.InitialQValue}
		l.table[key] = entry
		actions, ok := l.stateActions[stateKey]
		if !ok {
			actions = make(map[string]struct{})
			l.stateActions[stateKey] = actions
		}
		actions[actionKey] = struct{}{}
	}

	maxNext := l.maxQ(nextState.Key())
	target := reward + l.config.DiscountFactor*maxNext

	alpha := l.config.LearningRate * lrScale
	alpha *= 1 / (1 + 0.01*float64(entry.UpdateCount))
	alpha *= 1 + 0.5*(1-entry.Confidence)

	entry.Value += alpha * (target - entry.Value)
	entry.UpdateCount++
	entry.LastUpdated = time.Now()
	entry.Confidence += l.config.ConfidenceIncrement
	if entry.Confidence > 1 {
		entry.Confidence = 1
	}
}

// maxQ returns the best known value for a state, 0 when the state has no
// entries. Caller holds the lock.
func (l *Learner) maxQ(stateKey string) float64 {
	actions, ok := l.stateActions[stateKey]
	if !ok || len(actions) == 0 {
		return 0
	}
	first := true
	best := 0.0
	for actionKey := range actions {
		entry := l.table[tableKey{state: stateKey, action: actionKey}]
		if entry == nil {
			continue
		}
		if first || entry.Value > best {
			best = entry.Value
			first = false
		}
	}
	return best
}

func (l *Learner) recordReward(agentID string, reward float64) {
	limit := l.config.RewardHistorySize
	history := append(l.agentRewards[agentID], reward)
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	l.agentRewards[agentID] = history

	l.allRewards = append(l.allRewards, reward)
	if len(l.allRewards) > limit {
		l.allRewards = l.allRewards[len(l.allRewards)-limit:]
	}
}

// GetQValue returns a copy of the entry for the pair and whether it
// exists.
func (l *Learner) GetQValue(state policy.State, action policy.Action) (policy.QValueEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.table[tableKey{state: state.Key(), action: action.Key()}]
	if !ok {
		return policy.QValueEntry{}, false
	}
	return *entry, true
}

// Replay re-applies the TD update to a random batch sampled from the
// buffer with replacement, at half the base learning rate and against
// the current table so newer learning is not overwritten. Returns the
// number of replayed experiences (0 when the buffer holds less than one
// batch).
func (l *Learner) Replay() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.replayLocked()
}

func (l *Learner) replayLocked() int {
	if len(l.buffer) < l.config.ReplayBatchSize {
		return 0
	}
	for i := 0; i < l.config.ReplayBatchSize; i++ {
		exp := l.buffer[l.rng.Intn(len(l.buffer))]
		l.applyTD(exp.State, exp.Action, exp.Reward, exp.NextState, 0.5)
	}
	return l.config.ReplayBatchSize
}

// Prune removes entries whose confidence fell below the configured
// threshold, drops states left without actions, and, if the table still
// exceeds its maximum size, removes the oldest-updated 20% of the
// remaining entries. Returns the number of entries removed.
func (l *Learner) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pruneLocked()
}

func (l *Learner) pruneLocked() int {
	removed := 0
	for key, entry := range l.table {
		if entry.Confidence < l.config.PruneConfidenceThreshold {
			l.removeEntry(key)
			removed++
		}
	}

	if len(l.table) > l.config.MaxTableSize {
		keys := make([]tableKey, 0, len(l.table))
		for key := range l.table {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool {
			return l.table[keys[i]].LastUpdated.Before(l.table[keys[j]].LastUpdated)
		})

		drop := len(keys) / 5
		if drop < 1 {
			drop = 1
		}
		for i := 0; i < drop; i++ {
			l.removeEntry(keys[i])
			removed++
		}
	}
	return removed
}

// removeEntry deletes a table entry and cleans the secondary index.
// Caller holds the lock.
func (l *Learner) removeEntry(key tableKey) {
	delete(l.table, key)
	if actions, ok := l.stateActions[key.state]; ok {
		delete(actions, key.action)
		if len(actions) == 0 {
			delete(l.stateActions, key.state)
		}
	}
}

// GetStatistics summarizes learning progress. An empty agentID reports
// globally; otherwise the agent's own reward history drives the average
// and trend.
func (l *Learner) GetStatistics(agentID string) policy.Statistics {
	l.mu.Lock()
	defer l.mu.Unlock()

	rewards := l.allRewards
	if agentID != "" {
		rewards = l.agentRewards[agentID]
	}

	stats := policy.Statistics{
		TotalUpdates:     l.updateCount,
		TableSize:        len(l.table),
		ReplayBufferSize: len(l.buffer),
		Epsilon:          l.epsilon,
		Trend:            l.classifyTrend(rewards),
		AgentID:          agentID,
	}
	if len(rewards) > 0 {
		var sum float64
		for _, r := range rewards {
			sum += r
		}
		stats.AverageReward = sum / float64(len(rewards))
	}
	return stats
}

// classifyTrend compares the most recent half of the trend window to the
// half before it, thresholded at the configured margin.
func (l *Learner) classifyTrend(rewards []float64) policy.Trend {
	window := l.config.TrendWindow
	if len(rewards) < window {
		window = len(rewards)
	}
	if window < 4 {
		return policy.TrendStable
	}

	recent := rewards[len(rewards)-window:]
	half := window / 2
	var older, newer float64
	for _, r := range recent[:half] {
		older += r
	}
	for _, r := range recent[len(recent)-half:] {
		newer += r
	}
	older /= float64(half)
	newer /= float64(half)

	switch {
	case newer-older > l.config.TrendThreshold:
		return policy.TrendImproving
	case older-newer > l.config.TrendThreshold:
		return policy.TrendDeclining
	default:
		return policy.TrendStable
	}
}

// Epsilon returns the current exploration probability.
func (l *Learner) Epsilon() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.epsilon
}

// ResetEpsilon restores the configured starting exploration probability.
func (l *Learner) ResetEpsilon() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.epsilon = l.config.Epsilon
}

// Reset clears all learning state: the table, the replay buffer, the
// reward histories, the update counter, and epsilon.
func (l *Learner) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.table = make(map[tableKey]*policy.QValueEntry)
	l.stateActions = make(map[string]map[string]struct{})
	l.buffer = nil
	l.agentRewards = make(map[string][]float64)
	l.allRewards = nil
	l.updateCount = 0
	l.epsilon = l.config.Epsilon
}
