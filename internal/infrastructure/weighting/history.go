package weighting

import "math"

// TrendTag qualifies the direction of a pattern's recent weights.
type TrendTag string

const (
	TrendImproving TrendTag = "improving"
	TrendStable    TrendTag = "stable"
	TrendDeclining TrendTag = "declining"
)

// PerformanceHistory is the per-pattern record updated on every weight
// computation. At most one record exists per pattern id; only an
// explicit reset removes records.
type PerformanceHistory struct {
	TotalUses      int      `json:"totalUses"`
	SuccessfulUses int      `json:"successfulUses"`
	AvgWeight      float64  `json:"avgWeight"`
	AvgDeviation   float64  `json:"avgDeviation"`
	Trend          TrendTag `json:"trend"`
}

// recordUsage folds one computed weight into the pattern's history:
// usage counters increment (a use counts as successful when the weight
// clears the current acceptance threshold), the running averages update
// by exponential moving average, and the trend compares the latest
// weight to the average band.
func (s *System) recordUsage(patternID string, weight float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hist, ok := s.history[patternID]
	if !ok {
		hist = &PerformanceHistory{Trend: TrendStable}
		s.history[patternID] = hist
	}

	hist.TotalUses++
	if weight >= s.minWeightThreshold {
		hist.SuccessfulUses++
	}

	if hist.TotalUses == 1 {
		hist.AvgWeight = weight
		hist.Trend = TrendStable
		return
	}

	switch {
	case weight > hist.AvgWeight+hist.AvgDeviation:
		hist.Trend = TrendImproving
	case weight < hist.AvgWeight-hist.AvgDeviation:
		hist.Trend = TrendDeclining
	default:
		hist.Trend = TrendStable
	}

	alpha := s.config.EMAFactor
	hist.AvgWeight = alpha*weight + (1-alpha)*hist.AvgWeight
	hist.AvgDeviation = alpha*math.Abs(weight-hist.AvgWeight) + (1-alpha)*hist.AvgDeviation
}

// History returns a copy of the performance record for a pattern id.
func (s *System) History(patternID string) (PerformanceHistory, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hist, ok := s.history[patternID]
	if !ok {
		return PerformanceHistory{}, false
	}
	return *hist, true
}

// AdjustThresholds nudges the process-wide minimum-weight threshold
// using the pattern's trend: improving history relaxes the bar,
// declining history tightens it, both bounded by the configured floor
// and ceiling. Histories below the minimum sample size are ignored.
func (s *System) AdjustThresholds(patternID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hist, ok := s.history[patternID]
	if !ok || hist.TotalUses < s.config.MinSampleSize {
		return
	}

	switch hist.Trend {
	case TrendImproving:
		s.minWeightThreshold -= s.config.ThresholdAdjustRate
	case TrendDeclining:
		s.minWeightThreshold += s.config.ThresholdAdjustRate
	default:
		return
	}

	if s.minWeightThreshold < s.config.MinThreshold {
		s.minWeightThreshold = s.config.MinThreshold
	}
	if s.minWeightThreshold > s.config.MaxThreshold {
		s.minWeightThreshold = s.config.MaxThreshold
	}
}

// ResetHistory discards all performance records and restores the initial
// threshold.
func (s *System) ResetHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = make(map[string]*PerformanceHistory)
	s.minWeightThreshold = s.config.InitialThreshold
}
