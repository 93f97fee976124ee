package entity

import "math"

// StrategyResult is what a strategy worker hands back to the coordinator.
// A successful result owns its artifact until the coordinator takes it;
// a failed one carries +Inf and no artifact so it always loses comparisons.
type StrategyResult struct {
	Strategy Strategy
	Success  bool
	SizeKB   float64
	Artifact *Artifact
}

// FailedResult marks a strategy that produced nothing usable.
func FailedResult(s Strategy) StrategyResult {
	return StrategyResult{Strategy: s, Success: false, SizeKB: math.Inf(1)}
}
