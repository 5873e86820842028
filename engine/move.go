package engine

// PredictStrategy controls whether a neighborhood's predict step runs.
type PredictStrategy int

const (
	PredictNever PredictStrategy = iota
	PredictIfFeasible
	PredictAlways
)

// PerformStrategy controls whether a neighborhood's perform step
// applies the move.
type PerformStrategy int

const (
	PerformNever PerformStrategy = iota
	PerformIfFeasible
	PerformIfBetter
	PerformIfFeasibleAndBetter
	PerformAlways
)

// shouldPerform implements the perform semantics shared by every
// neighborhood: apply unconditionally, only if the precheck found the
// move feasible, only if it strictly improves cost, or both.
func shouldPerform(strategy PerformStrategy, feasible bool, delta CostDelta) bool {
	switch strategy {
	case PerformAlways:
		return true
	case PerformIfFeasible:
		return feasible
	case PerformIfBetter:
		return delta.Cost < 0
	case PerformIfFeasibleAndBetter:
		return feasible && delta.Cost < 0
	default:
		return false
	}
}
