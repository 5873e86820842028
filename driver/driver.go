// Package driver implements outer search strategies over the engine
// package's neighborhoods: a timed, concurrent worker pool that runs
// independent local searches and reports results on a channel, mirroring
// how a generator tool drives many independent restarts toward a single
// best-known schedule.
package driver

import (
	"math"
	"math/rand"
	"time"

	"github.com/cct-timetabling/cct/engine"
)

// Method selects the outer heuristic a worker applies once it holds a
// feasible starting solution.
type Method int

const (
	MethodNone Method = iota
	MethodLocalSearch
	MethodTabuSearch
	MethodHillClimbing
	MethodSimulatedAnnealing
)

func (m Method) String() string {
	switch m {
	case MethodNone:
		return "none"
	case MethodLocalSearch:
		return "local-search"
	case MethodTabuSearch:
		return "tabu-search"
	case MethodHillClimbing:
		return "hill-climbing"
	case MethodSimulatedAnnealing:
		return "simulated-annealing"
	default:
		return "unknown"
	}
}

// Config controls one worker's run: which outer method to apply, for
// how long, and the finder/tabu/annealing parameters it needs.
type Config struct {
	Method      Method
	Duration    time.Duration
	Finder      engine.FinderConfig
	TabuTenure  int     // number of recent fingerprints a tabu search holds as tabu
	InitialTemp float64 // simulated annealing starting temperature
	CoolingRate float64 // multiplicative cooling factor applied after each accepted step
}

// DefaultConfig returns reasonable defaults: hill climbing, generous
// finder retries, a minute-long run.
func DefaultConfig() Config {
	return Config{
		Method:      MethodHillClimbing,
		Duration:    time.Minute,
		Finder:      engine.DefaultFinderConfig(),
		TabuTenure:  50,
		InitialTemp: 2.0,
		CoolingRate: 0.999,
	}
}

// Result is one worker's outcome: the final cost reached and a
// snapshot of the assignment that produced it. Badness is negative if
// the worker never found a feasible starting solution.
type Result struct {
	Badness    int
	Assignment []engine.Placement
}

// Run drives a single search to completion within cfg.Duration,
// starting from a fresh feasible solution built by the finder. It owns
// rng exclusively: callers running several Run calls concurrently must
// give each its own *rand.Rand.
func Run(inst *engine.Instance, cfg Config, rng *rand.Rand) Result {
	st := engine.NewState(inst)
	if !engine.TryFind(inst, cfg.Finder, rng, st) {
		return Result{Badness: -1}
	}

	switch cfg.Method {
	case MethodNone:
		// leave the constructed solution as-is
	case MethodTabuSearch:
		runTabuSearch(st, cfg, rng)
	case MethodSimulatedAnnealing:
		runSimulatedAnnealing(st, cfg, rng)
	default: // MethodLocalSearch, MethodHillClimbing share one descent loop
		runHillClimbing(st, cfg, rng)
	}

	return Result{Badness: engine.FullCost(st), Assignment: st.Snapshot()}
}

// runHillClimbing repeatedly applies random effective swap moves,
// keeping only those that are feasible and strictly improve cost,
// until cfg.Duration elapses.
func runHillClimbing(st *engine.State, cfg Config, rng *rand.Rand) {
	deadline := time.Now().Add(cfg.Duration)
	for time.Now().Before(deadline) {
		mv := engine.GenerateRandom(st, rng, false)
		st.Extended(&mv, engine.PredictAlways, engine.PredictIfFeasible, engine.PerformIfFeasibleAndBetter)
	}
}

// runTabuSearch runs the same descent as hill climbing but accepts
// feasible sideways/worsening moves too, refusing to revisit a
// solution whose fingerprint is still within the tabu tenure unless the
// move strictly improves cost.
func runTabuSearch(st *engine.State, cfg Config, rng *rand.Rand) {
	recent := newTabuList(cfg.TabuTenure)
	recent.push(st.Fingerprint())

	deadline := time.Now().Add(cfg.Duration)
	for time.Now().Before(deadline) {
		mv := engine.GenerateRandom(st, rng, false)
		result := st.Predict(&mv, engine.PredictAlways, engine.PredictAlways)
		if !result.Feasible {
			continue
		}
		next := st.Fingerprint().Sub(result.FingerprintMinus).Add(result.FingerprintPlus)
		if recent.contains(next) && result.Delta.Cost >= 0 {
			continue
		}
		st.Perform(&mv, engine.PerformAlways, &result)
		recent.push(next)
	}
}

// runSimulatedAnnealing accepts improving moves unconditionally and
// other feasible moves when a uniform draw, jittered by a small normal
// term, falls below exp(-delta/temp), cooling
// temp by CoolingRate after every accepted step.
func runSimulatedAnnealing(st *engine.State, cfg Config, rng *rand.Rand) {
	temp := cfg.InitialTemp
	deadline := time.Now().Add(cfg.Duration)
	for time.Now().Before(deadline) {
		mv := engine.GenerateRandom(st, rng, false)
		result := st.Predict(&mv, engine.PredictAlways, engine.PredictAlways)
		if !result.Feasible {
			continue
		}
		accept := result.Delta.Cost < 0
		if !accept && temp > 0 {
			// rng.NormFloat64 gives a cheap, idiomatic substitute for the
			// triangular/normal acceptance jitter a simulated annealer uses
			// to avoid always rejecting borderline moves identically.
			threshold := rng.Float64() + rng.NormFloat64()*0.05
			accept = threshold < annealingAcceptance(result.Delta.Cost, temp)
		}
		if accept {
			st.Perform(&mv, engine.PerformAlways, &result)
			temp *= cfg.CoolingRate
		}
	}
}

func annealingAcceptance(delta int, temp float64) float64 {
	if temp <= 0 {
		return 0
	}
	return math.Exp(-float64(delta) / temp)
}

// tabuList is a fixed-capacity ring buffer of recently visited
// fingerprints.
type tabuList struct {
	entries []engine.Fingerprint
	next    int
	full    bool
}

func newTabuList(capacity int) *tabuList {
	if capacity < 1 {
		capacity = 1
	}
	return &tabuList{entries: make([]engine.Fingerprint, capacity)}
}

func (t *tabuList) push(fp engine.Fingerprint) {
	t.entries[t.next] = fp
	t.next = (t.next + 1) % len(t.entries)
	if t.next == 0 {
		t.full = true
	}
}

func (t *tabuList) contains(fp engine.Fingerprint) bool {
	n := len(t.entries)
	if !t.full {
		n = t.next
	}
	for i := 0; i < n; i++ {
		if t.entries[i] == fp {
			return true
		}
	}
	return false
}
