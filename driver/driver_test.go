package driver

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/cct-timetabling/cct/engine"
)

const smallInstanceText = `Name: small
Courses: 3
Rooms: 2
Days: 3
Periods_per_day: 3
Curricula: 1
Constraints: 0

COURSES:
A T1 2 2 10
B T2 2 2 8
C T1 1 1 5

ROOMS:
R1 20
R2 12

CURRICULA:
Q1 2 A C

UNAVAILABILITY_CONSTRAINTS:

END.
`

func mustParse(t *testing.T) *engine.Instance {
	t.Helper()
	inst, err := engine.Parse(strings.NewReader(smallInstanceText))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return inst
}

func TestRunHillClimbingImprovesOrHoldsCost(t *testing.T) {
	inst := mustParse(t)
	rng := rand.New(rand.NewSource(1))

	cfg := DefaultConfig()
	cfg.Method = MethodHillClimbing
	cfg.Duration = 50 * time.Millisecond

	result := Run(inst, cfg, rng)
	if result.Badness < 0 {
		t.Fatalf("expected a feasible solution, finder failed")
	}

	st := engine.Rebuild(inst, result.Assignment)
	if engine.FullCost(st) != result.Badness {
		t.Errorf("result.Badness = %d, but rebuilt cost = %d", result.Badness, engine.FullCost(st))
	}

	// Replaying the finder with the same seed reproduces the solution Run
	// started from; hill climbing only performs improving moves.
	start := engine.NewState(inst)
	if !engine.TryFind(inst, cfg.Finder, rand.New(rand.NewSource(1)), start) {
		t.Fatalf("replayed finder failed")
	}
	if result.Badness > engine.FullCost(start) {
		t.Errorf("result.Badness = %d, worse than starting cost %d", result.Badness, engine.FullCost(start))
	}
}

func TestRunNoneLeavesFinderSolutionUnchanged(t *testing.T) {
	inst := mustParse(t)
	rng := rand.New(rand.NewSource(2))

	cfg := DefaultConfig()
	cfg.Method = MethodNone
	cfg.Duration = time.Millisecond

	result := Run(inst, cfg, rng)
	if result.Badness < 0 {
		t.Fatalf("expected a feasible solution")
	}

	// Replaying the finder with the same seed reproduces the solution Run
	// started from, which MethodNone must return as-is.
	start := engine.NewState(inst)
	if !engine.TryFind(inst, cfg.Finder, rand.New(rand.NewSource(2)), start) {
		t.Fatalf("replayed finder failed")
	}
	want := start.Snapshot()
	for l, p := range result.Assignment {
		if p != want[l] {
			t.Errorf("lecture %d at %+v, want finder placement %+v", l, p, want[l])
		}
	}
}

func TestRunPoolReturnsFeasibleResult(t *testing.T) {
	inst := mustParse(t)

	cfg := PoolConfig{
		Workers:  3,
		Duration: 30 * time.Millisecond,
		Worker: Config{
			Method:   MethodHillClimbing,
			Duration: 30 * time.Millisecond,
			Finder:   engine.DefaultFinderConfig(),
		},
	}

	best := RunPool(inst, cfg, 99)
	if best.Badness < 0 {
		t.Fatalf("expected at least one worker to find a feasible solution")
	}
}

func TestMethodString(t *testing.T) {
	cases := map[Method]string{
		MethodNone:               "none",
		MethodLocalSearch:        "local-search",
		MethodTabuSearch:         "tabu-search",
		MethodHillClimbing:       "hill-climbing",
		MethodSimulatedAnnealing: "simulated-annealing",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("Method(%d).String() = %q, want %q", int(m), got, want)
		}
	}
}
