package engine

import (
	"math/rand"
	"testing"
)

// newOverconstrainedInstance builds an instance with exactly one room
// and one (day, period) slot but two single-lecture courses, so no
// ordering or randomness can ever place both: whichever lecture goes
// first claims the only room/slot, leaving the other with zero
// feasible slots (H2).
func newOverconstrainedInstance() *Instance {
	inst := &Instance{
		Name:          "over",
		Days:          1,
		PeriodsPerDay: 1,
		Teachers:      []string{"TA", "TB"},
		courseIndex:   map[string]int{"A": 0, "B": 1},
		roomIndex:     map[string]int{"R1": 0},
	}
	inst.Courses = []Course{
		{ID: "A", TeacherID: "TA", NLectures: 1, MinWorkingDays: 1, NStudents: 1, teacherIndex: 0, curriculumMask: []bool{}, lectureStart: 0},
		{ID: "B", TeacherID: "TB", NLectures: 1, MinWorkingDays: 1, NStudents: 1, teacherIndex: 1, curriculumMask: []bool{}, lectureStart: 1},
	}
	inst.Rooms = []Room{
		{ID: "R1", Capacity: 100},
	}
	inst.Lectures = []Lecture{
		{Course: 0},
		{Course: 1},
	}
	inst.available = make([]bool, inst.C()*inst.D()*inst.S())
	for i := range inst.available {
		inst.available[i] = true
	}
	return inst
}

func TestTryFindLeavesStateClearedOnExhaustion(t *testing.T) {
	inst := newOverconstrainedInstance()
	rng := rand.New(rand.NewSource(7))
	st := NewState(inst)

	if TryFind(inst, FinderConfig{RankingRandomness: 0.5, MaxAttempts: 10}, rng, st) {
		t.Fatalf("expected TryFind to fail on an overconstrained instance")
	}

	for l := 0; l < inst.L(); l++ {
		if st.IsPlaced(l) {
			t.Errorf("lecture %d still placed after TryFind returned false, want cleared state", l)
		}
	}
	if FullCost(st) != 0 {
		t.Errorf("FullCost of cleared state = %d, want 0", FullCost(st))
	}
}
