package engine

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newRandomInstance builds a small synthetic instance exercising
// curricula, shared teachers, and unavailability constraints, large
// enough for the finder to have room to maneuver but small enough to
// keep invariant checks fast.
func newRandomInstance() *Instance {
	const (
		nCourses = 6
		nRooms   = 3
		nDays    = 5
		nSlots   = 4
	)
	inst := &Instance{
		Name:          "R",
		Days:          nDays,
		PeriodsPerDay: nSlots,
		Teachers:      []string{"T0", "T1", "T2"},
		courseIndex:   map[string]int{},
		roomIndex:     map[string]int{},
	}
	lectureCursor := 0
	for c := 0; c < nCourses; c++ {
		nLectures := 2 + c%3
		inst.Courses = append(inst.Courses, Course{
			ID:             string(rune('A' + c)),
			TeacherID:      inst.Teachers[c%len(inst.Teachers)],
			NLectures:      nLectures,
			MinWorkingDays: 2,
			NStudents:      20 + c*5,
			teacherIndex:   c % len(inst.Teachers),
			curriculumMask: make([]bool, 2),
			lectureStart:   lectureCursor,
		})
		inst.courseIndex[inst.Courses[c].ID] = c
		lectureCursor += nLectures
	}
	for i := range inst.Courses {
		start, end := inst.Courses[i].lectureStart, inst.Courses[i].lectureStart+inst.Courses[i].NLectures
		for l := start; l < end; l++ {
			inst.Lectures = append(inst.Lectures, Lecture{Course: i})
		}
	}
	for r := 0; r < nRooms; r++ {
		id := string(rune('1' + r))
		inst.Rooms = append(inst.Rooms, Room{ID: "R" + id, Capacity: 15 + r*10})
		inst.roomIndex["R"+id] = r
	}
	// two curricula, each covering half the courses
	for q := 0; q < 2; q++ {
		var courses []int
		for c := q; c < nCourses; c += 2 {
			courses = append(courses, c)
			inst.Courses[c].curricula = append(inst.Courses[c].curricula, q)
			inst.Courses[c].curriculumMask[q] = true
		}
		inst.Curricula = append(inst.Curricula, Curriculum{ID: string(rune('X' + q)), Courses: courses})
	}
	inst.available = make([]bool, inst.C()*nDays*nSlots)
	for i := range inst.available {
		inst.available[i] = true
	}
	// course 0 unavailable on day 0 entirely
	for s := 0; s < nSlots; s++ {
		inst.available[idx3(0, nDays, 0, nSlots, s)] = false
	}
	return inst
}

// checkUniversalInvariants verifies properties 1-3 from the testable
// properties list against st's current indices.
func checkUniversalInvariants(t *testing.T, st *State) {
	t.Helper()
	inst := st.Instance
	C, R, D, S, Q, T := inst.C(), inst.R(), inst.D(), inst.S(), inst.Q(), inst.T()

	for c := 0; c < C; c++ {
		for d := 0; d < D; d++ {
			for s := 0; s < S; s++ {
				n := st.sumCDS[idx3(c, D, d, S, s)]
				if n != 0 && n != 1 {
					t.Errorf("sum_cds[%d][%d][%d] = %d, want 0 or 1", c, d, s, n)
				}
			}
		}
	}
	for q := 0; q < Q; q++ {
		for d := 0; d < D; d++ {
			for s := 0; s < S; s++ {
				n := st.sumQDS[idx3(q, D, d, S, s)]
				if n != 0 && n != 1 {
					t.Errorf("sum_qds[%d][%d][%d] = %d, want 0 or 1", q, d, s, n)
				}
			}
		}
	}
	for tIdx := 0; tIdx < T; tIdx++ {
		for d := 0; d < D; d++ {
			for s := 0; s < S; s++ {
				n := st.sumTDS[idx3(tIdx, D, d, S, s)]
				if n != 0 && n != 1 {
					t.Errorf("sum_tds[%d][%d][%d] = %d, want 0 or 1", tIdx, d, s, n)
				}
			}
		}
	}

	for l := 0; l < inst.L(); l++ {
		p := st.PlacementOf(l)
		if !p.IsPlaced() {
			continue
		}
		c := st.CourseOf(l)
		if !inst.Available(c, p.Day, p.Period) {
			t.Errorf("lecture %d placed at unavailable period (%d,%d) for course %d", l, p.Day, p.Period, c)
		}
	}

	count := make(map[int]int)
	for r := 0; r < R; r++ {
		for d := 0; d < D; d++ {
			for s := 0; s < S; s++ {
				l := st.lRDS[idx3(r, D, d, S, s)]
				if l >= 0 {
					count[l]++
				}
			}
		}
	}
	for l := 0; l < inst.L(); l++ {
		if !st.IsPlaced(l) {
			continue
		}
		if count[l] != 1 {
			t.Errorf("lecture %d occupies %d slots, want exactly 1", l, count[l])
		}
	}
}

func TestUniversalInvariantsAfterRandomMoves(t *testing.T) {
	inst := newRandomInstance()
	rng := rand.New(rand.NewSource(42))
	st := NewState(inst)
	if !TryFind(inst, FinderConfig{RankingRandomness: 0.3, MaxAttempts: 200}, rng, st) {
		t.Fatalf("finder failed to build an initial feasible solution")
	}
	checkUniversalInvariants(t, st)

	before := FullCost(st)
	for i := 0; i < 500; i++ {
		mv := GenerateRandom(st, rng, false)
		result := st.Predict(&mv, PredictAlways, PredictAlways)
		performed := st.Perform(&mv, PerformIfFeasible, &result)
		if performed {
			after := FullCost(st)
			if after-before != result.Delta.Cost {
				t.Fatalf("predict-matches-perform violated at move %d: delta=%d observed=%d", i, result.Delta.Cost, after-before)
			}
			before = after
		}
		checkUniversalInvariants(t, st)
	}
}

func TestIdempotentRebuild(t *testing.T) {
	inst := newRandomInstance()
	rng := rand.New(rand.NewSource(7))
	st := NewState(inst)
	if !TryFind(inst, DefaultFinderConfig(), rng, st) {
		t.Fatalf("finder failed")
	}
	for i := 0; i < 50; i++ {
		mv := GenerateRandom(st, rng, true)
		st.Extended(&mv, PredictAlways, PredictAlways, PerformAlways)
	}

	snapshot := st.Snapshot()
	rebuilt := Rebuild(inst, snapshot)

	if diff := cmp.Diff(st.sumCDS, rebuilt.sumCDS); diff != "" {
		t.Errorf("sum_cds mismatch after rebuild (-incremental +rebuilt):\n%s", diff)
	}
	if diff := cmp.Diff(st.sumQDS, rebuilt.sumQDS); diff != "" {
		t.Errorf("sum_qds mismatch after rebuild (-incremental +rebuilt):\n%s", diff)
	}
	if diff := cmp.Diff(st.sumTDS, rebuilt.sumTDS); diff != "" {
		t.Errorf("sum_tds mismatch after rebuild (-incremental +rebuilt):\n%s", diff)
	}
	if diff := cmp.Diff(st.sumCD, rebuilt.sumCD); diff != "" {
		t.Errorf("sum_cd mismatch after rebuild (-incremental +rebuilt):\n%s", diff)
	}
	if diff := cmp.Diff(st.sumCR, rebuilt.sumCR); diff != "" {
		t.Errorf("sum_cr mismatch after rebuild (-incremental +rebuilt):\n%s", diff)
	}
	if diff := cmp.Diff(st.rCDS, rebuilt.rCDS); diff != "" {
		t.Errorf("r_cds mismatch after rebuild (-incremental +rebuilt):\n%s", diff)
	}
	if diff := cmp.Diff(st.cRDS, rebuilt.cRDS); diff != "" {
		t.Errorf("c_rds mismatch after rebuild (-incremental +rebuilt):\n%s", diff)
	}
	if diff := cmp.Diff(st.lRDS, rebuilt.lRDS); diff != "" {
		t.Errorf("l_rds mismatch after rebuild (-incremental +rebuilt):\n%s", diff)
	}
	if st.Fingerprint() != rebuilt.Fingerprint() {
		t.Errorf("fingerprint mismatch after rebuild")
	}
}

func TestFinderOnToyInstance(t *testing.T) {
	inst := newToyInstance()
	rng := rand.New(rand.NewSource(1))
	st := NewState(inst)
	if !TryFind(inst, FinderConfig{RankingRandomness: 0.2, MaxAttempts: 100}, rng, st) {
		t.Fatalf("finder failed on toy instance T")
	}
	cost := FullCost(st)
	if cost != 0 && cost != 1 {
		t.Errorf("expected cost in {0,1} on toy instance T, got %d", cost)
	}
}
