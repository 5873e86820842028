package engine

import "math/rand"

// SwapMove moves lecture L1 into the target slot (R2, D2, S2),
// displacing whatever occupies that slot (if anything) back into L1's
// current slot. The helper fields (C1, R1, D1, S1, L2, C2) are derived on demand from the
// current state by DeriveHelper, never stored across calls.
type SwapMove struct {
	L1         int
	R2, D2, S2 int

	// derived helper fields, filled by DeriveHelper
	C1, R1, D1, S1 int
	L2, C2         int // L2 == -1 and C2 == -1 if the target slot is empty
}

// DeriveHelper fills in mv's derived fields from the current state:
// the course and current placement of L1, and the lecture/course (if
// any) occupying the target slot.
func (st *State) DeriveHelper(mv *SwapMove) {
	p := st.assignment[mv.L1]
	mv.C1 = st.CourseOf(mv.L1)
	mv.R1, mv.D1, mv.S1 = p.Room, p.Day, p.Period

	mv.L2 = st.LectureAt(mv.R2, mv.D2, mv.S2)
	if mv.L2 >= 0 {
		mv.C2 = st.CourseOf(mv.L2)
	} else {
		mv.C2 = -1
	}
}

// IsEffective reports whether the move actually swaps two different
// courses. mv must already have its helper fields derived.
func (mv *SwapMove) IsEffective() bool {
	return mv.C1 != mv.C2
}

// SwapResult holds the outcome of predicting (and possibly performing)
// a swap: hard-constraint feasibility, the cost delta, and the
// fingerprint contributions added/removed by the move.
type SwapResult struct {
	Feasible         bool
	Delta            CostDelta
	FingerprintPlus  Fingerprint
	FingerprintMinus Fingerprint
}

// checkLectures implements H1 (Lectures): course c (if any) must not
// already have a lecture at (d2, s2), discounting the period/course
// the move itself occupies.
func checkLectures(st *State, c, d1, s1, cOther, d2, s2 int) bool {
	if c < 0 {
		return true
	}
	inst := st.Instance
	D, S := inst.D(), inst.S()
	samePeriod := d1 == d2 && s1 == s2
	sameCourse := c == cOther
	n := st.sumCDS[idx3(c, D, d2, S, s2)]
	delta := 0
	if samePeriod {
		delta++
	}
	if sameCourse {
		delta++
	}
	return n-delta <= 0
}

// checkCurriculumConflicts implements H3a: no curriculum q that course
// c belongs to may already have a lecture at (d2, s2), discounting the
// period/shared-curriculum the move itself occupies.
func checkCurriculumConflicts(st *State, c, d1, s1, cOther, d2, s2 int) bool {
	if c < 0 {
		return true
	}
	inst := st.Instance
	D, S := inst.D(), inst.S()
	samePeriod := d1 == d2 && s1 == s2
	for _, q := range inst.CurriculaOf(c) {
		shareQ := cOther >= 0 && inst.SharesCurriculum(c, cOther, q)
		n := st.sumQDS[idx3(q, D, d2, S, s2)]
		delta := 0
		if samePeriod {
			delta++
		}
		if shareQ {
			delta++
		}
		if n-delta > 0 {
			return false
		}
	}
	return true
}

// checkTeacherConflicts implements H3b: course c's teacher must not
// already teach at (d2, s2), discounting the period/same-teacher the
// move itself occupies.
func checkTeacherConflicts(st *State, c, d1, s1, cOther, d2, s2 int) bool {
	if c < 0 {
		return true
	}
	inst := st.Instance
	D, S := inst.D(), inst.S()
	sameTeacher := cOther >= 0 && inst.SameTeacher(c, cOther)
	samePeriod := d1 == d2 && s1 == s2
	t := inst.TeacherOf(c)
	n := st.sumTDS[idx3(t, D, d2, S, s2)]
	delta := 0
	if samePeriod {
		delta++
	}
	if sameTeacher {
		delta++
	}
	return n-delta <= 0
}

// checkAvailability implements H4: course c (if any) must be allowed
// to meet at (d, s).
func checkAvailability(st *State, c, d, s int) bool {
	if c < 0 {
		return true
	}
	return st.Instance.Available(c, d, s)
}

// CheckFeasible runs the hard-constraint precheck for mv: Lectures,
// curriculum/teacher conflicts, and availability, symmetric for both
// the arriving and the displaced lecture. Room occupancy (H2) need not
// be checked: the swap replaces the room occupant by design. mv must
// already have its helper fields derived.
func (st *State) CheckFeasible(mv *SwapMove) bool {
	if mv.C1 == mv.C2 {
		return true // nothing to do
	}

	if !checkLectures(st, mv.C1, mv.D1, mv.S1, mv.C2, mv.D2, mv.S2) {
		return false
	}
	if !checkLectures(st, mv.C2, mv.D2, mv.S2, mv.C1, mv.D1, mv.S1) {
		return false
	}

	if !checkCurriculumConflicts(st, mv.C1, mv.D1, mv.S1, mv.C2, mv.D2, mv.S2) {
		return false
	}
	if !checkCurriculumConflicts(st, mv.C2, mv.D2, mv.S2, mv.C1, mv.D1, mv.S1) {
		return false
	}

	if !checkTeacherConflicts(st, mv.C1, mv.D1, mv.S1, mv.C2, mv.D2, mv.S2) {
		return false
	}
	if !checkTeacherConflicts(st, mv.C2, mv.D2, mv.S2, mv.C1, mv.D1, mv.S1) {
		return false
	}

	if !checkAvailability(st, mv.C1, mv.D2, mv.S2) {
		return false
	}
	if !checkAvailability(st, mv.C2, mv.D1, mv.S1) {
		return false
	}

	return true
}

// roomCapacityDelta is the RoomCapacity contribution of moving a
// lecture of course c from room rFrom to room rTo.
func roomCapacityDelta(inst *Instance, c, rFrom, rTo int) int {
	if c < 0 {
		return 0
	}
	nStudents := inst.Courses[c].NStudents
	return minInt(0, inst.Rooms[rFrom].Capacity-nStudents) + clip(nStudents-inst.Rooms[rTo].Capacity)
}

// minWorkingDaysDelta is the MinWorkingDays contribution for moving a
// lecture of course cFrom off day dFrom and (if cFrom != cTo) onto day
// dTo.
func minWorkingDaysDelta(st *State, cFrom, dFrom, cTo, dTo int) int {
	if cFrom < 0 || cFrom == cTo {
		return 0
	}
	inst := st.Instance
	D := inst.D()
	mwd := inst.Courses[cFrom].MinWorkingDays
	prevDays, curDays := 0, 0
	for d := 0; d < D; d++ {
		n := st.sumCD[idx2(cFrom, d, D)]
		prevDays += minInt(1, n)
		adjust := n
		if d == dFrom {
			adjust--
		}
		if d == dTo {
			adjust++
		}
		curDays += minInt(1, adjust)
	}
	return clip(mwd-curDays) - clip(mwd-prevDays)
}

// roomStabilityDelta is the RoomStability contribution for moving a
// lecture of course cFrom out of room rFrom and (if cFrom != cTo) into
// room rTo.
func roomStabilityDelta(st *State, cFrom, rFrom, cTo, rTo int) int {
	if cFrom < 0 || rFrom == rTo || cFrom == cTo {
		return 0
	}
	inst := st.Instance
	R := inst.R()
	prevRooms, curRooms := 0, 0
	for r := 0; r < R; r++ {
		n := st.sumCR[idx2(cFrom, r, R)]
		prevRooms += minInt(1, n)
		adjust := n
		if r == rFrom {
			adjust--
		}
		if r == rTo {
			adjust++
		}
		curRooms += minInt(1, adjust)
	}
	return clip(curRooms-1) - clip(prevRooms-1)
}

// curriculumCompactnessDelta is the CurriculumCompactness contribution
// for moving a lecture of course cFrom out of (dFrom,sFrom) and (if
// cFrom != cTo) into (dTo,sTo). It is evaluated locally over the two
// slots and their neighboring periods (at most six), by counting "alone"
// periods under the before and after configurations of sum_qds and
// diffing — not by a literal transcription of near-duplicate macros.
func curriculumCompactnessDelta(st *State, cFrom, dFrom, sFrom, cTo, dTo, sTo int) int {
	if cFrom < 0 || cFrom == cTo {
		return 0
	}
	inst := st.Instance
	D, S := inst.D(), inst.S()

	zBefore := func(q, d, s int) bool {
		if s < 0 || s >= S {
			return false
		}
		return st.sumQDS[idx3(q, D, d, S, s)] > 0
	}
	// zAfter reflects sum_qds as it would read once the move has been
	// applied: the (dFrom,sFrom) occupant is gone, and (dTo,sTo) gains one.
	zAfter := func(q, d, s int) bool {
		if s < 0 || s >= S {
			return false
		}
		if d == dTo && s == sTo {
			return true
		}
		if d == dFrom && s == sFrom {
			return false
		}
		return st.sumQDS[idx3(q, D, d, S, s)] > 0
	}
	aloneBefore := func(q, d, s int) bool {
		return zBefore(q, d, s) && !zBefore(q, d, s-1) && !zBefore(q, d, s+1)
	}
	aloneAfter := func(q, d, s int) bool {
		return zAfter(q, d, s) && !zAfter(q, d, s-1) && !zAfter(q, d, s+1)
	}
	toInt := func(b bool) int {
		if b {
			return 1
		}
		return 0
	}

	// Every period whose alone-status could possibly change lies within
	// one period of (dFrom,sFrom) or (dTo,sTo); the two windows are
	// deduplicated so an overlap (e.g. adjacent slots on the same day)
	// isn't counted twice on either side of the diff.
	type slot struct{ d, s int }
	var window []slot
	addWindow := func(d, s int) {
		for ds := -1; ds <= 1; ds++ {
			cand := slot{d, s + ds}
			dup := false
			for _, w := range window {
				if w == cand {
					dup = true
					break
				}
			}
			if !dup {
				window = append(window, cand)
			}
		}
	}
	addWindow(dFrom, sFrom)
	addWindow(dTo, sTo)

	cost := 0
	for _, q := range inst.CurriculaOf(cFrom) {
		if cTo >= 0 && inst.SharesCurriculum(cTo, cFrom, q) {
			continue // swap between courses of the same curriculum has no effect on this q
		}
		for _, w := range window {
			cost += toInt(aloneAfter(q, w.d, w.s)) - toInt(aloneBefore(q, w.d, w.s))
		}
	}
	return cost
}

// PredictCost computes the full cost delta for mv without mutating
// state, as the sum of four symmetric contributions evaluated before
// the move, using the current indices to imagine the state after.
// When C1 == C2 the delta is zero.
func (st *State) PredictCost(mv *SwapMove) CostDelta {
	var delta CostDelta
	if mv.C1 == mv.C2 {
		return delta
	}

	delta.RoomCapacity = (roomCapacityDelta(st.Instance, mv.C1, mv.R1, mv.R2) +
		roomCapacityDelta(st.Instance, mv.C2, mv.R2, mv.R1)) * RoomCapacityFactor

	delta.MinWorkingDays = (minWorkingDaysDelta(st, mv.C1, mv.D1, mv.C2, mv.D2) +
		minWorkingDaysDelta(st, mv.C2, mv.D2, mv.C1, mv.D1)) * MinWorkingDaysFactor

	delta.CurriculumCompactness = (curriculumCompactnessDelta(st, mv.C1, mv.D1, mv.S1, mv.C2, mv.D2, mv.S2) +
		curriculumCompactnessDelta(st, mv.C2, mv.D2, mv.S2, mv.C1, mv.D1, mv.S1)) * CurriculumCompactnessFactor

	delta.RoomStability = (roomStabilityDelta(st, mv.C1, mv.R1, mv.C2, mv.R2) +
		roomStabilityDelta(st, mv.C2, mv.R2, mv.C1, mv.R1)) * RoomStabilityFactor

	delta.total()
	return delta
}

// predictFingerprintDiff computes the fingerprint_plus/fingerprint_minus
// contributions of mv: the hashes of the placements added and removed.
func predictFingerprintDiff(mv *SwapMove) (plus, minus Fingerprint) {
	minus = fingerprintOf(mv.L1, mv.R1, mv.D1, mv.S1)
	plus = fingerprintOf(mv.L1, mv.R2, mv.D2, mv.S2)
	if mv.L2 >= 0 {
		minus = minus.Add(fingerprintOf(mv.L2, mv.R2, mv.D2, mv.S2))
		plus = plus.Add(fingerprintOf(mv.L2, mv.R1, mv.D1, mv.S1))
	}
	return plus, minus
}

// Predict fills in result's feasibility and/or cost delta per the
// requested strategies. mv must already have its helper fields
// derived (see DeriveHelper).
func (st *State) Predict(mv *SwapMove, predictFeasibility, predictCost PredictStrategy) SwapResult {
	var result SwapResult
	if predictFeasibility == PredictAlways {
		result.Feasible = st.CheckFeasible(mv)
	}
	if predictCost == PredictAlways || (predictCost == PredictIfFeasible && result.Feasible) {
		result.Delta = st.PredictCost(mv)
		result.FingerprintPlus, result.FingerprintMinus = predictFingerprintDiff(mv)
	}
	return result
}

// doSwap applies mv to the state unconditionally: lecture L1 moves to
// (R2,D2,S2); if the target was occupied, that lecture moves back to
// L1's old slot.
func (st *State) doSwap(mv *SwapMove) {
	// Vacate the target first: otherwise L2's departure, applied after L1
	// arrives, would clear the slot L1 now occupies.
	if mv.L2 >= 0 {
		st.setAssignment(mv.L2, -1, mv.D2, mv.S2)
	}
	if mv.L1 >= 0 {
		st.setAssignment(mv.L1, mv.R2, mv.D2, mv.S2)
	}
	if mv.L2 >= 0 {
		st.setAssignment(mv.L2, mv.R1, mv.D1, mv.S1)
	}
}

// Perform applies mv according to strategy and result (which must have
// been filled in by a prior Predict call appropriate to the strategy):
// Always applies unconditionally, IfFeasible/IfBetter/
// IfFeasibleAndBetter apply conditionally on result. Returns whether
// the move was performed.
func (st *State) Perform(mv *SwapMove, strategy PerformStrategy, result *SwapResult) bool {
	if !shouldPerform(strategy, result.Feasible, result.Delta) {
		return false
	}
	st.doSwap(mv)
	return true
}

// Extended runs Predict followed by Perform in one call, the
// convenience entry point external drivers use most often.
func (st *State) Extended(mv *SwapMove, predictFeasibility, predictCost PredictStrategy, perform PerformStrategy) (SwapResult, bool) {
	result := st.Predict(mv, predictFeasibility, predictCost)
	performed := st.Perform(mv, perform, &result)
	return result, performed
}

// SwapIter enumerates swap moves in lexicographic order over
// (l1, r2, d2, s2) with s2 innermost, skipping ineffective tuples. It
// is finite and not restartable: callers that want to iterate again
// must construct a new SwapIter.
type SwapIter struct {
	st      *State
	l1, r2, d2, s2 int
	started bool
	done    bool
}

// NewSwapIter creates an iterator over st's current assignment.
func NewSwapIter(st *State) *SwapIter {
	return &SwapIter{st: st}
}

// Next advances the iterator and reports the next effective move, or
// false once exhausted.
func (it *SwapIter) Next() (SwapMove, bool) {
	if it.done {
		return SwapMove{}, false
	}
	inst := it.st.Instance
	R, D, S, L := inst.R(), inst.D(), inst.S(), inst.L()

	for {
		if !it.advance(R, D, S, L) {
			it.done = true
			return SwapMove{}, false
		}
		mv := SwapMove{L1: it.l1, R2: it.r2, D2: it.d2, S2: it.s2}
		it.st.DeriveHelper(&mv)
		if mv.IsEffective() {
			return mv, true
		}
	}
}

// advance rolls the (l1,r2,d2,s2) odometer forward by one, s2
// innermost. Returns false once it wraps all the way around.
func (it *SwapIter) advance(R, D, S, L int) bool {
	if !it.started {
		it.started = true
		return true
	}
	it.s2++
	if it.s2 < S {
		return true
	}
	it.s2 = 0
	it.d2++
	if it.d2 < D {
		return true
	}
	it.d2 = 0
	it.r2++
	if it.r2 < R {
		return true
	}
	it.r2 = 0
	it.l1++
	return it.l1 < L
}

// GenerateRandom draws a uniformly random swap move via rng, redrawing
// while ineffective, and (if requireFeasible) redrawing further until
// the hard-constraint precheck passes.
func GenerateRandom(st *State, rng *rand.Rand, requireFeasible bool) SwapMove {
	inst := st.Instance
	R, D, S, L := inst.R(), inst.D(), inst.S(), inst.L()

	var mv SwapMove
	for {
		mv = SwapMove{
			L1: rng.Intn(L),
			R2: rng.Intn(R),
			D2: rng.Intn(D),
			S2: rng.Intn(S),
		}
		st.DeriveHelper(&mv)
		if !mv.IsEffective() {
			continue
		}
		if !requireFeasible || st.CheckFeasible(&mv) {
			return mv
		}
	}
}
