package engine

// StabilizeMove relocates every currently placed lecture of course C1
// into room R2, keeping each lecture's day and period unchanged. It is
// expressed as a chain of single-lecture swaps rather than its own
// mutation path, so it can never drift out of agreement with the
// indices Swap already keeps consistent.
type StabilizeMove struct {
	C1 int
	R2 int
}

// StabilizeResult mirrors SwapResult: feasibility and cost delta for
// moving every lecture of C1 into R2 in one step.
type StabilizeResult struct {
	Feasible bool
	Delta    CostDelta
}

// PredictStabilize computes feasibility and cost delta for mv without
// mutating state. Feasibility requires that every relocated lecture
// clears the hard-constraint precheck against its single-lecture swap
// into R2 (H2 Room Occupancy is enforced implicitly, since a swap
// target occupied by another course fails the Lectures/conflict
// checks or simply displaces that other course symmetrically).
//
// Day and period never change in this neighborhood, so RoomCapacity,
// MinWorkingDays and CurriculumCompactness are each safe to accumulate
// move-by-move straight off the real, unmutated state: none of them
// read anything a room reassignment touches until the whole chain is
// performed. RoomStability is the exception — two relocated lectures
// of c1, or two displacements landing back on the same other course,
// interact through that course's distinct-room count — so it is
// tracked against a local room-usage simulation instead of by summing
// independent single-swap deltas against a stale snapshot.
func (st *State) PredictStabilize(mv *StabilizeMove) StabilizeResult {
	var result StabilizeResult
	result.Feasible = true

	rooms := newRoomUsageSim(st)

	start, end := st.Instance.LectureRange(mv.C1)
	for l1 := start; l1 < end; l1++ {
		if !st.IsPlaced(l1) {
			continue
		}
		p := st.assignment[l1]
		if p.Room == mv.R2 {
			continue
		}
		smv := SwapMove{L1: l1, R2: mv.R2, D2: p.Day, S2: p.Period}
		st.DeriveHelper(&smv)
		if !smv.IsEffective() {
			continue
		}
		if !st.CheckFeasible(&smv) {
			result.Feasible = false
		}

		delta := st.PredictCost(&smv)
		result.Delta.RoomCapacity += delta.RoomCapacity
		result.Delta.MinWorkingDays += delta.MinWorkingDays
		result.Delta.CurriculumCompactness += delta.CurriculumCompactness

		rooms.move(smv.C1, smv.R1, smv.R2)
		if smv.C2 >= 0 {
			rooms.move(smv.C2, smv.R2, smv.R1)
		}
	}

	result.Delta.RoomStability = rooms.delta() * RoomStabilityFactor
	result.Delta.total()
	return result
}

// roomUsageSim tracks, for each course touched by a chain of simulated
// single-lecture room reassignments, its distinct-room usage before
// and after the whole chain — without mutating sum_cr. A course's
// room set can be touched by more than one move in the chain (two of
// c1's own lectures relocating, or two displacements landing back on
// the same other course), so each course's running room-count map is
// built once, lazily, and then mutated in place as moves are recorded.
type roomUsageSim struct {
	st      *State
	rooms   map[int]map[int]int // course -> room -> lecture count, as simulated so far
	initial map[int]int         // course -> distinct rooms used before any simulated move
}

func newRoomUsageSim(st *State) *roomUsageSim {
	return &roomUsageSim{
		st:      st,
		rooms:   map[int]map[int]int{},
		initial: map[int]int{},
	}
}

// counts returns course c's simulated room-count map, cloning it from
// the real sum_cr index (and recording its pre-simulation distinct
// room count) the first time c is touched.
func (sim *roomUsageSim) counts(c int) map[int]int {
	if m, ok := sim.rooms[c]; ok {
		return m
	}
	m := map[int]int{}
	R := sim.st.Instance.R()
	for r := 0; r < R; r++ {
		if n := sim.st.sumCR[idx2(c, r, R)]; n > 0 {
			m[r] = n
		}
	}
	sim.rooms[c] = m
	sim.initial[c] = len(m)
	return m
}

// move records that one lecture of course c relocates from rFrom to
// rTo within the simulation.
func (sim *roomUsageSim) move(c, rFrom, rTo int) {
	m := sim.counts(c)
	m[rFrom]--
	if m[rFrom] <= 0 {
		delete(m, rFrom)
	}
	m[rTo]++
}

// delta is the net, unweighted RoomStability contribution of every
// move recorded so far, summed over every course touched.
func (sim *roomUsageSim) delta() int {
	total := 0
	for c, m := range sim.rooms {
		total += clip(len(m)-1) - clip(sim.initial[c]-1)
	}
	return total
}

// PerformStabilize relocates every placed lecture of C1 into R2,
// chaining unconditional single-lecture swaps (doSwap, the path Perform
// takes under PerformAlways), one per currently occupied (day, period)
// slot of C1.
func (st *State) PerformStabilize(mv *StabilizeMove) {
	start, end := st.Instance.LectureRange(mv.C1)
	for l1 := start; l1 < end; l1++ {
		if !st.IsPlaced(l1) {
			continue
		}
		p := st.assignment[l1]
		if p.Room == mv.R2 {
			continue
		}
		smv := SwapMove{L1: l1, R2: mv.R2, D2: p.Day, S2: p.Period}
		st.DeriveHelper(&smv)
		if !smv.IsEffective() {
			continue
		}
		st.doSwap(&smv)
	}
}

// ExtendedStabilize runs PredictStabilize followed by a conditional
// PerformStabilize, applying the move if shouldPerform approves it
// under strategy.
func (st *State) ExtendedStabilize(mv *StabilizeMove, strategy PerformStrategy) (StabilizeResult, bool) {
	result := st.PredictStabilize(mv)
	if !shouldPerform(strategy, result.Feasible, result.Delta) {
		return result, false
	}
	st.PerformStabilize(mv)
	return result, true
}

// StabilizeIter enumerates StabilizeMove values over every (course,
// room) pair, finite and not restartable.
type StabilizeIter struct {
	inst   *Instance
	c1, r2 int
	started bool
}

// NewStabilizeIter creates an iterator over inst's (course, room) pairs.
func NewStabilizeIter(inst *Instance) *StabilizeIter {
	return &StabilizeIter{inst: inst}
}

// Next returns the next (course, room) pair, or false once exhausted.
func (it *StabilizeIter) Next() (StabilizeMove, bool) {
	R := it.inst.R()
	if !it.started {
		it.started = true
	} else {
		it.r2++
		if it.r2 >= R {
			it.r2 = 0
			it.c1++
		}
	}
	if it.c1 >= it.inst.C() {
		return StabilizeMove{}, false
	}
	return StabilizeMove{C1: it.c1, R2: it.r2}, true
}
