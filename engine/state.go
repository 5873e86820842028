package engine

// Placement records where a lecture currently sits. An unplaced
// lecture has Room < 0.
type Placement struct {
	Room, Day, Period int
}

var unplaced = Placement{Room: -1, Day: -1, Period: -1}

// IsPlaced reports whether p denotes an actual slot.
func (p Placement) IsPlaced() bool { return p.Room >= 0 }

// State is the mutable assignment of lectures to (room, day, period)
// triples, plus the bank of aggregate counters ("indices") kept in
// exact agreement with the assignment. It is exclusively owned by one
// search at a time; every method that mutates it keeps every index
// consistent in the same call.
type State struct {
	Instance *Instance

	assignment []Placement // per lecture

	sumCDS []int // [C][D][S]: # lectures of course c in period (d,s)
	sumQDS []int // [Q][D][S]: # lectures of curriculum q in period (d,s)
	sumTDS []int // [T][D][S]: # lectures of teacher t in period (d,s)
	sumCD  []int // [C][D]: # lectures of course c on day d
	sumCR  []int // [C][R]: # lectures of course c in room r

	rCDS []int // [C][D][S]: a room holding course c in (d,s), or -1
	cRDS []int // [R][D][S]: course occupying slot (r,d,s), or -1
	lRDS []int // [R][D][S]: lecture occupying slot (r,d,s), or -1
}

// NewState allocates an empty Solution State sized from the
// Instance's dimensions. Arrays are never reallocated afterward.
func NewState(inst *Instance) *State {
	c, r, d, s, q, t, l := inst.C(), inst.R(), inst.D(), inst.S(), inst.Q(), inst.T(), inst.L()

	st := &State{
		Instance:   inst,
		assignment: make([]Placement, l),
		sumCDS:     make([]int, c*d*s),
		sumQDS:     make([]int, q*d*s),
		sumTDS:     make([]int, t*d*s),
		sumCD:      make([]int, c*d),
		sumCR:      make([]int, c*r),
		rCDS:       make([]int, c*d*s),
		cRDS:       make([]int, r*d*s),
		lRDS:       make([]int, r*d*s),
	}
	st.Clear()
	return st
}

// Clear empties the solution: every lecture unplaced, every index
// zeroed.
func (st *State) Clear() {
	for i := range st.assignment {
		st.assignment[i] = unplaced
	}
	for i := range st.sumCDS {
		st.sumCDS[i] = 0
	}
	for i := range st.sumQDS {
		st.sumQDS[i] = 0
	}
	for i := range st.sumTDS {
		st.sumTDS[i] = 0
	}
	for i := range st.sumCD {
		st.sumCD[i] = 0
	}
	for i := range st.sumCR {
		st.sumCR[i] = 0
	}
	for i := range st.rCDS {
		st.rCDS[i] = -1
	}
	for i := range st.cRDS {
		st.cRDS[i] = -1
	}
	for i := range st.lRDS {
		st.lRDS[i] = -1
	}
}

// PlacementOf returns the current placement of lecture l.
func (st *State) PlacementOf(l int) Placement { return st.assignment[l] }

// IsPlaced reports whether lecture l currently has an assignment.
func (st *State) IsPlaced(l int) bool { return st.assignment[l].IsPlaced() }

// CourseOf returns the course index of lecture l.
func (st *State) CourseOf(l int) int { return st.Instance.Lectures[l].Course }

// LectureAt returns the lecture occupying slot (r, d, s), or -1.
func (st *State) LectureAt(r, d, s int) int {
	inst := st.Instance
	return st.lRDS[idx3(r, inst.D(), d, inst.S(), s)]
}

// CourseAt returns the course occupying slot (r, d, s), or -1.
func (st *State) CourseAt(r, d, s int) int {
	inst := st.Instance
	return st.cRDS[idx3(r, inst.D(), d, inst.S(), s)]
}

// RoomOfCourseAt returns a room holding course c in period (d, s), or
// -1 if course c has no lecture there.
func (st *State) RoomOfCourseAt(c, d, s int) int {
	inst := st.Instance
	return st.rCDS[idx3(c, inst.D(), d, inst.S(), s)]
}

// setAssignment is the single primitive that moves lecture l from its
// current placement (if any) to (r, d, s) (or to unplaced, if r < 0),
// keeping every derived index in exact agreement. It never rebuilds
// from scratch: it applies the explicit delta of removing the old
// contribution (if any) and adding the new one (if any).
func (st *State) setAssignment(l, r, d, s int) {
	inst := st.Instance
	R, D, S := inst.R(), inst.D(), inst.S()

	assert(r < R, "setAssignment: room %d out of range", r)
	assert(d >= 0 && d < D, "setAssignment: day %d out of range", d)
	assert(s >= 0 && s < S, "setAssignment: period %d out of range", s)

	old := st.assignment[l]
	if old.IsPlaced() {
		c := st.CourseOf(l)
		od, os, or := old.Day, old.Period, old.Room
		st.sumCDS[idx3(c, D, od, S, os)]--
		for _, q := range inst.CurriculaOf(c) {
			st.sumQDS[idx3(q, D, od, S, os)]--
		}
		st.sumTDS[idx3(inst.TeacherOf(c), D, od, S, os)]--
		st.sumCD[idx2(c, od, D)]--
		st.sumCR[idx2(c, or, R)]--
		st.rCDS[idx3(c, D, od, S, os)] = -1
		st.cRDS[idx3(or, D, od, S, os)] = -1
		st.lRDS[idx3(or, D, od, S, os)] = -1
	}

	if r >= 0 {
		c := st.CourseOf(l)
		st.sumCDS[idx3(c, D, d, S, s)]++
		for _, q := range inst.CurriculaOf(c) {
			st.sumQDS[idx3(q, D, d, S, s)]++
		}
		st.sumTDS[idx3(inst.TeacherOf(c), D, d, S, s)]++
		st.sumCD[idx2(c, d, D)]++
		st.sumCR[idx2(c, r, R)]++
		st.rCDS[idx3(c, D, d, S, s)] = r
		st.cRDS[idx3(r, D, d, S, s)] = c
		st.lRDS[idx3(r, D, d, S, s)] = l
		st.assignment[l] = Placement{Room: r, Day: d, Period: s}
	} else {
		st.assignment[l] = unplaced
	}
}

// Rebuild recomputes every derived index from scratch from the primary
// assignment. Used by tests to check the "idempotent rebuild"
// invariant (spec.md §8 property 4): a fresh State populated by
// replaying the same assignment through setAssignment must produce
// identical indices to one built incrementally via moves.
func Rebuild(inst *Instance, assignment []Placement) *State {
	st := NewState(inst)
	for l, p := range assignment {
		if p.IsPlaced() {
			st.setAssignment(l, p.Room, p.Day, p.Period)
		}
	}
	return st
}

// Snapshot returns a copy of the primary assignment, suitable for
// passing to Rebuild.
func (st *State) Snapshot() []Placement {
	out := make([]Placement, len(st.assignment))
	copy(out, st.assignment)
	return out
}

// WorkingDays returns the number of distinct days course c currently
// has at least one lecture on.
func (st *State) WorkingDays(c int) int {
	inst := st.Instance
	D := inst.D()
	count := 0
	for d := 0; d < D; d++ {
		if st.sumCD[idx2(c, d, D)] > 0 {
			count++
		}
	}
	return count
}

// RoomsUsed returns the number of distinct rooms course c currently
// has at least one lecture in.
func (st *State) RoomsUsed(c int) int {
	inst := st.Instance
	R := inst.R()
	count := 0
	for r := 0; r < R; r++ {
		if st.sumCR[idx2(c, r, R)] > 0 {
			count++
		}
	}
	return count
}
