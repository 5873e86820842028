package engine

import "math/rand"

// FinderConfig tunes the greedy randomized constructor: how strongly
// it favors provably good choices over exploring alternatives, and how
// many restart attempts it is willing to spend before giving up.
type FinderConfig struct {
	// RankingRandomness blends between always picking the best-ranked
	// candidate (0) and picking uniformly among all candidates (1).
	RankingRandomness float64
	MaxAttempts       int
}

// DefaultFinderConfig returns reasonable defaults: mild randomness, a
// generous retry budget.
func DefaultFinderConfig() FinderConfig {
	return FinderConfig{RankingRandomness: 0.2, MaxAttempts: 50}
}

// candidateSlot is a feasible (room, day, period) for one lecture, with
// a badness score used to rank candidates (lower is better).
type candidateSlot struct {
	room, day, period int
	badness           int
}

// feasibleSlots lists every (room, day, period) lecture l could occupy
// in the current (otherwise-unplaced) state, along with a badness
// score: the number of students exceeding the room's capacity, plus 1
// if the course has no lecture in that room yet (room stability). The
// score has no term for working days.
func (st *State) feasibleSlots(l int) []candidateSlot {
	inst := st.Instance
	c := st.CourseOf(l)
	R, D, S := inst.R(), inst.D(), inst.S()
	nStudents := inst.Courses[c].NStudents

	var out []candidateSlot
	for d := 0; d < D; d++ {
		for s := 0; s < S; s++ {
			if !inst.Available(c, d, s) {
				continue
			}
			if st.sumCDS[idx3(c, D, d, S, s)] > 0 {
				continue // H1: course already meets this period
			}
			conflict := false
			for _, q := range inst.CurriculaOf(c) {
				if st.sumQDS[idx3(q, D, d, S, s)] > 0 {
					conflict = true
					break
				}
			}
			if conflict {
				continue
			}
			if st.sumTDS[idx3(inst.TeacherOf(c), D, d, S, s)] > 0 {
				continue
			}
			for r := 0; r < R; r++ {
				if st.cRDS[idx3(r, D, d, S, s)] >= 0 {
					continue // H2: room already occupied
				}
				badness := clip(nStudents - inst.Rooms[r].Capacity)
				if st.sumCR[idx2(c, r, R)] == 0 {
					badness++ // encourages room stability
				}
				out = append(out, candidateSlot{room: r, day: d, period: s, badness: badness})
			}
		}
	}
	return out
}

// pickCandidate selects among slots (sorted ascending by badness
// already assumed) using RankingRandomness to blend between always
// taking the best and a uniform draw: it restricts the draw to a
// window of the best candidates, sized relative to the full pool by
// randomness.
func pickCandidate(rng *rand.Rand, slots []candidateSlot, randomness float64) candidateSlot {
	n := len(slots)
	window := 1 + int(randomness*float64(n-1))
	if window > n {
		window = n
	}
	if window < 1 {
		window = 1
	}
	return slots[rng.Intn(window)]
}

// sortByBadness performs a simple insertion sort, small enough in
// practice (bounded by rooms x periods) that it isn't worth importing
// sort for.
func sortByBadness(slots []candidateSlot) {
	for i := 1; i < len(slots); i++ {
		for j := i; j > 0 && slots[j].badness < slots[j-1].badness; j-- {
			slots[j], slots[j-1] = slots[j-1], slots[j]
		}
	}
}

// TryFind runs the greedy randomized constructor: it repeatedly
// attempts to place every lecture of inst into a feasible slot, lectures
// of larger courses first, retrying from scratch up to
// cfg.MaxAttempts times when it paints itself into a corner. On
// success it leaves state holding a fully feasible solution and
// returns true. On exhausting every attempt it leaves state cleared
// and returns false.
func TryFind(inst *Instance, cfg FinderConfig, rng *rand.Rand, state *State) bool {
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		state.Clear()
		order := lectureOrder(inst, rng, cfg.RankingRandomness)

		placed := 0
		for _, l := range order {
			slots := state.feasibleSlots(l)
			if len(slots) == 0 {
				break
			}
			sortByBadness(slots)
			chosen := pickCandidate(rng, slots, cfg.RankingRandomness)
			state.setAssignment(l, chosen.room, chosen.day, chosen.period)
			placed++
		}

		if placed == inst.L() {
			return true
		}
	}

	state.Clear()
	return false
}

// lectureOrder returns an ordering of every lecture of inst, lectures of
// courses with more students first, with randomness blending toward a
// random shuffle as RankingRandomness grows.
func lectureOrder(inst *Instance, rng *rand.Rand, randomness float64) []int {
	order := make([]int, inst.L())
	for l := range order {
		order[l] = l
	}
	// The only ranking key is the course's number of students: larger
	// courses fit fewer rooms. Lecture count, curricula and
	// unavailability constraints do not enter the score. Random jitter
	// then blends this ranking toward a uniform shuffle.
	score := make([]float64, inst.L())
	for _, l := range order {
		c := inst.Lectures[l].Course
		base := float64(inst.Courses[c].NStudents)
		jitter := randomness * rng.Float64() * (base + 1)
		score[l] = -base + jitter
	}
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && score[order[j]] < score[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}
