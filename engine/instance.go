// Package engine implements the curriculum-based course timetabling
// local-search neighborhood engine: the immutable problem Instance, the
// mutable Solution State and its derived indices, the incremental
// predict/perform move protocol, the cost model, and the greedy
// feasible-solution finder.
package engine

// Course holds the static data for one course, as read from the
// instance file.
type Course struct {
	ID              string
	TeacherID       string
	NLectures       int
	MinWorkingDays  int
	NStudents       int
	teacherIndex    int
	curricula       []int // curriculum indices this course belongs to
	curriculumMask  []bool // indexed by curriculum, len == Instance.Q()
	lectureStart    int // index of first lecture of this course in Instance.Lectures
}

// Room holds the static data for one room.
type Room struct {
	ID       string
	Capacity int
}

// Curriculum is a named set of courses whose lectures conflict if
// concurrent.
type Curriculum struct {
	ID      string
	Courses []int // course indices
}

// Lecture is one teaching occurrence of a course. Its index in
// Instance.Lectures is its stable lecture index, used throughout the
// engine in place of a pointer.
type Lecture struct {
	Course int
}

// Instance is the immutable problem data plus the lookup tables
// precomputed from it. It is built once (see Parse) and may be shared
// read-only across many Solution States.
type Instance struct {
	Name string

	Courses    []Course
	Rooms      []Room
	Curricula  []Curriculum
	Teachers   []string // teacher id, indexed by teacher index
	Lectures   []Lecture

	Days           int
	PeriodsPerDay  int

	// available[c*Days*PeriodsPerDay + d*PeriodsPerDay + s] is false iff
	// course c has an unavailability constraint on (d, s).
	available []bool

	courseIndex map[string]int
	roomIndex   map[string]int
}

// CourseByID looks up a course's index by its ITC-2007 identifier.
func (inst *Instance) CourseByID(id string) (int, bool) {
	i, ok := inst.courseIndex[id]
	return i, ok
}

// RoomByID looks up a room's index by its ITC-2007 identifier.
func (inst *Instance) RoomByID(id string) (int, bool) {
	i, ok := inst.roomIndex[id]
	return i, ok
}

// Dimensions used throughout the engine as C, R, D, S, Q, T, L.
func (inst *Instance) C() int { return len(inst.Courses) }
func (inst *Instance) R() int { return len(inst.Rooms) }
func (inst *Instance) D() int { return inst.Days }
func (inst *Instance) S() int { return inst.PeriodsPerDay }
func (inst *Instance) Q() int { return len(inst.Curricula) }
func (inst *Instance) T() int { return len(inst.Teachers) }
func (inst *Instance) L() int { return len(inst.Lectures) }

// TeacherOf returns the teacher index of course c.
func (inst *Instance) TeacherOf(c int) int { return inst.Courses[c].teacherIndex }

// CurriculaOf returns the (small) list of curriculum indices that
// course c belongs to.
func (inst *Instance) CurriculaOf(c int) []int { return inst.Courses[c].curricula }

// SharesCurriculum reports whether courses c1 and c2 both belong to
// curriculum q.
func (inst *Instance) SharesCurriculum(c1, c2, q int) bool {
	if c1 < 0 || c2 < 0 {
		return false
	}
	return inst.Courses[c1].curriculumMask[q] && inst.Courses[c2].curriculumMask[q]
}

// SameTeacher reports whether courses c1 and c2 are taught by the same
// teacher.
func (inst *Instance) SameTeacher(c1, c2 int) bool {
	if c1 < 0 || c2 < 0 {
		return false
	}
	return inst.Courses[c1].teacherIndex == inst.Courses[c2].teacherIndex
}

// Available reports whether course c has no unavailability constraint
// on period (d, s).
func (inst *Instance) Available(c, d, s int) bool {
	return inst.available[idx3(c, inst.D(), d, inst.S(), s)]
}

// LectureRange returns the [start, end) range of lecture indices that
// belong to course c.
func (inst *Instance) LectureRange(c int) (start, end int) {
	start = inst.Courses[c].lectureStart
	end = start + inst.Courses[c].NLectures
	return
}

// idx2 computes the flat offset for a (a, b) pair in an array shaped
// [A][B], given the size B of the second axis.
func idx2(a, b, sizeB int) int { return a*sizeB + b }

// idx3 computes the flat offset for a (a, b, c) triple in an array
// shaped [A][B][C2], given the sizes of the second and third axes.
func idx3(a, sizeB, b, sizeC2, c int) int { return (a*sizeB+b)*sizeC2 + c }

// idx4 computes the flat offset for a (a, b, c, d) quadruple, given the
// sizes of the second, third, and fourth axes.
func idx4(a, sizeB, b, sizeC2, c, sizeD2, d int) int {
	return ((a*sizeB+b)*sizeC2+c)*sizeD2 + d
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clip(x int) int { return maxInt(0, x) }
