package engine

// newToyInstance builds the toy instance T from the package's testable
// properties: two courses (A: 2 lectures, 10 students, min working
// days 2; B: 1 lecture, 5 students), two rooms (R1 cap 10, R2 cap 4),
// 2 days x 2 periods, no curricula, distinct teachers, no
// unavailability.
func newToyInstance() *Instance {
	inst := &Instance{
		Name:          "T",
		Days:          2,
		PeriodsPerDay: 2,
		Teachers:      []string{"TA", "TB"},
		courseIndex:   map[string]int{"A": 0, "B": 1},
		roomIndex:     map[string]int{"R1": 0, "R2": 1},
	}
	inst.Courses = []Course{
		{ID: "A", TeacherID: "TA", NLectures: 2, MinWorkingDays: 2, NStudents: 10, teacherIndex: 0, curriculumMask: []bool{}, lectureStart: 0},
		{ID: "B", TeacherID: "TB", NLectures: 1, MinWorkingDays: 1, NStudents: 5, teacherIndex: 1, curriculumMask: []bool{}, lectureStart: 2},
	}
	inst.Rooms = []Room{
		{ID: "R1", Capacity: 10},
		{ID: "R2", Capacity: 4},
	}
	inst.Lectures = []Lecture{
		{Course: 0}, // lecture 0: A
		{Course: 0}, // lecture 1: A
		{Course: 1}, // lecture 2: B
	}
	inst.available = make([]bool, inst.C()*inst.D()*inst.S())
	for i := range inst.available {
		inst.available[i] = true
	}
	return inst
}
