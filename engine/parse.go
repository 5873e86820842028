package engine

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseError reports a malformed instance file, with the line number
// and a short reason, matching the ITC-2007 parser convention of
// reporting "parse error at line N (reason)".
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d (%s)", e.Line, e.Reason)
}

const (
	sectionNone = iota
	sectionCourses
	sectionRooms
	sectionCurricula
	sectionConstraints
)

type rawCourse struct {
	id, teacherID                string
	nLectures, minWorkingDays, nStudents int
}

type rawRoom struct {
	id       string
	capacity int
}

type rawCurriculum struct {
	id        string
	courseIDs []string
}

type rawUnavailability struct {
	courseID string
	day, slot int
}

// Parse reads an ITC-2007 formatted course timetabling instance and
// builds the immutable Instance plus its precomputed lookup tables.
//
// Grammar: header lines "Key: value" for Name, Courses, Rooms, Days,
// Periods_per_day, Curricula, Constraints, then the COURSES:, ROOMS:,
// CURRICULA:, and UNAVAILABILITY_CONSTRAINTS: sections, terminated by
// END. Blank lines are ignored; fields are whitespace separated.
func Parse(r io.Reader) (*Instance, error) {
	var (
		name                                               string
		nCourses, nRooms, nDays, nPeriods, nCurricula, nCon int
		haveDays, havePeriods                               bool
		section                                             = sectionNone

		courses   []rawCourse
		rooms     []rawRoom
		curricula []rawCurriculum
		unavail   []rawUnavailability
	)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "END." {
			break
		}

		if key, value, isHeader := splitHeader(line); isHeader {
			switch key {
			case "Name":
				name = value
			case "Courses":
				n, err := strconv.Atoi(value)
				if err != nil {
					return nil, &ParseError{lineNum, "integer conversion failed"}
				}
				nCourses = n
			case "Rooms":
				n, err := strconv.Atoi(value)
				if err != nil {
					return nil, &ParseError{lineNum, "integer conversion failed"}
				}
				nRooms = n
			case "Days":
				n, err := strconv.Atoi(value)
				if err != nil {
					return nil, &ParseError{lineNum, "integer conversion failed"}
				}
				nDays = n
				haveDays = true
			case "Periods_per_day":
				n, err := strconv.Atoi(value)
				if err != nil {
					return nil, &ParseError{lineNum, "integer conversion failed"}
				}
				nPeriods = n
				havePeriods = true
			case "Curricula":
				n, err := strconv.Atoi(value)
				if err != nil {
					return nil, &ParseError{lineNum, "integer conversion failed"}
				}
				nCurricula = n
			case "Constraints":
				n, err := strconv.Atoi(value)
				if err != nil {
					return nil, &ParseError{lineNum, "integer conversion failed"}
				}
				nCon = n
			case "COURSES":
				section = sectionCourses
			case "ROOMS":
				section = sectionRooms
			case "CURRICULA":
				section = sectionCurricula
			case "UNAVAILABILITY_CONSTRAINTS":
				section = sectionConstraints
			}
			continue
		}

		fields := strings.Fields(line)
		switch section {
		case sectionCourses:
			if len(fields) != 5 {
				return nil, &ParseError{lineNum, "expected 5 course fields"}
			}
			nLec, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, &ParseError{lineNum, "integer conversion failed"}
			}
			mwd, err := strconv.Atoi(fields[3])
			if err != nil {
				return nil, &ParseError{lineNum, "integer conversion failed"}
			}
			nStu, err := strconv.Atoi(fields[4])
			if err != nil {
				return nil, &ParseError{lineNum, "integer conversion failed"}
			}
			if len(courses) >= nCourses {
				return nil, &ParseError{lineNum, "unexpected courses count"}
			}
			courses = append(courses, rawCourse{
				id: fields[0], teacherID: fields[1],
				nLectures: nLec, minWorkingDays: mwd, nStudents: nStu,
			})
		case sectionRooms:
			if len(fields) != 2 {
				return nil, &ParseError{lineNum, "expected 2 room fields"}
			}
			cap, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, &ParseError{lineNum, "integer conversion failed"}
			}
			if len(rooms) >= nRooms {
				return nil, &ParseError{lineNum, "unexpected rooms count"}
			}
			rooms = append(rooms, rawRoom{id: fields[0], capacity: cap})
		case sectionCurricula:
			if len(fields) < 2 {
				return nil, &ParseError{lineNum, "expected at least 2 curricula fields"}
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, &ParseError{lineNum, "integer conversion failed"}
			}
			if n != len(fields)-2 {
				return nil, &ParseError{lineNum, "unexpected curricula fields count"}
			}
			if len(curricula) >= nCurricula {
				return nil, &ParseError{lineNum, "unexpected curriculas count"}
			}
			curricula = append(curricula, rawCurriculum{id: fields[0], courseIDs: fields[2:]})
		case sectionConstraints:
			if len(fields) != 3 {
				return nil, &ParseError{lineNum, "expected 3 unavailability fields"}
			}
			d, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, &ParseError{lineNum, "integer conversion failed"}
			}
			s, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, &ParseError{lineNum, "integer conversion failed"}
			}
			if len(unavail) >= nCon {
				return nil, &ParseError{lineNum, "unexpected unavailability constraints count"}
			}
			unavail = append(unavail, rawUnavailability{courseID: fields[0], day: d, slot: s})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !haveDays || !havePeriods {
		return nil, &ParseError{lineNum, "missing Days or Periods_per_day header"}
	}
	if len(courses) != nCourses {
		return nil, &ParseError{lineNum, "unexpected courses count"}
	}
	if len(rooms) != nRooms {
		return nil, &ParseError{lineNum, "unexpected rooms count"}
	}
	if len(curricula) != nCurricula {
		return nil, &ParseError{lineNum, "unexpected curriculas count"}
	}

	return buildInstance(name, nDays, nPeriods, courses, rooms, curricula, unavail)
}

// splitHeader splits a "Key: value" or bare "SECTION:" line.
func splitHeader(line string) (key, value string, ok bool) {
	colon := strings.Index(line, ":")
	if colon < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:colon])
	value = strings.TrimSpace(line[colon+1:])
	return key, value, true
}

func buildInstance(name string, nDays, nPeriods int, rawCourses []rawCourse, rawRooms []rawRoom, rawCurricula []rawCurriculum, rawUnavailability []rawUnavailability) (*Instance, error) {
	inst := &Instance{
		Name:          name,
		Days:          nDays,
		PeriodsPerDay: nPeriods,
	}

	courseIndex := make(map[string]int, len(rawCourses))
	teacherIndex := make(map[string]int)
	lectureCursor := 0
	for i, rc := range rawCourses {
		if _, dup := courseIndex[rc.id]; dup {
			return nil, &ParseError{0, fmt.Sprintf("duplicate course id %q", rc.id)}
		}
		courseIndex[rc.id] = i
		if _, known := teacherIndex[rc.teacherID]; !known {
			teacherIndex[rc.teacherID] = len(inst.Teachers)
			inst.Teachers = append(inst.Teachers, rc.teacherID)
		}
		inst.Courses = append(inst.Courses, Course{
			ID:             rc.id,
			TeacherID:      rc.teacherID,
			NLectures:      rc.nLectures,
			MinWorkingDays: rc.minWorkingDays,
			NStudents:      rc.nStudents,
			teacherIndex:   teacherIndex[rc.teacherID],
			lectureStart:   lectureCursor,
		})
		lectureCursor += rc.nLectures
	}

	for i := range inst.Courses {
		start, end := inst.Courses[i].lectureStart, inst.Courses[i].lectureStart+inst.Courses[i].NLectures
		for l := start; l < end; l++ {
			inst.Lectures = append(inst.Lectures, Lecture{Course: i})
		}
	}

	roomIndex := make(map[string]int, len(rawRooms))
	for i, rr := range rawRooms {
		if _, dup := roomIndex[rr.id]; dup {
			return nil, &ParseError{0, fmt.Sprintf("duplicate room id %q", rr.id)}
		}
		roomIndex[rr.id] = i
		inst.Rooms = append(inst.Rooms, Room{ID: rr.id, Capacity: rr.capacity})
	}

	nQ := len(rawCurricula)
	for i := range inst.Courses {
		inst.Courses[i].curriculumMask = make([]bool, nQ)
	}
	for q, rq := range rawCurricula {
		var courses []int
		for _, cid := range rq.courseIDs {
			ci, ok := courseIndex[cid]
			if !ok {
				return nil, &ParseError{0, fmt.Sprintf("curriculum %q references unknown course %q", rq.id, cid)}
			}
			courses = append(courses, ci)
			inst.Courses[ci].curricula = append(inst.Courses[ci].curricula, q)
			inst.Courses[ci].curriculumMask[q] = true
		}
		inst.Curricula = append(inst.Curricula, Curriculum{ID: rq.id, Courses: courses})
	}

	inst.available = make([]bool, len(inst.Courses)*nDays*nPeriods)
	for i := range inst.available {
		inst.available[i] = true
	}
	for _, u := range rawUnavailability {
		ci, ok := courseIndex[u.courseID]
		if !ok {
			return nil, &ParseError{0, fmt.Sprintf("unavailability references unknown course %q", u.courseID)}
		}
		if u.day < 0 || u.day >= nDays || u.slot < 0 || u.slot >= nPeriods {
			return nil, &ParseError{0, "unavailability constraint out of range"}
		}
		inst.available[idx3(ci, nDays, u.day, nPeriods, u.slot)] = false
	}

	inst.courseIndex = courseIndex
	inst.roomIndex = roomIndex

	return inst, nil
}
