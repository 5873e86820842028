package engine

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseSolution reads a plain ITC-2007 solution file against inst and
// replays it into a fresh State via setAssignment, so every derived
// index is populated consistently rather than copied verbatim.
func ParseSolution(r io.Reader, inst *Instance) (*State, error) {
	st := NewState(inst)

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, &ParseError{lineNum, "expected 4 solution fields"}
		}
		c, ok := inst.CourseByID(fields[0])
		if !ok {
			return nil, &ParseError{lineNum, fmt.Sprintf("unknown course %q", fields[0])}
		}
		room, ok := inst.RoomByID(fields[1])
		if !ok {
			return nil, &ParseError{lineNum, fmt.Sprintf("unknown room %q", fields[1])}
		}
		d, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, &ParseError{lineNum, "integer conversion failed"}
		}
		s, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, &ParseError{lineNum, "integer conversion failed"}
		}

		start, end := inst.LectureRange(c)
		placed := false
		for l := start; l < end; l++ {
			if !st.IsPlaced(l) {
				st.setAssignment(l, room, d, s)
				placed = true
				break
			}
		}
		if !placed {
			return nil, &ParseError{lineNum, fmt.Sprintf("too many placements for course %q", fields[0])}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return st, nil
}

// WriteSolution writes st's assignment in the plain ITC-2007 solution
// format: one "<CourseID> <RoomID> <day> <period>" line per placed
// lecture, in lecture order.
func WriteSolution(w io.Writer, st *State) error {
	inst := st.Instance
	bw := bufio.NewWriter(w)
	for l, p := range st.assignment {
		if !p.IsPlaced() {
			continue
		}
		c := inst.Lectures[l].Course
		if _, err := fmt.Fprintf(bw, "%s %s %d %d\n",
			inst.Courses[c].ID, inst.Rooms[p.Room].ID, p.Day, p.Period); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteGrid writes a human-readable per-room, per-day timetable grid:
// one block per room, one line per day, one column per period, showing
// the course ID occupying each slot or "-" if empty.
func WriteGrid(w io.Writer, st *State) error {
	inst := st.Instance
	bw := bufio.NewWriter(w)
	for r := 0; r < inst.R(); r++ {
		if _, err := fmt.Fprintf(bw, "room %s\n", inst.Rooms[r].ID); err != nil {
			return err
		}
		for d := 0; d < inst.D(); d++ {
			if _, err := fmt.Fprintf(bw, "  day %2d:", d); err != nil {
				return err
			}
			for s := 0; s < inst.S(); s++ {
				c := st.CourseAt(r, d, s)
				if c < 0 {
					if _, err := fmt.Fprint(bw, " -"); err != nil {
						return err
					}
					continue
				}
				if _, err := fmt.Fprintf(bw, " %s", inst.Courses[c].ID); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(bw); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
