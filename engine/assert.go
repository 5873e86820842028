package engine

import "fmt"

// AssertionsEnabled gates the internal contract checks in assert,
// standing in for the ITC2007 reference solver's debug/release split
// without needing a separate compile mode. It defaults to true and
// nothing in this module clears it, so the cct command runs with the
// checks on.
var AssertionsEnabled = true

// assert panics with a formatted message if cond is false and
// AssertionsEnabled is set. Used by setAssignment to reject
// out-of-range room, day and period arguments before they corrupt the
// indices.
func assert(cond bool, format string, args ...interface{}) {
	if !AssertionsEnabled || cond {
		return
	}
	panic(fmt.Sprintf("engine: assertion failed: "+format, args...))
}
