// Package rangeinput turns raw range input (possibly partial, possibly
// reversed) into canonical offset-relative ranges.
//
// Ranges are shown to users in absolute coordinates (value + offset)
// and stored in offset-relative coordinates. This package is the only
// place that converts between the two.
package rangeinput

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Mr-Dark-debug/tracerange/internal/timegraph"
)

// ErrNoChange is returned when neither bound was supplied. Callers
// revert their input to the current controller values.
var ErrNoChange = errors.New("no range change requested")

// BoundsError reports which requested bounds fall outside
// [offset, offset+absoluteRange]. Each side is checked independently.
type BoundsError struct {
	StartInvalid bool
	EndInvalid   bool
}

func (e *BoundsError) Error() string {
	var sides []string
	if e.StartInvalid {
		sides = append(sides, "start")
	}
	if e.EndInvalid {
		sides = append(sides, "end")
	}
	return fmt.Sprintf("range %s out of bounds", strings.Join(sides, " and "))
}

// Input is a range change request expressed in absolute coordinates.
// Start and End are nil when the user left the field empty.
type Input struct {
	Selection     *timegraph.Range
	Offset        int64
	AbsoluteRange int64
	Start         *int64
	End           *int64
}

// OrderPair returns v1 and v2 with the lesser first. A range is all or
// nothing: if either value is absent, ok is false.
func OrderPair(v1, v2 *int64) (r timegraph.Range, ok bool) {
	if v1 == nil || v2 == nil {
		return timegraph.Range{}, false
	}
	return timegraph.Range{Start: *v1, End: *v2}.Ordered(), true
}

// DisplayPair formats r in absolute coordinates with the lesser bound
// first. Both strings are empty when r is nil.
func DisplayPair(r *timegraph.Range, offset int64) (start, end string) {
	if r == nil {
		return "", ""
	}
	o, _ := OrderPair(&r.Start, &r.End)
	return strconv.FormatInt(o.Start+offset, 10), strconv.FormatInt(o.End+offset, 10)
}

// ResolveUserInput fills the missing bound of a request from the
// current selection, validates both bounds in absolute terms and
// returns the new range in offset-relative terms.
//
// It returns ErrNoChange when neither bound is given and a *BoundsError
// when either bound is outside the valid interval. The upper limit
// offset+AbsoluteRange is inclusive.
func ResolveUserInput(in Input) (timegraph.Range, error) {
	start, end := in.Start, in.End
	if start == nil && end == nil {
		return timegraph.Range{}, ErrNoChange
	}

	// A single value without a selection is a zero-width selection.
	if in.Selection == nil {
		if start == nil {
			start = end
		}
		if end == nil {
			end = start
		}
	}

	s := in.Offset
	e := in.Offset
	if in.Selection != nil {
		// The visually-left bound of the current selection is the start.
		cur := in.Selection.Ordered()
		s = cur.Start + in.Offset
		e = cur.End + in.Offset
	}
	if start != nil {
		s = *start
	}
	if end != nil {
		e = *end
	}

	startValid := inBounds(s, in.Offset, in.AbsoluteRange)
	endValid := inBounds(e, in.Offset, in.AbsoluteRange)
	if !startValid || !endValid {
		return timegraph.Range{}, &BoundsError{StartInvalid: !startValid, EndInvalid: !endValid}
	}

	return timegraph.Range{Start: s - in.Offset, End: e - in.Offset}, nil
}

func inBounds(n, offset, absoluteRange int64) bool {
	return n >= offset && n <= offset+absoluteRange
}
