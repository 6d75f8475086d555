package rangeinput

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Mr-Dark-debug/tracerange/internal/timegraph"
)

// Field selects one of the form's two inputs.
type Field int

const (
	FieldStart Field = iota
	FieldEnd
)

func (f Field) String() string {
	switch f {
	case FieldStart:
		return "start"
	case FieldEnd:
		return "end"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// Form holds the in-progress selection edit of one range widget.
// The zero value is an idle form with both sides valid.
type Form struct {
	start     *int64
	end       *int64
	inputting bool

	startInvalid bool
	endInvalid   bool
}

// FormView is what a widget needs to draw the form.
type FormView struct {
	ViewStart      string
	ViewEnd        string
	SelectionStart string
	SelectionEnd   string
	StartValid     bool
	EndValid       bool
	Inputting      bool
}

// SetField records the raw text typed into a field. Empty text clears
// the field. It panics on an unknown field: that is a caller bug.
func (f *Form) SetField(field Field, raw string) error {
	if field != FieldStart && field != FieldEnd {
		panic(fmt.Sprintf("rangeinput: invalid field index %d", int(field)))
	}
	f.inputting = true

	var value *int64
	if raw = strings.TrimSpace(raw); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", field, raw, err)
		}
		value = &n
	}

	if field == FieldStart {
		f.start = value
	} else {
		f.end = value
	}
	return nil
}

// Value returns the pending value of a field, if any.
func (f *Form) Value(field Field) (int64, bool) {
	var v *int64
	switch field {
	case FieldStart:
		v = f.start
	case FieldEnd:
		v = f.end
	default:
		panic(fmt.Sprintf("rangeinput: invalid field index %d", int(field)))
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Inputting reports whether the user has started editing.
func (f *Form) Inputting() bool { return f.inputting }

// Submit resolves the pending input against data. On success or when
// nothing was entered the form resets. On a bounds error the offending
// sides are flagged and the pending values are kept for correction.
func (f *Form) Submit(data timegraph.ExperimentData) (timegraph.Range, error) {
	r, err := ResolveUserInput(Input{
		Selection:     data.SelectionRange,
		Offset:        data.Offset,
		AbsoluteRange: data.AbsoluteRange,
		Start:         f.start,
		End:           f.end,
	})

	var bounds *BoundsError
	if errors.As(err, &bounds) {
		f.startInvalid = bounds.StartInvalid
		f.endInvalid = bounds.EndInvalid
		return timegraph.Range{}, err
	}

	f.Cancel()
	return r, err
}

// Cancel drops pending input and clears validation flags.
func (f *Form) Cancel() {
	*f = Form{}
}

// View renders the form state for data. Validation flags only show
// while the user is inputting.
func (f *Form) View(data timegraph.ExperimentData) FormView {
	v := FormView{
		StartValid: !f.inputting || !f.startInvalid,
		EndValid:   !f.inputting || !f.endInvalid,
		Inputting:  f.inputting,
	}
	view := data.ViewRange
	v.ViewStart, v.ViewEnd = DisplayPair(&view, data.Offset)
	v.SelectionStart, v.SelectionEnd = DisplayPair(data.SelectionRange, data.Offset)

	if f.start != nil {
		v.SelectionStart = strconv.FormatInt(*f.start, 10)
	}
	if f.end != nil {
		v.SelectionEnd = strconv.FormatInt(*f.end, 10)
	}
	return v
}
