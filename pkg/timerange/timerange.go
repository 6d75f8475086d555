// Package timerange provides the TimeRange value type used to pass
// trace intervals between the range controller, the history and storage.
//
// Bounds are stored relative to an optional offset. Accessors return
// absolute values (bound + offset); the duration is independent of the
// offset. The serialized form is a triple of decimal strings so that
// ranges survive transports that cannot carry 64-bit integers exactly.
package timerange

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformed is returned when a serialized range cannot be parsed.
var ErrMalformed = errors.New("malformed time range")

// TimeRange is an immutable start/end interval with an optional offset.
// The zero value is the empty range [0, 0] without offset.
//
// No ordering is enforced: start may exceed end. Callers normalize
// before constructing (see rangeinput.OrderPair).
type TimeRange struct {
	start     int64
	end       int64
	offset    int64
	hasOffset bool
}

// Serialized is the transport form of a TimeRange.
type Serialized struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Offset string `json:"offset,omitempty"`
}

// New creates a range without offset.
func New(start, end int64) TimeRange {
	return TimeRange{start: start, end: end}
}

// NewWithOffset creates a range whose bounds are relative to offset.
func NewWithOffset(start, end, offset int64) TimeRange {
	return TimeRange{start: start, end: end, offset: offset, hasOffset: true}
}

// Parse rebuilds a TimeRange from its serialized form.
// An empty offset string means no offset.
func Parse(s Serialized) (TimeRange, error) {
	start, err := strconv.ParseInt(s.Start, 10, 64)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: start %q", ErrMalformed, s.Start)
	}
	end, err := strconv.ParseInt(s.End, 10, 64)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: end %q", ErrMalformed, s.End)
	}
	if s.Offset == "" {
		return New(start, end), nil
	}
	offset, err := strconv.ParseInt(s.Offset, 10, 64)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: offset %q", ErrMalformed, s.Offset)
	}
	return NewWithOffset(start, end, offset), nil
}

// Start returns the absolute start (start + offset when an offset is set).
func (r TimeRange) Start() int64 {
	if r.hasOffset {
		return r.start + r.offset
	}
	return r.start
}

// End returns the absolute end (end + offset when an offset is set).
func (r TimeRange) End() int64 {
	if r.hasOffset {
		return r.end + r.offset
	}
	return r.end
}

// Duration returns end - start. The offset cancels out.
func (r TimeRange) Duration() int64 { return r.end - r.start }

// Offset returns the offset and whether one is set.
func (r TimeRange) Offset() (int64, bool) { return r.offset, r.hasOffset }

// RelativeStart returns the stored, offset-relative start.
func (r TimeRange) RelativeStart() int64 { return r.start }

// RelativeEnd returns the stored, offset-relative end.
func (r TimeRange) RelativeEnd() int64 { return r.end }

// Serialize encodes the stored fields as decimal strings.
// Offset is left empty when absent.
func (r TimeRange) Serialize() Serialized {
	s := Serialized{
		Start: strconv.FormatInt(r.start, 10),
		End:   strconv.FormatInt(r.end, 10),
	}
	if r.hasOffset {
		s.Offset = strconv.FormatInt(r.offset, 10)
	}
	return s
}

// String formats the absolute bounds, e.g. "[1500, 2500]".
func (r TimeRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.Start(), r.End())
}

// MarshalJSON encodes the range in its serialized form.
func (r TimeRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Serialize())
}

// UnmarshalJSON decodes a serialized range.
func (r *TimeRange) UnmarshalJSON(data []byte) error {
	var s Serialized
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding time range: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
