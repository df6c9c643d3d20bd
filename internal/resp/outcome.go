package resp

import "errors"

// Status is the result class of a decode attempt
type Status uint8

const (
	StatusComplete   Status = iota + 1 // a whole frame was decoded
	StatusIncomplete                   // valid prefix, buffer more bytes and retry
	StatusInvalid                      // the bytes can never form a frame
)

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusIncomplete:
		return "incomplete"
	case StatusInvalid:
		return "invalid"
	}
	return "unknown"
}

// Outcome is the tagged result of Decoder.Parse.
// Value and N are only set when Status is StatusComplete, Err only when it is StatusInvalid.
type Outcome struct {
	Status Status
	Value  Value
	N      int
	Err    error
}

// Parse is Decode with the three possible results spelled out as a Status
func (d *Decoder) Parse(b []byte) Outcome {
	v, n, err := d.Decode(b)
	switch {
	case err == nil:
		return Outcome{Status: StatusComplete, Value: v, N: n}
	case errors.Is(err, ErrIncomplete):
		return Outcome{Status: StatusIncomplete}
	default:
		return Outcome{Status: StatusInvalid, Err: err}
	}
}

// Parse decodes one frame from b with the default Decoder
func Parse(b []byte) Outcome {
	return defaultDecoder.Parse(b)
}
