package resp

import (
	"bytes"
	"strconv"
)

// DefaultMaxDepth is the array nesting limit of a Decoder with MaxDepth unset
const DefaultMaxDepth = 512

// Decoder turns bytes into Values. It holds no state between calls, so one
// Decoder may be shared by any number of goroutines.
// The zero Decoder uses DefaultMaxDepth and no length limits.
type Decoder struct {
	MaxDepth       int   // maximum number of nested arrays
	MaxBulkLength  int64 // largest accepted bulk string payload, 0 for no limit
	MaxArrayLength int64 // largest accepted array element count, 0 for no limit

	// Lenient accepts a leading '+' and leading zeros in integers, lengths
	// and counts. Frames accepted only in this mode do not re-encode to the
	// same bytes.
	Lenient bool
}

var defaultDecoder Decoder

// Decode parses one frame from the start of b with the default Decoder
func Decode(b []byte) (Value, int, error) {
	return defaultDecoder.Decode(b)
}

// Decode parses one frame from the start of b and returns it together with
// the number of bytes it occupied. Bytes after the frame are left alone.
//
// The error is ErrIncomplete when b is a valid but unfinished frame, or a
// *ProtocolError matching ErrInvalid when b can never become one.
func (d *Decoder) Decode(b []byte) (Value, int, error) {
	v, n, err := d.decode(b, 0, 0)
	if err != nil {
		return Value{}, 0, err
	}
	return v, n, nil
}

func (d *Decoder) maxDepth() int {
	if d.MaxDepth > 0 {
		return d.MaxDepth
	}
	return DefaultMaxDepth
}

// decode parses the frame starting at pos and returns the offset just past
// it. depth counts the arrays enclosing the frame.
func (d *Decoder) decode(b []byte, pos, depth int) (Value, int, error) {
	if pos >= len(b) {
		return Value{}, 0, ErrIncomplete
	}

	switch typ := Type(b[pos]); typ {
	case TypeSimpleString, TypeError:
		end, err := readLine(b, pos+1)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{typ: typ, str: bytes.Clone(b[pos+1 : end])}, end + 2, nil

	case TypeInteger:
		end, err := readLine(b, pos+1)
		if err != nil {
			return Value{}, 0, err
		}
		n, ok := d.parseInt(b[pos+1 : end])
		if !ok {
			return Value{}, 0, invalid(pos+1, ErrInvalidInteger)
		}
		return Value{typ: TypeInteger, integer: n}, end + 2, nil

	case TypeBulkString:
		return d.decodeBulkString(b, pos)

	case TypeArray:
		return d.decodeArray(b, pos, depth)
	}

	return Value{}, 0, invalid(pos, ErrInvalidType)
}

func (d *Decoder) decodeBulkString(b []byte, pos int) (Value, int, error) {
	n, start, err := d.readLength(b, pos, d.MaxBulkLength)
	if err != nil {
		return Value{}, 0, err
	}
	if n == -1 {
		return MakeNullBulkString(), start, nil
	}

	if int64(len(b)-start) <= n {
		return Value{}, 0, ErrIncomplete
	}

	// the payload is length-prefixed, so whatever sits right after it has to be CRLF
	end := start + int(n)
	if b[end] != '\r' {
		return Value{}, 0, invalid(end, ErrInvalidEnding)
	}
	if end+1 == len(b) {
		return Value{}, 0, ErrIncomplete
	}
	if b[end+1] != '\n' {
		return Value{}, 0, invalid(end+1, ErrInvalidEnding)
	}

	return Value{typ: TypeBulkString, str: bytes.Clone(b[start:end])}, end + 2, nil
}

func (d *Decoder) decodeArray(b []byte, pos, depth int) (Value, int, error) {
	n, next, err := d.readLength(b, pos, d.MaxArrayLength)
	if err != nil {
		return Value{}, 0, err
	}
	if n == -1 {
		return MakeNullArray(), next, nil
	}
	if depth >= d.maxDepth() {
		return Value{}, 0, invalid(pos, ErrMaxDepth)
	}

	// every element takes at least 3 bytes, don't trust n for the allocation
	size := n
	if most := int64(len(b)-next) / 3; size > most {
		size = most
	}

	elems := make([]Value, 0, size)
	for i := int64(0); i < n; i++ {
		v, end, err := d.decode(b, next, depth+1)
		if err != nil {
			return Value{}, 0, err
		}
		elems = append(elems, v)
		next = end
	}

	return Value{typ: TypeArray, array: elems}, next, nil
}

// readLength reads the length line of a bulk string or the count line of an
// array and returns the number with the offset of the first byte after the line
func (d *Decoder) readLength(b []byte, pos int, limit int64) (int64, int, error) {
	end, err := readLine(b, pos+1)
	if err != nil {
		return 0, 0, err
	}

	n, ok := d.parseInt(b[pos+1 : end])
	if !ok || n < -1 {
		return 0, 0, invalid(pos+1, ErrInvalidLength)
	}
	if limit > 0 && n > limit {
		return 0, 0, invalid(pos+1, ErrTooLarge)
	}

	return n, end + 2, nil
}

// readLine finds the CRLF that ends the line starting at pos and returns the
// offset of its CR. A CR or LF anywhere else in the line is invalid.
func readLine(b []byte, pos int) (int, error) {
	for i := pos; i < len(b); i++ {
		switch b[i] {
		case '\r':
			if i+1 == len(b) {
				return 0, ErrIncomplete
			}
			if b[i+1] != '\n' {
				return 0, invalid(i, ErrInvalidEnding)
			}
			return i, nil
		case '\n':
			return 0, invalid(i, ErrInvalidEnding)
		}
	}
	return 0, ErrIncomplete
}

func (d *Decoder) parseInt(line []byte) (int64, bool) {
	if !d.Lenient && !isCanonicalInt(line) {
		return 0, false
	}

	n, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// isCanonicalInt matches exactly what strconv.AppendInt produces: an optional
// '-' and digits without leading zeros, and no "-0"
func isCanonicalInt(line []byte) bool {
	digits := line
	if len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return false
	}
	if digits[0] == '0' {
		return len(line) == 1
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
