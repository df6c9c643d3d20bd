package resp

import (
	"bytes"
	"strconv"
	"strings"
)

// Type is the one-byte prefix that identifies a RESP2 value on the wire
type Type byte

const (
	TypeSimpleString Type = '+'
	TypeError        Type = '-'
	TypeInteger      Type = ':'
	TypeBulkString   Type = '$'
	TypeArray        Type = '*'
)

func (t Type) String() string {
	switch t {
	case TypeSimpleString:
		return "simple string"
	case TypeError:
		return "error"
	case TypeInteger:
		return "integer"
	case TypeBulkString:
		return "bulk string"
	case TypeArray:
		return "array"
	}
	return "unknown type " + strconv.QuoteRune(rune(t))
}

// Value is a single RESP2 value. Values are built with the Make* constructors
// or produced by a Decoder and are never modified afterwards.
//
// The zero Value is a null bulk string.
type Value struct {
	str     []byte // SimpleString, Error, BulkString
	array   []Value
	integer int64
	typ     Type
	null    bool // nil BulkString and nil Array
}

// Type reports which of the five variants v holds
func (v Value) Type() Type {
	if v.typ == 0 {
		return TypeBulkString
	}
	return v.typ
}

// IsNull reports whether v is a null bulk string or a null array
func (v Value) IsNull() bool {
	return v.null || v.typ == 0
}

// Bytes returns the body of a simple string, error or bulk string.
// The returned slice is shared with v and must not be modified.
func (v Value) Bytes() []byte {
	return v.str
}

// Text returns the body of a simple string, error or bulk string as a string
func (v Value) Text() string {
	return string(v.str)
}

// Int returns the value of an integer, and 0 for every other variant
func (v Value) Int() int64 {
	return v.integer
}

// Array returns the elements of an array. The returned slice is shared with v
// and must not be modified.
func (v Value) Array() []Value {
	return v.array
}

// Len returns the payload length of a bulk string or the element count of an
// array, and -1 when the value is null
func (v Value) Len() int {
	if v.IsNull() {
		return -1
	}
	if v.typ == TypeArray {
		return len(v.array)
	}
	return len(v.str)
}

// IsError reports whether v is an error reply
func (v Value) IsError() bool {
	return v.typ == TypeError
}

// ErrorKind returns the leading upper-case word of an error reply, such as
// "ERR" or "WRONGTYPE", or "" when the body has no such prefix
func (v Value) ErrorKind() string {
	kind, _ := splitError(v)
	return kind
}

// ErrorMessage returns the error text that follows the kind prefix
func (v Value) ErrorMessage() string {
	_, msg := splitError(v)
	return msg
}

func splitError(v Value) (string, string) {
	if v.typ != TypeError {
		return "", ""
	}
	body := string(v.str)
	word, rest, _ := strings.Cut(body, " ")
	if word == "" {
		return "", body
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'A' || word[i] > 'Z' {
			return "", body
		}
	}
	return word, strings.TrimLeft(rest, " ")
}

// Equal reports whether v and o hold the same variant with the same content,
// comparing array elements recursively
func (v Value) Equal(o Value) bool {
	return Equal(v, o)
}

// Equal reports whether a and b are structurally equal
func Equal(a, b Value) bool {
	if a.Type() != b.Type() {
		return false
	}

	switch a.Type() {
	case TypeInteger:
		return a.integer == b.integer
	case TypeSimpleString, TypeError:
		return bytes.Equal(a.str, b.str)
	case TypeBulkString:
		if a.IsNull() || b.IsNull() {
			return a.IsNull() == b.IsNull()
		}
		return bytes.Equal(a.str, b.str)
	case TypeArray:
		if a.IsNull() || b.IsNull() {
			return a.IsNull() == b.IsNull()
		}
		if len(a.array) != len(b.array) {
			return false
		}
		for i := range a.array {
			if !Equal(a.array[i], b.array[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders v for debugging and test output
func (v Value) String() string {
	switch v.Type() {
	case TypeSimpleString, TypeError:
		return string(v.str)
	case TypeInteger:
		return strconv.FormatInt(v.integer, 10)
	case TypeBulkString:
		if v.IsNull() {
			return "(nil)"
		}
		return strconv.Quote(string(v.str))
	case TypeArray:
		if v.IsNull() {
			return "(nil)"
		}
		parts := make([]string, len(v.array))
		for i, item := range v.array {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "(invalid)"
}
