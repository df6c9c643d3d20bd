package resp

import (
	"fmt"
	"strings"
)

// MakeSimpleString construct SimpleString Value from string.
// The text must not contain CR or LF.
func MakeSimpleString(s string) (Value, error) {
	if err := checkText(s); err != nil {
		return Value{}, err
	}
	return Value{
		typ: TypeSimpleString,
		str: []byte(s),
	}, nil
}

// MustSimpleString is like MakeSimpleString but panics on invalid text
func MustSimpleString(s string) Value {
	v, err := MakeSimpleString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// MakeError construct Error Value from string.
// The text must not contain CR or LF.
func MakeError(s string) (Value, error) {
	if err := checkText(s); err != nil {
		return Value{}, err
	}
	return Value{
		typ: TypeError,
		str: []byte(s),
	}, nil
}

// MustError is like MakeError but panics on invalid text
func MustError(s string) Value {
	v, err := MakeError(s)
	if err != nil {
		panic(err)
	}
	return v
}

// MakeErrorf formats an error reply
func MakeErrorf(format string, args ...any) (Value, error) {
	return MakeError(fmt.Sprintf(format, args...))
}

// MakeBulkString construct BulkString Value from string
func MakeBulkString(s string) Value {
	return Value{
		typ: TypeBulkString,
		str: []byte(s),
	}
}

// MakeBulkBytes construct BulkString Value from a copy of b.
// A nil b still yields an empty, non-null bulk string.
func MakeBulkBytes(b []byte) Value {
	return Value{
		typ: TypeBulkString,
		str: append(make([]byte, 0, len(b)), b...),
	}
}

// MakeNullBulkString construct nil BulkSting Value
func MakeNullBulkString() Value {
	return Value{
		typ:  TypeBulkString,
		null: true,
	}
}

// MakeInteger construct Integer Value from int64
func MakeInteger(n int64) Value {
	return Value{
		typ:     TypeInteger,
		integer: n,
	}
}

// MakeArray creates a standard RESP array containing the provided elements
func MakeArray(values ...Value) Value {
	return Value{
		typ:   TypeArray,
		array: append(make([]Value, 0, len(values)), values...),
	}
}

// MakeNullArray creates the nil array
func MakeNullArray() Value {
	return Value{
		typ:  TypeArray,
		null: true,
	}
}

func checkText(s string) error {
	if strings.ContainsAny(s, "\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidText, s)
	}
	return nil
}
