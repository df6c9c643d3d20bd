package resp

import "strconv"

var (
	crlf          = []byte("\r\n")
	nilBulkString = []byte("$-1\r\n")
	nilArray      = []byte("*-1\r\n")
)

// Encode returns the wire form of v
func Encode(v Value) []byte {
	return Append(make([]byte, 0, Size(v)), v)
}

// Append appends the wire form of v to dst and returns the extended slice
func Append(dst []byte, v Value) []byte {
	switch v.Type() {
	case TypeSimpleString, TypeError:
		dst = append(dst, byte(v.typ))
		dst = append(dst, v.str...)
		return append(dst, crlf...)

	case TypeInteger:
		return appendHeader(dst, TypeInteger, v.integer)

	case TypeBulkString:
		if v.IsNull() {
			return append(dst, nilBulkString...)
		}
		dst = appendHeader(dst, TypeBulkString, int64(len(v.str)))
		dst = append(dst, v.str...)
		return append(dst, crlf...)

	case TypeArray:
		if v.IsNull() {
			return append(dst, nilArray...)
		}
		dst = appendHeader(dst, TypeArray, int64(len(v.array)))
		for _, el := range v.array {
			dst = Append(dst, el)
		}
	}
	return dst
}

// Size returns len(Encode(v)) without encoding
func Size(v Value) int {
	switch v.Type() {
	case TypeSimpleString, TypeError:
		return 1 + len(v.str) + 2
	case TypeInteger:
		return headerSize(v.integer)
	case TypeBulkString:
		if v.IsNull() {
			return len(nilBulkString)
		}
		return headerSize(int64(len(v.str))) + len(v.str) + 2
	case TypeArray:
		if v.IsNull() {
			return len(nilArray)
		}
		n := headerSize(int64(len(v.array)))
		for _, el := range v.array {
			n += Size(el)
		}
		return n
	}
	return 0
}

// appendHeader writes the type prefix, numeric value, and CRLF
func appendHeader(dst []byte, prefix Type, n int64) []byte {
	dst = append(dst, byte(prefix))
	dst = strconv.AppendInt(dst, n, 10)
	return append(dst, crlf...)
}

func headerSize(n int64) int {
	digits := 1
	if n < 0 {
		digits++ // sign
	}
	for n /= 10; n != 0; n /= 10 {
		digits++
	}
	return 1 + digits + 2
}
