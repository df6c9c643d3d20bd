package main

import (
	"errors"
	"strconv"
	"strings"

	"github.com/eternalApril/resp2/internal/resp"
)

// appendFormatted renders v the way redis-cli prints replies. indent is the
// column nested array lines continue at.
func appendFormatted(dst []byte, v resp.Value, indent int) []byte {
	switch v.Type() {
	case resp.TypeSimpleString:
		return append(dst, v.Bytes()...)

	case resp.TypeError:
		dst = append(dst, "(error) "...)
		return append(dst, v.Bytes()...)

	case resp.TypeInteger:
		dst = append(dst, "(integer) "...)
		return strconv.AppendInt(dst, v.Int(), 10)

	case resp.TypeBulkString:
		if v.IsNull() {
			return append(dst, "(nil)"...)
		}
		return strconv.AppendQuote(dst, v.Text())

	case resp.TypeArray:
		if v.IsNull() {
			return append(dst, "(nil)"...)
		}
		elems := v.Array()
		if len(elems) == 0 {
			return append(dst, "(empty array)"...)
		}

		width := len(strconv.Itoa(len(elems)))
		for i, el := range elems {
			if i > 0 {
				dst = append(dst, '\n')
				dst = append(dst, strings.Repeat(" ", indent)...)
			}
			idx := strconv.Itoa(i + 1)
			dst = append(dst, strings.Repeat(" ", width-len(idx))...)
			dst = append(dst, idx...)
			dst = append(dst, ") "...)
			dst = appendFormatted(dst, el, indent+width+2)
		}
	}
	return dst
}

var errUnbalancedQuotes = errors.New("unbalanced quotes")

// splitInline splits an inline command into words. Double quoted words
// understand \n, \r, \t, \\, \" and \xHH escapes, single quoted words are taken as is.
func splitInline(line string) ([]string, error) {
	var (
		words  []string
		word   strings.Builder
		inWord bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			if inWord {
				words = append(words, word.String())
				word.Reset()
				inWord = false
			}

		case c == '"':
			inWord = true
			end, err := readDoubleQuoted(line, i+1, &word)
			if err != nil {
				return nil, err
			}
			i = end

		case c == '\'':
			inWord = true
			end := strings.IndexByte(line[i+1:], '\'')
			if end < 0 {
				return nil, errUnbalancedQuotes
			}
			word.WriteString(line[i+1 : i+1+end])
			i += end + 1

		default:
			inWord = true
			word.WriteByte(c)
		}
	}

	if inWord {
		words = append(words, word.String())
	}
	return words, nil
}

// readDoubleQuoted copies a double quoted word starting after the opening
// quote into word and returns the index of the closing quote
func readDoubleQuoted(line string, i int, word *strings.Builder) (int, error) {
	for ; i < len(line); i++ {
		c := line[i]
		if c == '"' {
			return i, nil
		}
		if c != '\\' || i+1 == len(line) {
			word.WriteByte(c)
			continue
		}

		i++
		switch line[i] {
		case 'n':
			word.WriteByte('\n')
		case 'r':
			word.WriteByte('\r')
		case 't':
			word.WriteByte('\t')
		case 'x':
			if i+2 < len(line) {
				if b, err := strconv.ParseUint(line[i+1:i+3], 16, 8); err == nil {
					word.WriteByte(byte(b))
					i += 2
					continue
				}
			}
			word.WriteByte('x')
		default:
			word.WriteByte(line[i])
		}
	}
	return 0, errUnbalancedQuotes
}
