package resp

import (
	"errors"
	"strings"
)

// SerializeCommand encodes a request the way clients send it: an array of
// bulk strings starting with the command name
func SerializeCommand(cmd string, args ...string) []byte {
	elements := make([]Value, 1+len(args))

	elements[0] = MakeBulkString(cmd)
	for i, arg := range args {
		elements[i+1] = MakeBulkString(arg)
	}

	root := Value{typ: TypeArray, array: elements}
	return Append(make([]byte, 0, Size(root)), root)
}

var (
	ErrNotCommand   = errors.New("resp: command must be a non-empty array")
	ErrCommandValue = errors.New("resp: command parts must be bulk strings")
)

// Command is a request decoded from an array of bulk strings
type Command struct {
	Name string // upper-cased
	Args [][]byte
}

// ParseCommand parses a RESP array value into a Command
func ParseCommand(v Value) (Command, error) {
	if v.Type() != TypeArray || v.IsNull() || len(v.array) == 0 {
		return Command{}, ErrNotCommand
	}

	cmd := Command{
		Args: make([][]byte, len(v.array)-1),
	}

	for i, part := range v.array {
		if part.Type() != TypeBulkString || part.IsNull() {
			return Command{}, ErrCommandValue
		}
		if i == 0 {
			cmd.Name = strings.ToUpper(string(part.str))
			continue
		}
		cmd.Args[i-1] = part.str
	}

	return cmd, nil
}

// String returns a string representation of the command
func (c Command) String() string {
	parts := make([]string, 0, 1+len(c.Args))
	parts = append(parts, c.Name)
	for _, arg := range c.Args {
		parts = append(parts, string(arg))
	}
	return strings.Join(parts, " ")
}
