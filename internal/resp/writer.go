package resp

import (
	"bufio"
	"io"
)

// Encoder handles the serialization of RESP Value objects into an output stream
type Encoder struct {
	writer *bufio.Writer
}

// NewEncoder initializes an Encoder with a buffered writer
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		writer: bufio.NewWriter(w)}
}

// Write serializes a RESP Value into the buffer. Call Flush to send it.
func (e *Encoder) Write(v Value) error {
	// encoding into the free part of the buffer saves a copy for small frames
	b := Append(e.writer.AvailableBuffer(), v)
	_, err := e.writer.Write(b)
	return err
}

// WriteCommand serializes a request made of a command name and its arguments
func (e *Encoder) WriteCommand(name string, args ...string) error {
	_, err := e.writer.Write(SerializeCommand(name, args...))
	return err
}

// Flush sends all buffered frames to the underlying writer
func (e *Encoder) Flush() error {
	return e.writer.Flush()
}

// Buffered returns the number of bytes waiting for Flush
func (e *Encoder) Buffered() int {
	return e.writer.Buffered()
}
