package resp

import "io"

type Reader interface {
	Read() (Value, error)
	Buffered() int
}

type Writer interface {
	Write(v Value) error
	Flush() error
}

type Stream interface {
	Reader
	Writer
	io.Closer
}

type stream struct {
	*RespReader
	*Encoder
	io.Closer
}

// NewStream pairs a RespReader and an Encoder over one connection
func NewStream(rwc io.ReadWriteCloser, opts ...ReaderOption) Stream {
	return &stream{
		RespReader: NewReader(rwc, opts...),
		Encoder:    NewEncoder(rwc),
		Closer:     rwc,
	}
}

// Buffered reports unread input bytes
func (s *stream) Buffered() int {
	return s.RespReader.Buffered()
}
