package resp

import (
	"errors"
	"io"
	"slices"

	"go.uber.org/zap"
)

const (
	defaultBufferSize        = 4096
	maxConsecutiveEmptyReads = 100
)

// ErrBufferFull is returned when a single frame does not fit in the maximum buffer size
var ErrBufferFull = errors.New("resp: frame exceeds maximum buffer size")

// ReaderOption configures a RespReader
type ReaderOption func(*RespReader)

// WithDecoder sets the Decoder used for every frame
func WithDecoder(d *Decoder) ReaderOption {
	return func(r *RespReader) {
		r.dec = d
	}
}

// WithLogger sets the logger for invalid frames and buffer growth
func WithLogger(log *zap.Logger) ReaderOption {
	return func(r *RespReader) {
		r.log = log
	}
}

// WithBufferSize sets the initial read buffer size
func WithBufferSize(n int) ReaderOption {
	return func(r *RespReader) {
		r.size = n
	}
}

// WithMaxBufferSize caps how many bytes a single unfinished frame may occupy
func WithMaxBufferSize(n int) ReaderOption {
	return func(r *RespReader) {
		r.maxBuffer = n
	}
}

// RespReader reads Values from a byte stream. Partial frames stay buffered
// and are decoded again from their first byte once more input arrives.
type RespReader struct {
	rd        io.Reader
	dec       *Decoder
	log       *zap.Logger
	buf       []byte
	r         int // start of the unread bytes in buf
	size      int
	maxBuffer int
	offset    int64 // stream bytes consumed by returned frames
	err       error // sticky after invalid input
	rdErr     error // returned by rd together with data, reported on the next fill
}

// NewReader wraps rd in a RespReader
func NewReader(rd io.Reader, opts ...ReaderOption) *RespReader {
	r := &RespReader{
		rd:   rd,
		dec:  &defaultDecoder,
		log:  zap.NewNop(),
		size: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.size <= 0 {
		r.size = defaultBufferSize
	}
	r.buf = make([]byte, 0, r.size)

	return r
}

// Read returns the next frame. It returns io.EOF at a clean end of stream
// and io.ErrUnexpectedEOF when the stream ends inside a frame.
// After invalid input every later call returns the same error.
func (r *RespReader) Read() (Value, error) {
	if r.err != nil {
		return Value{}, r.err
	}

	for {
		if r.r < len(r.buf) {
			out := r.dec.Parse(r.buf[r.r:])

			switch out.Status {
			case StatusComplete:
				r.r += out.N
				r.offset += int64(out.N)
				return out.Value, nil
			case StatusInvalid:
				r.log.Debug("invalid frame",
					zap.Error(out.Err),
					zap.Int("buffered", r.Buffered()),
				)
				r.err = out.Err
				return Value{}, out.Err
			}
		}

		if err := r.fill(); err != nil {
			if err == io.EOF && r.Buffered() > 0 {
				err = io.ErrUnexpectedEOF
			}
			return Value{}, err
		}
	}
}

// Buffered returns the number of bytes that can be read from the current buffer
func (r *RespReader) Buffered() int {
	return len(r.buf) - r.r
}

// Offset returns the stream position just after the last frame returned by
// Read, which is where a failing frame starts
func (r *RespReader) Offset() int64 {
	return r.offset
}

// fill moves the unread bytes to the front of the buffer and reads more after them
func (r *RespReader) fill() error {
	if r.maxBuffer > 0 && r.Buffered() >= r.maxBuffer {
		r.log.Debug("frame exceeds buffer limit", zap.Int("max_buffer", r.maxBuffer))
		r.err = ErrBufferFull
		return r.err
	}

	if r.rdErr != nil {
		err := r.rdErr
		r.rdErr = nil
		return err
	}

	if r.r > 0 {
		r.buf = r.buf[:copy(r.buf, r.buf[r.r:])]
		r.r = 0
	}

	if len(r.buf) == cap(r.buf) {
		r.buf = slices.Grow(r.buf, cap(r.buf))
		r.log.Debug("read buffer grown", zap.Int("capacity", cap(r.buf)))
	}

	limit := cap(r.buf)
	if r.maxBuffer > 0 && limit > r.maxBuffer {
		limit = r.maxBuffer
	}

	for i := 0; i < maxConsecutiveEmptyReads; i++ {
		n, err := r.rd.Read(r.buf[len(r.buf):limit])
		r.buf = r.buf[:len(r.buf)+n]
		if n > 0 {
			r.rdErr = err
			return nil
		}
		if err != nil {
			return err
		}
	}

	return io.ErrNoProgress
}
