package resp_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/eternalApril/resp2/internal/resp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReadInt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		lenient bool
		want    int64
		wantErr error
	}{
		{
			name:  "Valid positive",
			input: ":1000\r\n",
			want:  1000,
		},
		{
			name:    "Valid positive with +",
			input:   ":+1230\r\n",
			lenient: true,
			want:    1230,
		},
		{
			name:    "Leading + rejected by default",
			input:   ":+1230\r\n",
			wantErr: resp.ErrInvalidInteger,
		},
		{
			name:  "Valid negative",
			input: ":-15\r\n",
			want:  -15,
		},
		{
			name:  "Valid zero",
			input: ":0\r\n",
			want:  0,
		},
		{
			name:    "Invalid ending",
			input:   ":1000\n",
			wantErr: resp.ErrInvalidEnding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resp.NewReader(strings.NewReader(tt.input),
				resp.WithDecoder(&resp.Decoder{Lenient: tt.lenient}))

			val, err := r.Read()

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Read() expected error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Read() unexpected error %v", err)
			}

			if val.Type() != resp.TypeInteger {
				t.Errorf("Read() type = %v, want %v", val.Type(), resp.TypeInteger)
			}

			if val.Int() != tt.want {
				t.Errorf("Read() num = %v, want %v", val.Int(), tt.want)
			}
		})
	}
}

func TestReader_OneByteAtATime(t *testing.T) {
	input := "+OK\r\n:42\r\n$5\r\nhe\r\no\r\n*2\r\n$-1\r\n*0\r\n-ERR boom\r\n"
	r := resp.NewReader(iotest.OneByteReader(strings.NewReader(input)), resp.WithBufferSize(4))

	want := []resp.Value{
		resp.MustSimpleString("OK"),
		resp.MakeInteger(42),
		resp.MakeBulkString("he\r\no"),
		resp.MakeArray(resp.MakeNullBulkString(), resp.MakeArray()),
		resp.MustError("ERR boom"),
	}

	for i, w := range want {
		got, err := r.Read()
		require.NoError(t, err, "frame %d", i)
		assert.True(t, resp.Equal(w, got), "frame %d: got %s, want %s", i, got, w)
	}

	_, err := r.Read()
	assert.Equal(t, io.EOF, err)
	assert.Zero(t, r.Buffered())
}

func TestReader_Buffered(t *testing.T) {
	r := resp.NewReader(strings.NewReader("+a\r\n+b\r\n"))

	_, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, 4, r.Buffered())

	_, err = r.Read()
	require.NoError(t, err)
	assert.Zero(t, r.Buffered())
}

func TestReader_UnexpectedEOF(t *testing.T) {
	r := resp.NewReader(strings.NewReader("*2\r\n$5\r\nhel"))

	_, err := r.Read()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReader_InvalidIsSticky(t *testing.T) {
	r := resp.NewReader(strings.NewReader("+OK\r\n?garbage\r\n+OK\r\n"))

	_, err := r.Read()
	require.NoError(t, err)

	_, err = r.Read()
	require.ErrorIs(t, err, resp.ErrInvalidType)

	_, again := r.Read()
	assert.Equal(t, err, again)
}

func TestReader_LargeFrameGrowsBuffer(t *testing.T) {
	payload := strings.Repeat("x\r\n", 10_000)
	input := string(resp.Encode(resp.MakeBulkString(payload)))

	r := resp.NewReader(strings.NewReader(input), resp.WithBufferSize(16))

	got, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, payload, got.Text())
}

func TestReader_MaxBufferSize(t *testing.T) {
	input := string(resp.Encode(resp.MakeBulkString(strings.Repeat("a", 100))))

	r := resp.NewReader(strings.NewReader(input),
		resp.WithBufferSize(8),
		resp.WithMaxBufferSize(32),
	)

	_, err := r.Read()
	assert.ErrorIs(t, err, resp.ErrBufferFull)
}

func TestReader_FrameAtMaxBufferSize(t *testing.T) {
	input := "$3\r\nabc\r\n" // 9 bytes

	r := resp.NewReader(iotest.HalfReader(strings.NewReader(input)),
		resp.WithBufferSize(2),
		resp.WithMaxBufferSize(len(input)),
	)

	got, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "abc", got.Text())
}

func TestReader_LogsInvalidFrame(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := resp.NewReader(strings.NewReader(":12a\r\n"), resp.WithLogger(zap.New(core)))

	_, err := r.Read()
	require.ErrorIs(t, err, resp.ErrInvalid)

	entries := logs.FilterMessage("invalid frame").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(6), entries[0].ContextMap()["buffered"])
}

func TestReader_ReadError(t *testing.T) {
	r := resp.NewReader(iotest.ErrReader(io.ErrClosedPipe))

	_, err := r.Read()
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestReader_Offset(t *testing.T) {
	r := resp.NewReader(strings.NewReader("+OK\r\n:1\r\n:oops\r\n"))

	for i := 0; i < 2; i++ {
		_, err := r.Read()
		require.NoError(t, err)
	}
	assert.Equal(t, int64(9), r.Offset())

	_, err := r.Read()
	require.ErrorIs(t, err, resp.ErrInvalidInteger)
	assert.Equal(t, int64(9), r.Offset())
}

// dataThenError returns all of its data with err in a single call and
// counts calls made after that
type dataThenError struct {
	data  string
	err   error
	calls int
}

func (d *dataThenError) Read(p []byte) (int, error) {
	d.calls++
	if d.calls > 1 {
		return 0, io.ErrNoProgress
	}
	return copy(p, d.data), d.err
}

func TestReader_ErrorWithData(t *testing.T) {
	src := &dataThenError{data: ":1\r\n:2", err: io.ErrClosedPipe}
	r := resp.NewReader(src)

	v, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int())

	_, err = r.Read()
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.Equal(t, 1, src.calls)
}

func TestReader_EOFWithData(t *testing.T) {
	r := resp.NewReader(iotest.DataErrReader(strings.NewReader(":1\r\n:2\r\n")))

	for want := int64(1); want <= 2; want++ {
		v, err := r.Read()
		require.NoError(t, err)
		assert.Equal(t, want, v.Int())
	}

	_, err := r.Read()
	assert.ErrorIs(t, err, io.EOF)
}
