package testpipeline

import (
	"net"
	"sync"
	"testing"

	"github.com/eternalApril/resp2/internal/resp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// testServer answers a handful of commands over the resp package so real
// client libraries can check our framing against theirs
type testServer struct {
	ln   net.Listener
	log  *zap.Logger
	done chan struct{} // closed when serve stops accepting
	wg   sync.WaitGroup
	mu   sync.Mutex
	data map[string][]byte
}

func startServer(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &testServer{
		ln:   ln,
		log:  zaptest.NewLogger(t),
		done: make(chan struct{}),
		data: make(map[string][]byte),
	}
	go s.serve()

	t.Cleanup(func() {
		ln.Close() //nolint:errcheck
		<-s.done
		s.wg.Wait()
	})

	return ln.Addr().String()
}

func (s *testServer) serve() {
	defer close(s.done)

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection handles a connection for a single client
func (s *testServer) handleConnection(conn net.Conn) {
	stream := resp.NewStream(conn, resp.WithLogger(s.log))
	defer stream.Close() //nolint:errcheck

	for {
		req, err := stream.Read()
		if err != nil {
			return
		}

		if err := stream.Write(s.execute(req)); err != nil {
			return
		}

		// answer pipelined requests in one write
		if stream.Buffered() == 0 {
			if err := stream.Flush(); err != nil {
				return
			}
		}
	}
}

func (s *testServer) execute(req resp.Value) resp.Value {
	cmd, err := resp.ParseCommand(req)
	if err != nil {
		return errorReply("ERR %v", err)
	}

	switch cmd.Name {
	case "PING":
		if len(cmd.Args) == 0 {
			return resp.MustSimpleString("PONG")
		}
		return resp.MakeBulkBytes(cmd.Args[0])

	case "ECHO":
		if len(cmd.Args) != 1 {
			return errorReply("ERR wrong number of arguments for 'echo' command")
		}
		return resp.MakeBulkBytes(cmd.Args[0])

	case "SET":
		if len(cmd.Args) != 2 {
			return errorReply("ERR wrong number of arguments for 'set' command")
		}
		s.mu.Lock()
		s.data[string(cmd.Args[0])] = append([]byte(nil), cmd.Args[1]...)
		s.mu.Unlock()
		return resp.MustSimpleString("OK")

	case "GET":
		if len(cmd.Args) != 1 {
			return errorReply("ERR wrong number of arguments for 'get' command")
		}
		s.mu.Lock()
		val, ok := s.data[string(cmd.Args[0])]
		s.mu.Unlock()
		if !ok {
			return resp.MakeNullBulkString()
		}
		return resp.MakeBulkBytes(val)

	case "DEL":
		var deleted int64
		s.mu.Lock()
		for _, key := range cmd.Args {
			if _, ok := s.data[string(key)]; ok {
				delete(s.data, string(key))
				deleted++
			}
		}
		s.mu.Unlock()
		return resp.MakeInteger(deleted)

	case "MIXED":
		return resp.MakeArray(
			resp.MakeInteger(1),
			resp.MustSimpleString("ok"),
			resp.MakeBulkString("bulk"),
			resp.MakeNullBulkString(),
			resp.MakeArray(resp.MakeInteger(2)),
			resp.MustError("ERR inner"),
		)

	case "NULLARRAY":
		return resp.MakeNullArray()
	}

	return errorReply("ERR unknown command '%s'", cmd.Name)
}

func errorReply(format string, args ...any) resp.Value {
	v, err := resp.MakeErrorf(format, args...)
	if err != nil {
		return resp.MustError("ERR invalid request")
	}
	return v
}
