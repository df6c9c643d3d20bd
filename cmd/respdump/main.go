// Command respdump prints RESP2 streams in a readable form and turns inline
// commands into RESP2 request frames.
//
//	respdump appendonly.aof
//	printf 'SET key "hello world"\n' | respdump --encode
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/eternalApril/resp2/internal/config"
	"github.com/eternalApril/resp2/internal/logger"
	"github.com/eternalApril/resp2/internal/resp"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	flags := pflag.NewFlagSet("respdump", pflag.ContinueOnError)
	configPath := flags.String("config", ".", "directory containing resp2.yaml")
	encode := flags.Bool("encode", false, "read inline commands from stdin and write RESP frames")
	flags.Int("max-depth", resp.DefaultMaxDepth, "maximum array nesting depth")
	flags.Int64("max-bulk-length", 0, "largest accepted bulk string, 0 for no limit")
	flags.Bool("lenient", false, "accept '+' and leading zeros in numbers")
	flags.Int("max-buffer-size", 0, "largest unfinished frame kept in memory, 0 for no limit")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "console", "json or console")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "respdump: config:", err)
		return 1
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "respdump: logger:", err)
		return 1
	}
	defer log.Sync() //nolint:errcheck

	out := bufio.NewWriter(stdout)
	defer out.Flush() //nolint:errcheck

	if *encode {
		if err := encodeInline(stdin, out); err != nil {
			log.Error("encode failed", zap.Error(err))
			return 1
		}
		return 0
	}

	inputs := flags.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	d := &dumper{
		dec:  cfg.Decoder.NewDecoder(),
		opts: cfg.Reader.ReaderOptions(),
		out:  out,
		log:  log,
	}

	for _, name := range inputs {
		if err := d.dumpInput(name, stdin); err != nil {
			return 1
		}
	}

	return 0
}

type dumper struct {
	dec  *resp.Decoder
	opts []resp.ReaderOption
	out  *bufio.Writer
	log  *zap.Logger
}

func (d *dumper) dumpInput(name string, stdin io.Reader) error {
	var src io.Reader = stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			d.log.Error("open input", zap.String("input", name), zap.Error(err))
			return err
		}
		defer f.Close() //nolint:errcheck
		src = f
	}

	opts := append([]resp.ReaderOption{resp.WithDecoder(d.dec), resp.WithLogger(d.log)}, d.opts...)
	r := resp.NewReader(src, opts...)

	frames := 0
	for {
		v, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			d.log.Error("decode failed",
				zap.String("input", name),
				zap.Int("frame", frames),
				zap.Int64("frame_offset", r.Offset()),
				zap.Error(err),
			)
			return err
		}

		frames++
		if _, err := d.out.Write(appendFormatted(nil, v, 0)); err != nil {
			return err
		}
		if err := d.out.WriteByte('\n'); err != nil {
			return err
		}
	}

	d.log.Debug("input done", zap.String("input", name), zap.Int("frames", frames))
	return nil
}

func encodeInline(in io.Reader, out io.Writer) error {
	enc := resp.NewEncoder(out)
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		words, err := splitInline(sc.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if len(words) == 0 {
			continue
		}
		if err := enc.WriteCommand(words[0], words[1:]...); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	return enc.Flush()
}
