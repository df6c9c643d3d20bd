package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eternalApril/resp2/internal/resp"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config represents the root configuration structure for the application
type Config struct {
	Decoder DecoderConfig `mapstructure:"decoder"`
	Reader  ReaderConfig  `mapstructure:"reader"`
	Log     LogConfig     `mapstructure:"log"`
}

// DecoderConfig holds the limits applied to every decoded frame
type DecoderConfig struct {
	MaxDepth       int   `mapstructure:"max_depth"`
	MaxBulkLength  int64 `mapstructure:"max_bulk_length"`  // 0 disables the check
	MaxArrayLength int64 `mapstructure:"max_array_length"` // 0 disables the check
	Lenient        bool  `mapstructure:"lenient"`          // accept '+' and leading zeros in numbers
}

// ReaderConfig defines how streams are buffered
type ReaderConfig struct {
	BufferSize    int `mapstructure:"buffer_size"`
	MaxBufferSize int `mapstructure:"max_buffer_size"` // largest unfinished frame, 0 disables the check
}

// LogConfig defines logging verbosity and output style
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// Load reads the configuration from a file and overrides it with environment
// variables and, when flags is not nil, with the flags that were set
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("resp2")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	v.SetEnvPrefix("RESP2")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects negative limits and unknown log settings
func (c *Config) Validate() error {
	if c.Decoder.MaxDepth < 0 {
		return fmt.Errorf("decoder.max_depth must not be negative, got %d", c.Decoder.MaxDepth)
	}
	if c.Decoder.MaxBulkLength < 0 {
		return fmt.Errorf("decoder.max_bulk_length must not be negative, got %d", c.Decoder.MaxBulkLength)
	}
	if c.Decoder.MaxArrayLength < 0 {
		return fmt.Errorf("decoder.max_array_length must not be negative, got %d", c.Decoder.MaxArrayLength)
	}
	if c.Reader.BufferSize < 0 || c.Reader.MaxBufferSize < 0 {
		return errors.New("reader buffer sizes must not be negative")
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}

	return nil
}

// NewDecoder builds a resp.Decoder with the configured limits
func (c DecoderConfig) NewDecoder() *resp.Decoder {
	return &resp.Decoder{
		MaxDepth:       c.MaxDepth,
		MaxBulkLength:  c.MaxBulkLength,
		MaxArrayLength: c.MaxArrayLength,
		Lenient:        c.Lenient,
	}
}

// ReaderOptions converts the reader settings into resp.ReaderOption values
func (c ReaderConfig) ReaderOptions() []resp.ReaderOption {
	opts := []resp.ReaderOption{}
	if c.BufferSize > 0 {
		opts = append(opts, resp.WithBufferSize(c.BufferSize))
	}
	if c.MaxBufferSize > 0 {
		opts = append(opts, resp.WithMaxBufferSize(c.MaxBufferSize))
	}
	return opts
}

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"max-depth":       "decoder.max_depth",
	"max-bulk-length": "decoder.max_bulk_length",
	"lenient":         "decoder.lenient",
	"max-buffer-size": "reader.max_buffer_size",
	"log-level":       "log.level",
	"log-format":      "log.format",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// setDefaults populates viper with fallback values if they are not provided via file or ENV
func setDefaults(v *viper.Viper) {
	// Decoder
	v.SetDefault("decoder.max_depth", resp.DefaultMaxDepth)
	v.SetDefault("decoder.max_bulk_length", 512*1024*1024)
	v.SetDefault("decoder.max_array_length", 0)
	v.SetDefault("decoder.lenient", false)

	// Reader
	v.SetDefault("reader.buffer_size", 4096)
	v.SetDefault("reader.max_buffer_size", 0)

	// Logger
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}
