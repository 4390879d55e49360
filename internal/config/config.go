package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	collide "github.com/jonathanmweiss/go-collide"
	"github.com/jonathanmweiss/go-collide/internal/logging"
	"github.com/jonathanmweiss/go-collide/primes"
)

const EnvPrefix = "COLLIDE"

// the default run scans every prime index in [277, 2081], sixteen per batch.
const (
	defaultFirstIndex = 277
	defaultLastIndex  = 2081
	defaultBatchSize  = 16
	defaultUpperBound = 47055833460
	defaultX          = -3
)

var (
	ErrNoBatches    = errors.New("no batches configured")
	ErrLogLevel     = errors.New("unknown log level")
	ErrWorkerCount  = errors.New("workers must not be negative")
	ErrBatchInvalid = errors.New("invalid batch")
)

type LogConfig struct {
	Level   string `mapstructure:"level" yaml:"level"`
	Verbose bool   `mapstructure:"verbose" yaml:"verbose"`
}

type RunConfig struct {
	// zero means one worker per CPU.
	Workers   int    `mapstructure:"workers" yaml:"workers"`
	Heartbeat uint64 `mapstructure:"heartbeat" yaml:"heartbeat"`
}

// Candidates are signed so that a negative index is rejected instead of wrapping around.
type BatchConfig struct {
	Candidates []int64  `mapstructure:"candidates" yaml:"candidates,flow"`
	UpperBound uint64   `mapstructure:"upper_bound" yaml:"upper_bound"`
	X          int64    `mapstructure:"x" yaml:"x"`
	Strategy   string   `mapstructure:"strategy" yaml:"strategy"`
}

type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Run     RunConfig     `mapstructure:"run" yaml:"run"`
	Batches []BatchConfig `mapstructure:"batches" yaml:"batches"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.verbose", false)

	v.SetDefault("run.workers", 0)
	v.SetDefault("run.heartbeat", uint64(collide.DefaultHeartbeat))
}

// Default is the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Run: RunConfig{Heartbeat: collide.DefaultHeartbeat},

		Batches: defaultBatches(),
	}
}

func defaultBatches() []BatchConfig {
	sv, err := primes.NewSieve(defaultLastIndex)
	if err != nil {
		panic(err)
	}

	var (
		out   []BatchConfig
		chunk []int64
	)

	flush := func() {
		out = append(out, BatchConfig{
			Candidates: chunk,
			UpperBound: defaultUpperBound,
			X:          defaultX,
			Strategy:   string(collide.KindPowerSum),
		})
		chunk = nil
	}

	it := sv.From(defaultFirstIndex)
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		chunk = append(chunk, int64(p))
		if len(chunk) == defaultBatchSize {
			flush()
		}
	}

	if len(chunk) > 0 {
		flush()
	}

	return out
}

// Load reads the YAML file at path into a fresh viper instance.
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

/*
LoadWith resolves the configuration from v, which may already carry bound flags.
Values are taken, in decreasing priority, from flags, COLLIDE_* environment variables,
the file at path and the defaults. A missing file is not an error, neither is an empty path.
A file without batches runs the default ones.
*/
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Batches) == 0 {
		cfg.Batches = defaultBatches()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
}

func (c *Config) Validate() error {
	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("%w: %q", ErrLogLevel, c.Log.Level)
	}

	if c.Run.Workers < 0 {
		return ErrWorkerCount
	}

	if len(c.Batches) == 0 {
		return ErrNoBatches
	}

	for i, b := range c.Batches {
		for _, n := range b.Candidates {
			if n <= 0 {
				return fmt.Errorf("%w %d: n = %d: %w", ErrBatchInvalid, i, n, collide.ErrNonPositiveIndex)
			}
		}
	}

	for i, b := range c.SearchBatches() {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("%w %d: %w", ErrBatchInvalid, i, err)
		}
	}

	return nil
}

// SearchBatches converts the configured batches, in order.
// Candidates must have been validated as positive.
func (c *Config) SearchBatches() []collide.Batch {
	out := make([]collide.Batch, len(c.Batches))
	for i, b := range c.Batches {
		candidates := make([]uint64, len(b.Candidates))
		for j, n := range b.Candidates {
			candidates[j] = uint64(n)
		}

		out[i] = collide.Batch{
			Candidates: candidates,
			UpperBound: b.UpperBound,
			X:          b.X,
			Strategy:   collide.StrategyKind(b.Strategy),
		}
	}

	return out
}

// Workers resolves a zero worker count to one per CPU.
func (c *Config) Workers() int {
	if c.Run.Workers == 0 {
		return collide.DefaultWorkers()
	}

	return c.Run.Workers
}

func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Write saves the configuration as YAML, with a generated header.
func (c *Config) Write(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}

	header := "# collide configuration\n# Generated on " + time.Now().Format("2006-01-02 15:04:05") + "\n\n"

	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}
