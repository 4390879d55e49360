package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	collide "github.com/jonathanmweiss/go-collide"
	"github.com/jonathanmweiss/go-collide/primes"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "collide.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestDefault(t *testing.T) {
	a := assert.New(t)
	cfg := Default()

	a.NoError(cfg.Validate())
	require.Len(t, cfg.Batches, 16)

	first := cfg.Batches[0]
	a.Equal([]int64{277, 281, 283, 293, 307, 311, 313, 317, 331, 337, 347, 349, 353, 359, 367, 373}, first.Candidates)
	a.Equal(uint64(47055833460), first.UpperBound)
	a.Equal(int64(-3), first.X)
	a.Equal("power-sum", first.Strategy)

	last := cfg.Batches[15]
	a.Len(last.Candidates, 15)
	a.Equal(int64(1979), last.Candidates[0])
	a.Equal(int64(2081), last.Candidates[14])

	for _, b := range cfg.Batches[:15] {
		a.Len(b.Candidates, 16)
	}
}

func TestLoadMissingFile(t *testing.T) {
	a := assert.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	a.Equal(Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	a.Equal(Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	a := assert.New(t)

	path := writeFile(t, `
log:
  level: debug
run:
  workers: 2
  heartbeat: 1000
batches:
  - candidates: [5, 7, 11]
    upper_bound: 10000
    x: 10
    strategy: power-sum
  - candidates: [13]
    upper_bound: 500
    x: -3
    strategy: exact-fraction-chebyshev
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	a.Equal("debug", cfg.Log.Level)
	a.Equal(2, cfg.Workers())
	a.Equal(uint64(1000), cfg.Run.Heartbeat)

	batches := cfg.SearchBatches()
	require.Len(t, batches, 2)
	a.Equal(collide.Batch{Candidates: []uint64{5, 7, 11}, UpperBound: 10000, X: 10, Strategy: collide.KindPowerSum}, batches[0])
	a.Equal(collide.KindFractionChebyshev, batches[1].Strategy)
	a.Equal(int64(-3), batches[1].X)
}

func TestLoadWithoutBatchesRunsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "run:\n  workers: 1\n"))
	require.NoError(t, err)

	assert.Equal(t, Default().Batches, cfg.Batches)
	assert.Equal(t, 1, cfg.Workers())
}

func TestLoadRejects(t *testing.T) {
	tests := map[string]struct {
		body string
		err  error
	}{
		"logLevel": {"log:\n  level: loud\n", ErrLogLevel},
		"workers":  {"run:\n  workers: -1\n", ErrWorkerCount},
		"strategy": {
			"batches:\n  - candidates: [5]\n    upper_bound: 100\n    strategy: fourier\n",
			collide.ErrUnknownStrategy,
		},
		"upperBound": {
			"batches:\n  - candidates: [5]\n    upper_bound: 1\n    strategy: power-sum\n",
			collide.ErrUpperBoundTooSmall,
		},
		"tooLarge": {
			"batches:\n  - candidates: [5]\n    upper_bound: 1125899906842624\n    strategy: power-sum\n",
			primes.ErrUpperTooLarge,
		},
		"negativeIndex": {
			"batches:\n  - candidates: [-5, 7]\n    upper_bound: 100\n    strategy: power-sum\n",
			collide.ErrNonPositiveIndex,
		},
		"zeroIndex": {
			"batches:\n  - candidates: [5, 0]\n    upper_bound: 100\n    strategy: power-sum\n",
			collide.ErrNonPositiveIndex,
		},
		"smallChebyshevIndex": {
			"batches:\n  - candidates: [2]\n    upper_bound: 100\n    strategy: integer-chebyshev\n",
			collide.ErrIndexTooSmall,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.body))
			assert.ErrorIs(t, err, tc.err)
		})
	}

	_, err := Load(writeFile(t, "batches: [\n"))
	assert.Error(t, err)
}

func TestEnvAndFlagOverrides(t *testing.T) {
	a := assert.New(t)

	t.Setenv("COLLIDE_RUN_WORKERS", "3")
	t.Setenv("COLLIDE_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	a.Equal(3, cfg.Run.Workers)
	a.Equal("warn", cfg.Log.Level)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("workers", 0, "")
	require.NoError(t, flags.Parse([]string{"--workers=7"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag("run.workers", flags.Lookup("workers")))

	cfg, err = LoadWith(v, "")
	require.NoError(t, err)
	a.Equal(7, cfg.Run.Workers)
}

func TestWriteRoundTrip(t *testing.T) {
	a := assert.New(t)

	path := filepath.Join(t.TempDir(), "out.yaml")
	want := Default()
	want.Run.Workers = 4
	require.NoError(t, want.Write(path))

	got, err := Load(path)
	require.NoError(t, err)
	a.Equal(want, got)

	data, err := want.YAML()
	require.NoError(t, err)
	a.Contains(string(data), "candidates: [277, 281,")
	a.Contains(string(data), "strategy: power-sum")
}

func TestValidateRejectsNegativeIndex(t *testing.T) {
	a := assert.New(t)

	cfg := Default()
	cfg.Batches = []BatchConfig{{Candidates: []int64{-5, 7}, UpperBound: 100, Strategy: "power-sum"}}

	err := cfg.Validate()
	a.ErrorIs(err, collide.ErrNonPositiveIndex)
	a.ErrorIs(err, ErrBatchInvalid)
}
