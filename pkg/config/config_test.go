package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/rhino1998/mathscript/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	r := require.New(t)

	cfg, err := config.Decode(strings.NewReader("max_call_depth: 50\ndebug: true\n"))
	r.NoError(err)
	r.Equal(50, cfg.MaxCallDepth)
	r.True(cfg.Debug)
	r.Equal(slog.LevelDebug, cfg.LogLevel())
	r.Equal(50, cfg.Interpreter().MaxCallDepth)
}

func TestDecode_Defaults(t *testing.T) {
	r := require.New(t)

	cfg, err := config.Decode(strings.NewReader(""))
	r.NoError(err)
	r.Equal(config.Default(), cfg)
	r.Equal(slog.LevelInfo, cfg.LogLevel())

	cfg, err = config.Decode(strings.NewReader("debug: true\n"))
	r.NoError(err)
	r.Equal(config.DefaultMaxCallDepth, cfg.MaxCallDepth)
}

func TestDecode_Invalid(t *testing.T) {
	r := require.New(t)

	_, err := config.Decode(strings.NewReader("max_call_depth: -1\n"))
	r.EqualError(err, "max call depth must not be negative, got -1")

	_, err = config.Decode(strings.NewReader("max_depth: 3\n"))
	r.Error(err)

	_, err = config.Decode(strings.NewReader("max_call_depth: [\n"))
	r.Error(err)
}

func TestValidate(t *testing.T) {
	r := require.New(t)

	r.NoError(config.Default().Validate(slogt.New(t)))
	r.NoError(config.Config{}.Validate(slogt.New(t)))

	cfg := config.Config{MaxCallDepth: -3}
	err := cfg.Validate(slogt.New(t))
	r.EqualError(err, "max call depth must not be negative, got -3")

	icfg := cfg.Interpreter()
	r.EqualError(icfg.Validate(slogt.New(t)), err.Error())
}

func TestLoad(t *testing.T) {
	r := require.New(t)

	cfg, err := config.Load("")
	r.NoError(err)
	r.Equal(config.Default(), cfg)

	path := filepath.Join(t.TempDir(), "mathscript.yaml")
	r.NoError(os.WriteFile(path, []byte("max_call_depth: 7\n"), 0o644))

	cfg, err = config.Load(path)
	r.NoError(err)
	r.Equal(7, cfg.MaxCallDepth)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	r.ErrorContains(err, "does not exist")
}
