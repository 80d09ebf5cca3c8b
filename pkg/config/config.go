package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rhino1998/mathscript/pkg/interpreter"
)

const DefaultMaxCallDepth = 10000

// Config is the on-disk configuration of the mathscript command.
type Config struct {
	MaxCallDepth int  `yaml:"max_call_depth"`
	Debug        bool `yaml:"debug"`
}

func Default() Config {
	return Config{
		MaxCallDepth: DefaultMaxCallDepth,
	}
}

// Validate checks the settings that feed the interpreter using the
// interpreter's own rules.
func (c Config) Validate(logger *slog.Logger) error {
	cfg := c.Interpreter()
	return cfg.Validate(logger)
}

func (c Config) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}

	return slog.LevelInfo
}

func (c Config) Interpreter() interpreter.Config {
	return interpreter.Config{
		MaxCallDepth: c.MaxCallDepth,
	}
}

// Decode reads YAML from r on top of the defaults. Unknown keys are errors.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	err := dec.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	err = cfg.Validate(slog.Default())
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Load reads the config file at path. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config file %s does not exist", path)
		}

		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}
