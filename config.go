// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gviegas/scenegraph/vertex"
)

// Config is the configuration of a Scene.
type Config struct {
	// Name of the driver to load. Any registered driver
	// whose name contains it (ignoring case) is a match.
	//
	// Default is "", which matches every driver.
	Driver string `yaml:"driver" toml:"driver"`

	// The size of the buffer from which mesh data is
	// sub-allocated.
	// If zero, every vertex attribute array gets its own
	// buffer instead.
	//
	// It must be a multiple of 16384 bytes.
	//
	// Default is 4194304 bytes (4MiB).
	ArenaSize int64 `yaml:"arena_size" toml:"arena_size"`

	// Whether Scene.CreateGPUBuffers releases CPU copies
	// of buffered vertex data.
	//
	// Default is false.
	ReleaseRedundantData bool `yaml:"release_redundant_data" toml:"release_redundant_data"`

	// Vertex kinds (e.g., "Location", "Index") whose CPU
	// copies are never released.
	//
	// Default is empty.
	Retain []string `yaml:"retain,omitempty" toml:"retain,omitempty"`

	// Vertex kinds that are not buffered into GPU memory.
	//
	// Default is empty.
	SkipBuffering []string `yaml:"skip_buffering,omitempty" toml:"skip_buffering,omitempty"`

	// Minimum level of log records produced by Logger
	// (one of "debug", "info", "warn" or "error").
	//
	// Default is "info".
	LogLevel string `yaml:"log_level" toml:"log_level"`
}

const dflArenaSize = 4194304

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Driver:               "",
		ArenaSize:            dflArenaSize,
		ReleaseRedundantData: false,
		LogLevel:             "info",
	}
}

// Clone returns a deep copy of c.
// The copy shares no slices with c.
func (c *Config) Clone() Config {
	var d Config
	if err := copier.CopyWithOption(&d, c, copier.Option{DeepCopy: true}); err != nil {
		panic(err)
	}
	return d
}

func parseKinds(s []string) ([]vertex.Kind, error) {
	var ks []vertex.Kind
	for _, x := range s {
		k, err := vertex.ParseKind(x)
		if err != nil {
			return nil, err
		}
		ks = append(ks, k)
	}
	return ks, nil
}

// Validate checks whether c is a valid configuration.
func (c *Config) Validate() error {
	if c.ArenaSize < 0 || c.ArenaSize%vertex.ArenaGranularity != 0 {
		return errors.Errorf(prefix+"arena size %d is not a multiple of %d", c.ArenaSize, vertex.ArenaGranularity)
	}
	if _, err := parseKinds(c.Retain); err != nil {
		return errors.Wrap(err, prefix+"retain")
	}
	if _, err := parseKinds(c.SkipBuffering); err != nil {
		return errors.Wrap(err, prefix+"skip_buffering")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns c.LogLevel as a slog.Level.
// An empty LogLevel means slog.LevelInfo.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.Wrap(err, prefix+"log level")
	}
	return l, nil
}

// Logger creates a text logger that writes to w and
// discards records below c's log level.
// The result can be passed to SetLogger.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	l, err := c.Level()
	if err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// Config formats.
const (
	YAML = "yaml"
	TOML = "toml"
)

// formatOf returns the config format implied by the
// extension of path.
func formatOf(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", errors.Errorf(prefix+"unknown config format %q", ext)
	}
}

// ParseConfig decodes a configuration in the given format
// (YAML or TOML).
// Fields absent from data keep their default values.
// The result is validated.
func ParseConfig(data []byte, format string) (Config, error) {
	c := DefaultConfig()
	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, &c)
	case TOML:
		err = toml.Unmarshal(data, &c)
	default:
		return Config{}, errors.Errorf(prefix+"unknown config format %q", format)
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, prefix+"parse %s config", format)
	}
	if err = c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// MarshalConfig encodes c in the given format (YAML or
// TOML).
func MarshalConfig(c *Config, format string) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	switch format {
	case YAML:
		b, err = yaml.Marshal(c)
	case TOML:
		b, err = toml.Marshal(c)
	default:
		return nil, errors.Errorf(prefix+"unknown config format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, prefix+"marshal %s config", format)
	}
	return b, nil
}

// LoadConfig reads the configuration file at path.
// The format is chosen by the file extension: ".yaml" or
// ".yml" for YAML and ".toml" for TOML.
func LoadConfig(path string) (Config, error) {
	format, err := formatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, prefix+"load config")
	}
	return ParseConfig(data, format)
}

// SaveConfig writes c to the file at path, in the format
// implied by its extension.
func SaveConfig(c *Config, path string) error {
	format, err := formatOf(path)
	if err != nil {
		return err
	}
	b, err := MarshalConfig(c, format)
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrap(err, prefix+"save config")
	}
	return nil
}
