// Package config loads the optional .batchcheck.yml file and resolves the
// paths it names against explicit working and home directories.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

// FileName is the config file looked up by Finder.
const FileName = ".batchcheck.yml"

// ErrNotFound is returned by Finder when no config file exists.
var ErrNotFound = errors.New(FileName + " not found")

// Config mirrors the run flags. Fields left out of the file keep their
// Default value.
type Config struct {
	Directories    []string `yaml:"directories" validate:"omitempty,dive,required"`
	Pattern        string   `yaml:"pattern"`
	Tool           string   `yaml:"tool"`
	Args           []string `yaml:"args"`
	Capture        string   `yaml:"capture,omitempty" validate:"omitempty,oneof=merged separate"`
	MissingDirs    string   `yaml:"missing_dirs,omitempty" validate:"omitempty,oneof=error skip"`
	Timeout        string   `yaml:"timeout,omitempty" validate:"omitempty,go_duration"`
	MinToolVersion string   `yaml:"min_tool_version,omitempty" validate:"omitempty,semver_constraint"`
}

// Default is the configuration used when no config file exists.
func Default() Config {
	return Config{
		Directories: []string{"test", "mbtcorelib"},
		Pattern:     "*.mbt",
		Tool:        "~/.moon/bin/moon",
		Args:        []string{"run", "src/test"},
		Capture:     "merged",
		MissingDirs: "error",
	}
}

// TimeoutDuration parses Timeout; an empty value means no timeout.
func (c Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid timeout %q", c.Timeout)
	}
	return d, nil
}

// ResolveDirectories returns Directories with relative entries joined to base.
func (c Config) ResolveDirectories(base string) []string {
	dirs := make([]string, len(c.Directories))
	for i, d := range c.Directories {
		if filepath.IsAbs(d) || base == "" {
			dirs[i] = d
			continue
		}
		dirs[i] = filepath.Join(base, d)
	}
	return dirs
}

// Loader reads and validates a config file.
type Loader interface {
	Load(path string) (Config, error)
}

// Writer serializes a config as YAML.
type Writer interface {
	Write(w io.Writer, cfg Config) error
}

// Finder locates the config file for a project directory.
type Finder interface {
	Find(startDir string) (cfg Config, projectDir string, err error)
}

type yamlLoader struct {
	validate *validator.Validate
}

// NewLoader returns a Loader that decodes strictly and validates fields.
func NewLoader() Loader {
	return &yamlLoader{
		validate: newValidator(),
	}
}

func (l *yamlLoader) Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // reading the operator's config file
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config file")
	}

	dec := yaml.NewDecoder(
		bytes.NewReader(data),
		yaml.Validator(l.validate),
		yaml.Strict(),
	)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrapf(err, "failed to parse config file %s", path)
	}

	return withDefaults(cfg), nil
}

func withDefaults(cfg Config) Config {
	def := Default()
	if len(cfg.Directories) == 0 {
		cfg.Directories = def.Directories
	}
	if cfg.Pattern == "" {
		cfg.Pattern = def.Pattern
	}
	if cfg.Tool == "" {
		cfg.Tool = def.Tool
	}
	if cfg.Args == nil {
		cfg.Args = def.Args
	}
	if cfg.Capture == "" {
		cfg.Capture = def.Capture
	}
	if cfg.MissingDirs == "" {
		cfg.MissingDirs = def.MissingDirs
	}
	return cfg
}

type yamlWriter struct{}

// NewWriter returns a YAML Writer.
func NewWriter() Writer {
	return &yamlWriter{}
}

func (w *yamlWriter) Write(wr io.Writer, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if _, err := wr.Write(data); err != nil {
		return errors.Wrap(err, "failed to write config")
	}

	return nil
}

type finder struct {
	loader Loader
	home   string
}

// NewFinder returns a Finder that walks up from the start directory. The
// search stops at home, at a directory containing .git, or at the root.
func NewFinder(loader Loader, home string) Finder {
	return &finder{loader: loader, home: home}
}

func (f *finder) Find(startDir string) (Config, string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Config{}, "", errors.Wrap(err, "failed to get absolute path")
	}

	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			cfg, err := f.loader.Load(configPath)
			if err != nil {
				return Config{}, "", err
			}
			return cfg, dir, nil
		}

		if dir == f.home {
			break
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return Config{}, "", errors.Wrapf(ErrNotFound, "searched upward from %s", startDir)
}

// WriteToFile writes cfg as FileName in dir. An existing file is not replaced.
func WriteToFile(dir string, cfg Config, w Writer) error {
	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //nolint:gosec // config is not secret
	if err != nil {
		return errors.Wrap(err, "failed to create config file")
	}
	defer f.Close()

	return w.Write(f, cfg)
}
