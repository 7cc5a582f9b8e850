package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings configures a pushpipe run.
type Settings struct {
	// Workers is the number of worker graphs.
	Workers int `yaml:"workers"`
	// BatchCapacity is the capacity of input batches; 0 selects the
	// default for the record type.
	BatchCapacity int `yaml:"batch_capacity"`
	// LogLevel is a slog level name.
	LogLevel string `yaml:"log_level"`
	// Epochs is the number of timestamps the demo dataflow sends.
	Epochs int `yaml:"epochs"`
	// Records is the number of records sent per epoch.
	Records int `yaml:"records"`

	Metrics MetricsSettings `yaml:"metrics"`
	Capture CaptureSettings `yaml:"capture"`
}

type MetricsSettings struct {
	Namespace string `yaml:"namespace"`
	// Addr serves /metrics when set.
	Addr string `yaml:"addr"`
}

type CaptureSettings struct {
	// Dir holds the capture log; empty disables capture.
	Dir string `yaml:"dir"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Workers:  1,
		LogLevel: "info",
		Epochs:   10,
		Records:  1000,
		Metrics:  MetricsSettings{Namespace: "pushpipe"},
	}
}

// Level parses LogLevel.
func (s Settings) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log level: %w", err)
	}
	return l, nil
}

// Validate reports settings no run can use.
func (s Settings) Validate() error {
	var errs []error
	if s.Workers <= 0 {
		errs = append(errs, fmt.Errorf("config: workers must be positive, got %d", s.Workers))
	}
	if s.BatchCapacity < 0 {
		errs = append(errs, fmt.Errorf("config: batch capacity must not be negative, got %d", s.BatchCapacity))
	}
	if s.Epochs < 0 || s.Records < 0 {
		errs = append(errs, errors.New("config: epochs and records must not be negative"))
	}
	if _, err := s.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LoadFile overlays the YAML file at path on s. Keys missing from the file
// leave s unchanged.
func LoadFile(path string, s *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// LoadDotenv reads the variables of the .env file at path. A missing file
// yields no variables.
func LoadDotenv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return vars, nil
}

// WithFallback returns a Loader that consults vars for names missing from
// its environment.
func (l Loader) WithFallback(vars map[string]string) Loader {
	if len(vars) == 0 {
		return l
	}
	base := l
	l.lookup = func(key string) (string, bool) {
		if v, ok := base.lookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}
	return l
}

// Sources names where Resolve reads settings from.
type Sources struct {
	// File is an optional YAML file.
	File string
	// Dotenv is an optional .env file; a missing file is ignored.
	Dotenv string
	// Stage is the optional stage segment of variable names.
	Stage string
	// Loader reads the environment.
	Loader Loader
}

// Resolve layers Default, src.File, src.Dotenv and the environment, later
// sources winning, and validates the result.
func Resolve(src Sources) (Settings, error) {
	s := Default()
	if src.File != "" {
		if err := LoadFile(src.File, &s); err != nil {
			return Settings{}, err
		}
	}
	loader := src.Loader
	if src.Dotenv != "" {
		vars, err := LoadDotenv(src.Dotenv)
		if err != nil {
			return Settings{}, err
		}
		loader = loader.WithFallback(vars)
	}
	if err := loader.Load(src.Stage, &s); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
