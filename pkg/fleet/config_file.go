package fleet

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config but uses strings for durations and pointers
// for booleans, so only keys present in the file are applied.
type fileConfig struct {
	FleetName        string `toml:"fleet_name"`
	Workers          int    `toml:"workers"`
	StackBytes       int    `toml:"stack_bytes"`
	Priority         int    `toml:"priority"`
	PreemptThreshold int    `toml:"preempt_threshold"`
	StepDelay        string `toml:"step_delay"`
	StartTimeout     string `toml:"start_timeout"`
	StopTimeout      string `toml:"stop_timeout"`
	LogLevel         string `toml:"log_level"`
	Watch            *bool  `toml:"watch"`
}

// loadFileConfig reads and parses a TOML config file.
func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// defaultConfigPath returns the default configuration file path.
// Returns ~/.hfrtos/config.toml if user home directory is accessible.
func defaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".hfrtos", "config.toml")
	}
	return ""
}

// applyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func applyFileConfig(cfg *Config, fc fileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("fleet-name", fc.FleetName, &cfg.FleetName)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("workers", fc.Workers, &cfg.Workers)
	s.setInt("stack-bytes", fc.StackBytes, &cfg.StackBytes)
	s.setInt("priority", fc.Priority, &cfg.Priority)
	s.setInt("preempt-threshold", fc.PreemptThreshold, &cfg.PreemptThreshold)

	if err := s.setDuration("step-delay", fc.StepDelay, &cfg.StepDelay); err != nil {
		return err
	}
	if err := s.setDuration("start-timeout", fc.StartTimeout, &cfg.StartTimeout); err != nil {
		return err
	}
	if err := s.setDuration("stop-timeout", fc.StopTimeout, &cfg.StopTimeout); err != nil {
		return err
	}

	s.setBool("watch", fc.Watch, &cfg.Watch)

	return nil
}

// fileExists checks if a file exists at the given path.
func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// Exported functions for use from main package without exposing internal helpers.

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (fileConfig, error) {
	return loadFileConfig(path)
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	return defaultConfigPath()
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc fileConfig, changed map[string]bool) error {
	return applyFileConfig(cfg, fc, changed)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	return fileExists(p)
}
