package fleet

import (
	"fmt"
	"strconv"
	"time"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/worker"
)

// Default configuration values.
const (
	DefaultWorkers      = 2
	DefaultStackBytes   = worker.DefaultStackBytes
	DefaultPriority     = worker.DefaultPriority
	DefaultStepDelay    = 50 * time.Millisecond
	DefaultStartTimeout = 2 * time.Second
	DefaultStopTimeout  = 2 * time.Second
	DefaultLogLevel     = "info"
)

// Config holds the fleet tunables: how many workers to run, the creation
// options they share, the step cadence and the verify budgets.
type Config struct {
	FleetName string
	Workers   int

	StackBytes       int
	Priority         int
	PreemptThreshold int

	StepDelay    time.Duration
	StartTimeout time.Duration
	StopTimeout  time.Duration

	LogLevel string
	Watch    bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		FleetName:    "hfrtos",
		Workers:      DefaultWorkers,
		StackBytes:   DefaultStackBytes,
		Priority:     DefaultPriority,
		StepDelay:    DefaultStepDelay,
		StartTimeout: DefaultStartTimeout,
		StopTimeout:  DefaultStopTimeout,
		LogLevel:     DefaultLogLevel,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.FleetName == "" {
		return fmt.Errorf("%w: fleet-name is required", ErrInvalidConfig)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	if c.StackBytes <= 0 {
		return fmt.Errorf("%w: stack-bytes must be positive", ErrInvalidConfig)
	}
	if c.Priority < 0 {
		return fmt.Errorf("%w: priority must not be negative", ErrInvalidConfig)
	}
	if c.StepDelay <= 0 {
		return fmt.Errorf("%w: step-delay must be positive", ErrInvalidConfig)
	}
	if c.StartTimeout <= 0 {
		return fmt.Errorf("%w: start-timeout must be positive", ErrInvalidConfig)
	}
	if c.StopTimeout <= 0 {
		return fmt.Errorf("%w: stop-timeout must be positive", ErrInvalidConfig)
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// WorkerOptions converts the shared per-worker tunables into creation
// options for Manager.Register.
func (c *Config) WorkerOptions() worker.CreateOptions {
	return worker.CreateOptions{
		StackBytes:       c.StackBytes,
		Priority:         c.Priority,
		PreemptThreshold: c.PreemptThreshold,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
