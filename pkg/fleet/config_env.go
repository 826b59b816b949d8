package fleet

import "os"

// ApplyEnvConfig applies configuration from environment variables (HFRTOS_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("fleet-name", os.Getenv("HFRTOS_FLEET_NAME"), &cfg.FleetName)
	s.setString("log-level", os.Getenv("HFRTOS_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("workers", os.Getenv("HFRTOS_WORKERS"), &cfg.Workers); err != nil {
		return err
	}
	if err := s.setIntFromString("stack-bytes", os.Getenv("HFRTOS_STACK_BYTES"), &cfg.StackBytes); err != nil {
		return err
	}
	if err := s.setIntFromString("priority", os.Getenv("HFRTOS_PRIORITY"), &cfg.Priority); err != nil {
		return err
	}
	if err := s.setIntFromString("preempt-threshold", os.Getenv("HFRTOS_PREEMPT_THRESHOLD"), &cfg.PreemptThreshold); err != nil {
		return err
	}

	if err := s.setDuration("step-delay", os.Getenv("HFRTOS_STEP_DELAY"), &cfg.StepDelay); err != nil {
		return err
	}
	if err := s.setDuration("start-timeout", os.Getenv("HFRTOS_START_TIMEOUT"), &cfg.StartTimeout); err != nil {
		return err
	}
	if err := s.setDuration("stop-timeout", os.Getenv("HFRTOS_STOP_TIMEOUT"), &cfg.StopTimeout); err != nil {
		return err
	}

	s.setBoolFromString("watch", os.Getenv("HFRTOS_WATCH"), &cfg.Watch)

	return nil
}
