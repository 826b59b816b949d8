package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	hfrtos "github.com/N3b3x/hf-utils-rtos-wrap"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/fleet"
	logAdapter "github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/mailbox"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal/goos"
)

const helpBanner = `
 _   _   _____   ____    _____    ___    ____
| | | | |  ___| |  _ \  |_   _|  / _ \  / ___|
| |_| | | |_    | |_) |   | |   | | | | \___ \
|  _  | |  _|   |  _ <    | |   | |_| |  ___) |
|_| |_| |_|     |_| \_\   |_|    \___/  |____/
`

const helpDescription = `
Run a simulated sensor fleet on RTOS-style primitives: workers that cycle
through setup, step and cleanup, a single-slot mailbox carrying the latest
reading, and a per-probe status table.

Highlights:
  - Starts and stops the whole fleet with verified signals.
  - Configure via file, environment (HFRTOS_*), or flags.
  - Optionally reloads the configuration when the file changes on disk.
`

var longHelp = strings.TrimSpace(helpBanner) + "\n\n" + strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  hfrtos-demo --workers 4 --step-delay 25ms
  hfrtos-demo --config $HOME/.hfrtos/config.toml --watch
  hfrtos-demo --duration 10s --log-level debug
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func defaultLockPath() string {
	return filepath.Join(os.TempDir(), "hfrtos-demo.lock")
}

func main() {
	cfg := fleet.DefaultConfig()
	var (
		cfgPath  string
		lockPath string
		duration time.Duration
	)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	root := &cobra.Command{
		Use:     "hfrtos-demo",
		Short:   "Run a simulated sensor fleet on RTOS-style primitives",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Resolve the config path, then apply file, env and flag
			// layers in ascending precedence.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = fleet.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && fleet.FileExists(cfgFile) {
				fc, err := fleet.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := fleet.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment overrides file values but loses to explicit flags.
			fleet.ApplyEnvConfig(&cfg, changed)

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := hfrtos.ValidateModuleVersions(); err != nil {
				return err
			}

			level, err := zerolog.ParseLevel(cfg.LogLevel)
			if err != nil {
				level = zerolog.InfoLevel
			}
			logger = logger.Level(level)
			logger.Info().Interface("config", cfg).Msg("configuration")

			watchPath := ""
			if cfg.Watch {
				watchPath = cfgFile
			}
			return run(logger, cfg, watchPath, lockPath, duration)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.hfrtos/config.toml)")
	root.Flags().StringVar(&cfg.FleetName, "fleet-name", cfg.FleetName, "display name for the fleet")
	root.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "number of sensor workers")
	root.Flags().IntVar(&cfg.StackBytes, "stack-bytes", cfg.StackBytes, "stack size hint per worker thread")
	root.Flags().IntVar(&cfg.Priority, "priority", cfg.Priority, "priority hint per worker thread")
	root.Flags().IntVar(&cfg.PreemptThreshold, "preempt-threshold", cfg.PreemptThreshold, "preemption threshold hint (0 uses priority)")
	root.Flags().DurationVar(&cfg.StepDelay, "step-delay", cfg.StepDelay, "pause between sensor steps")
	root.Flags().DurationVar(&cfg.StartTimeout, "start-timeout", cfg.StartTimeout, "budget for a verified fleet start")
	root.Flags().DurationVar(&cfg.StopTimeout, "stop-timeout", cfg.StopTimeout, "budget for a verified fleet stop")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload configuration when the file changes")
	root.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 runs until a signal)")
	root.Flags().StringVar(&lockPath, "lock-file", defaultLockPath(), "lock file guarding against concurrent instances")

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("hfrtos-demo")
		os.Exit(1)
	}
}

// run assembles the fleet from cfg and drives it until a signal or the
// optional duration ends the session.
func run(logger zerolog.Logger, cfg fleet.Config, watchPath, lockPath string, duration time.Duration) error {
	// One instance per lock file.
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another hfrtos-demo instance is already running (lock %s)", lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn().Err(err).Str("lock", lockPath).Msg("release lock failed")
		}
	}()

	lg := logAdapter.NewZerologAdapterWithLogger(logger)
	p := hfrtos.NewProvider(goos.WithLogger(lg))
	registry := hfrtos.NewRegistry()

	sim, err := newSimulation(cfg, p, lg, registry)
	if err != nil {
		return err
	}
	defer sim.shutdown()

	if !sim.manager.Initialize() {
		return errors.New("fleet initialization incomplete")
	}

	ctx, cancel := context.WithCancel(context.Background())

	if watchPath != "" {
		box := hfrtos.NewBox[fleet.Config]("fleet-config", p, p, mailbox.WithLogger(lg))
		defer box.Delete()
		watcher := fleet.NewWatcher(watchPath, cfg, box, fleet.WithLogger(lg))
		if err := watcher.Start(ctx); err != nil {
			cancel()
			return fmt.Errorf("start config watcher: %w", err)
		}
		defer watcher.Stop()
		go sim.applyReloads(ctx, box)
	}
	defer cancel()

	if !sim.manager.StartAllAndVerify(hfrtos.WaitDuration(cfg.StartTimeout)) {
		return errors.New("fleet start not verified")
	}
	logger.Info().
		Str("fleet", cfg.FleetName).
		Int("workers", sim.manager.Size()).
		Int("live_threads", registry.Count()).
		Msg("fleet running")
	fmt.Println(sim.fleetTable())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var timeoutCh <-chan time.Time
	if duration > 0 {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case <-sigCh:
		logger.Info().Msg("received signal, stopping...")
	case <-timeoutCh:
		logger.Info().Dur("duration", duration).Msg("duration elapsed, stopping...")
	}

	if !sim.manager.StopAllAndVerify(hfrtos.WaitDuration(cfg.StopTimeout)) {
		logger.Warn().Msg("fleet stop not verified")
	}

	fmt.Println(sim.fleetTable())
	fmt.Println(sim.healthTable())
	logger.Info().
		Uint64("produced", sim.produced()).
		Uint64("consumed", sim.sink.consumed.Load()).
		Uint64("faults", sim.sink.faults.Load()).
		Int("live_threads", registry.Count()).
		Msg("fleet stopped")
	return nil
}
