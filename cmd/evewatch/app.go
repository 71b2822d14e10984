package main

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"

	"evewatch/internal/config"
	"evewatch/internal/discovery"
	"evewatch/internal/eventlog"
	"evewatch/internal/events"
	"evewatch/internal/loglite"
	"evewatch/internal/logwatch"
	"evewatch/internal/monitor"
	"evewatch/internal/notify"
	"evewatch/internal/procwatch"
	"evewatch/internal/sink"
	"evewatch/internal/storage"
)

// app owns the wired-up monitor and everything that needs closing at
// shutdown.
type app struct {
	cfg     config.Config
	logger  *pterm.Logger
	sink    *sink.Sink
	buffer  *events.Buffer
	monitor *monitor.Monitor
	store   *storage.Store
	client  *loglite.Client
}

func newLogger() *pterm.Logger {
	level := pterm.LogLevelInfo
	if verbose {
		level = pterm.LogLevelDebug
	}
	return pterm.DefaultLogger.WithLevel(level)
}

func loadConfig(logger *pterm.Logger) config.Config {
	var result *config.LoadResult
	if configPath != "" {
		result = config.LoadFrom(configPath)
	} else {
		result = config.Load()
	}
	for _, w := range result.Warnings {
		logger.Warn("Config warning", logger.Args("warning", w))
	}
	return result.Config
}

// newApp builds the full monitor: watchers, sink, crash history, and the
// optional LogLite forwarder and desktop notifier.
func newApp() (*app, error) {
	logger := newLogger()
	cfg := loadConfig(logger)

	a := &app{
		cfg:    cfg,
		logger: logger,
		sink:   sink.New(cfg.OutputFile),
		buffer: events.NewBuffer(256),
	}

	tracker := procwatch.NewTracker(
		procwatch.NewGopsutilAPI(cfg.ProcessNames),
		time.Duration(cfg.CrashDetectionThreshold)*time.Second,
		logger)

	dirs := discovery.Locations(cfg.WatchDirs)
	logger.Info("Watching log directories", logger.Args("count", len(dirs)))
	tailer := logwatch.NewTailer(dirs, cfg.ExcludeFiles, cfg.ExcludePatterns, logger)

	eventWatcher := eventlog.NewWatcher(eventlog.NewPlatformAPI(), logger)

	opts := []monitor.Option{monitor.WithBuffer(a.buffer)}

	store, err := storage.NewStore(cfg.Storage.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("opening crash history: %w", err)
	}
	a.store = store
	opts = append(opts, monitor.WithHistory(store))

	if cfg.LogLite.Enabled {
		a.client = loglite.Dial(cfg.LogLite.Server, logger)
		if a.client.Connected() {
			logger.Info("Forwarding crashes to LogLite viewer",
				logger.Args("server", cfg.LogLite.Server))
		}
		opts = append(opts, monitor.WithForwarder(a.client))
	}

	notifier := notify.NewPlatformNotifier(cfg.Notifications.SystemNotify, logger)
	opts = append(opts, monitor.WithNotifier(notifier))

	a.monitor = monitor.New(cfg, a.sink, logger, tracker, tailer, eventWatcher, opts...)
	return a, nil
}

// shutdown stops the watchers and flushes the crash history. Safe to
// call on a monitor that was never started.
func (a *app) shutdown() {
	a.monitor.Stop()
	a.monitor.Wait()
	if a.client != nil {
		a.client.Close()
	}
	if a.store != nil {
		if dropped := a.store.DroppedWrites(); dropped > 0 {
			a.logger.Warn("Crash history dropped writes during this session",
				a.logger.Args("dropped", dropped))
		}
		if err := a.store.Close(); err != nil {
			a.logger.Error("Failed to close crash history", a.logger.Args("error", err))
		}
	}
}
