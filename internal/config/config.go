package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the crash monitor. A missing or broken
// config file never stops the monitor: loading falls back to defaults
// and reports what it had to ignore as warnings.
type Config struct {
	CheckInterval           int      `toml:"check_interval"`
	LogFileInterval         int      `toml:"log_file_interval"`
	EventLogInterval        int      `toml:"event_log_interval"`
	ProcessNames            []string `toml:"process_names"`
	CrashDetectionThreshold int      `toml:"crash_detection_threshold"`
	EnableProcessMonitor    bool     `toml:"enable_process_monitoring"`
	EnableLogFileMonitor    bool     `toml:"enable_log_file_monitoring"`
	EnableEventLogMonitor   bool     `toml:"enable_event_log_monitoring"`
	OutputFile              string   `toml:"output_file"`
	WatchDirs               []string `toml:"watch_dirs"`
	ExcludeFiles            []string `toml:"exclude_files"`
	ExcludePatterns         []string `toml:"exclude_patterns"`

	LogLite       LogLiteConfig      `toml:"loglite"`
	Storage       StorageConfig      `toml:"storage"`
	Notifications NotificationConfig `toml:"notifications"`
}

type LogLiteConfig struct {
	Enabled bool   `toml:"enabled"`
	Server  string `toml:"server"`
}

type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

type NotificationConfig struct {
	SystemNotify bool `toml:"system_notify"`
}

type LoadResult struct {
	Config   Config
	Warnings []string
}

func Default() Config {
	return Config{
		CheckInterval:           5,
		LogFileInterval:         10,
		EventLogInterval:        30,
		ProcessNames:            []string{"ExeFile.exe", "eve.exe"},
		CrashDetectionThreshold: 30,
		EnableProcessMonitor:    true,
		EnableLogFileMonitor:    true,
		EnableEventLogMonitor:   true,
		OutputFile:              filepath.Join("logs", "eve_crash_log.txt"),
		ExcludeFiles:            []string{"eve_crash_monitor.log", "eve_crash_log.txt"},
		ExcludePatterns:         []string{"eve_crash_monitor.log", "eve_crash_log.txt"},
		LogLite: LogLiteConfig{
			Server: "127.0.0.1",
		},
		Storage: StorageConfig{
			DBPath: filepath.Join("logs", "crash_history.db"),
		},
		Notifications: NotificationConfig{
			SystemNotify: true,
		},
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "evewatch", "config.toml")
}

// Load reads the config file named by EVEWATCH_CONFIG, falling back to
// ~/.config/evewatch/config.toml. A .env file in the working directory
// is applied first if present.
func Load() *LoadResult {
	_ = godotenv.Load()

	path := os.Getenv("EVEWATCH_CONFIG")
	if path == "" {
		path = defaultConfigPath()
	}
	return LoadFrom(path)
}

// LoadFrom reads a TOML config file. Keys absent from the file keep
// their defaults. Unknown keys, parse errors, and out-of-range values
// produce warnings, never errors.
func LoadFrom(path string) *LoadResult {
	result := &LoadResult{Config: Default()}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("reading config file: %v", err))
		}
		return result
	}

	md, err := toml.Decode(string(data), &result.Config)
	if err != nil {
		result.Config = Default()
		result.Warnings = append(result.Warnings, fmt.Sprintf("parsing config file, using defaults: %v", err))
		return result
	}

	for _, key := range md.Undecoded() {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unknown config key: %q", key.String()))
	}

	sanitize(result)
	return result
}

// sanitize clamps out-of-range values back to their defaults so the
// monitor always starts with a usable configuration.
func sanitize(result *LoadResult) {
	cfg := &result.Config
	def := Default()

	clampInt := func(name string, field *int, defVal int) {
		if *field < 1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s must be positive, got %d; using default %d", name, *field, defVal))
			*field = defVal
		}
	}
	clampInt("check_interval", &cfg.CheckInterval, def.CheckInterval)
	clampInt("log_file_interval", &cfg.LogFileInterval, def.LogFileInterval)
	clampInt("event_log_interval", &cfg.EventLogInterval, def.EventLogInterval)
	clampInt("crash_detection_threshold", &cfg.CrashDetectionThreshold, def.CrashDetectionThreshold)

	if len(cfg.ProcessNames) == 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("process_names must not be empty; using default %v", def.ProcessNames))
		cfg.ProcessNames = def.ProcessNames
	}
	if strings.TrimSpace(cfg.OutputFile) == "" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("output_file must not be empty; using default %q", def.OutputFile))
		cfg.OutputFile = def.OutputFile
	}
	if cfg.LogLite.Enabled && strings.TrimSpace(cfg.LogLite.Server) == "" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("loglite server must not be empty; using default %q", def.LogLite.Server))
		cfg.LogLite.Server = def.LogLite.Server
	}
	if strings.TrimSpace(cfg.Storage.DBPath) == "" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("storage db_path must not be empty; using default %q", def.Storage.DBPath))
		cfg.Storage.DBPath = def.Storage.DBPath
	}
}
