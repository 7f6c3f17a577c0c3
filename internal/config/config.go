package config

// EnvPrefix prefixes every environment variable the application reads
const EnvPrefix = "QAFORUM"

// Defaults
const (
	DefaultDBPath           = "./questions.db"
	DefaultListen           = "127.0.0.1:8080"
	DefaultLogLevel         = "info"
	DefaultOptimizeSchedule = "@daily"
)

// LogConfig controls the rotating log file
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Config is the resolved application configuration
type Config struct {
	DBPath           string
	Listen           string
	AllowSubnet      string
	OptimizeSchedule string
	Log              LogConfig
	Timeouts         TimeoutConfig
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		DBPath:           DefaultDBPath,
		Listen:           DefaultListen,
		OptimizeSchedule: DefaultOptimizeSchedule,
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Timeouts: DefaultTimeoutConfig(),
	}
}

// Apply overrides cfg with values from the loader. Keys reported by
// explicit (flags the user set on the command line) are left alone.
func Apply(cfg Config, l *Loader, explicit func(key string) bool) Config {
	if explicit == nil {
		explicit = func(string) bool { return false }
	}

	str := func(key string, dst *string) {
		if !explicit(key) {
			*dst = l.String(key, *dst)
		}
	}

	str("db", &cfg.DBPath)
	str("listen", &cfg.Listen)
	str("allow-subnet", &cfg.AllowSubnet)
	str("optimize-schedule", &cfg.OptimizeSchedule)
	str("log-level", &cfg.Log.Level)
	str("log-file", &cfg.Log.File)

	cfg.Log.MaxSizeMB = positive(l.Int("log.max_size_mb", cfg.Log.MaxSizeMB), cfg.Log.MaxSizeMB)
	cfg.Log.MaxBackups = nonNegative(l.Int("log.max_backups", cfg.Log.MaxBackups), cfg.Log.MaxBackups)
	cfg.Log.MaxAgeDays = nonNegative(l.Int("log.max_age_days", cfg.Log.MaxAgeDays), cfg.Log.MaxAgeDays)
	cfg.Log.Compress = l.Bool("log.compress", cfg.Log.Compress)

	cfg.Timeouts.Read = l.Duration("http.read_timeout", cfg.Timeouts.Read)
	cfg.Timeouts.Write = l.Duration("http.write_timeout", cfg.Timeouts.Write)
	cfg.Timeouts.Idle = l.Duration("http.idle_timeout", cfg.Timeouts.Idle)
	cfg.Timeouts.Shutdown = l.Duration("http.shutdown_timeout", cfg.Timeouts.Shutdown)

	return cfg
}

func positive(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func nonNegative(v, fallback int) int {
	if v >= 0 {
		return v
	}
	return fallback
}
