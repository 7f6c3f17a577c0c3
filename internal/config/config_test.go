package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApply_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("QAFORUM_DB", "/tmp/forum.db")
	t.Setenv("QAFORUM_LOG_MAX_SIZE_MB", "10")
	t.Setenv("QAFORUM_HTTP_READ_TIMEOUT", "3s")

	cfg := Apply(Default(), NewLoader(EnvGetter{Prefix: EnvPrefix}), nil)

	assert.Equal(t, "/tmp/forum.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
	assert.Equal(t, 3*time.Second, cfg.Timeouts.Read)
	assert.Equal(t, DefaultListen, cfg.Listen)
}

func TestApply_ExplicitFlagsWin(t *testing.T) {
	cfg := Default()
	cfg.DBPath = "from-flag.db"

	src := MapGetter{"db": "from-env.db", "listen": ":9000"}
	cfg = Apply(cfg, NewLoader(src), func(key string) bool { return key == "db" })

	assert.Equal(t, "from-flag.db", cfg.DBPath)
	assert.Equal(t, ":9000", cfg.Listen)
}

func TestApply_InvalidValuesKeepDefaults(t *testing.T) {
	src := MapGetter{
		"log.max_size_mb":   "-4",
		"log.max_backups":   "many",
		"log.compress":      "maybe",
		"http.idle_timeout": "forever",
	}
	cfg := Apply(Default(), NewLoader(src), nil)

	def := Default()
	assert.Equal(t, def.Log, cfg.Log)
	assert.Equal(t, def.Timeouts, cfg.Timeouts)
}

func TestEnvGetter_Names(t *testing.T) {
	assert.Equal(t, "QAFORUM_LOG_MAX_AGE_DAYS", EnvGetter{Prefix: "QAFORUM"}.envName("log.max_age_days"))
	assert.Equal(t, "OPTIMIZE_SCHEDULE", EnvGetter{}.envName("optimize-schedule"))
}

func TestLoader_NilSafe(t *testing.T) {
	var l *Loader
	assert.Equal(t, 7, l.Int("x", 7))
	assert.Equal(t, "d", l.String("x", "d"))
}
