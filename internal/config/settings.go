package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Getter is an interface for looking up raw setting values
type Getter interface {
	Lookup(key string) (string, bool)
}

// EnvGetter reads settings from environment variables. A key such as
// "log.max_size_mb" maps to PREFIX_LOG_MAX_SIZE_MB.
type EnvGetter struct {
	Prefix string
}

// Lookup implements Getter
func (e EnvGetter) Lookup(key string) (string, bool) {
	return os.LookupEnv(e.envName(key))
}

func (e EnvGetter) envName(key string) string {
	name := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	if e.Prefix == "" {
		return name
	}
	return e.Prefix + "_" + name
}

// MapGetter serves settings from a map
type MapGetter map[string]string

// Lookup implements Getter
func (m MapGetter) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Loader provides typed access to settings with default values
type Loader struct {
	src Getter
}

// NewLoader creates a new settings loader
func NewLoader(src Getter) *Loader {
	return &Loader{src: src}
}

func (l *Loader) get(key string) string {
	if l == nil || l.src == nil {
		return ""
	}
	val, _ := l.src.Lookup(key)
	return strings.TrimSpace(val)
}

// Int retrieves an integer setting, returning defaultVal if not found or invalid
func (l *Loader) Int(key string, defaultVal int) int {
	if val := l.get(key); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			return v
		}
	}
	return defaultVal
}

// Bool retrieves a boolean setting, returning defaultVal if not found or invalid
func (l *Loader) Bool(key string, defaultVal bool) bool {
	if val := l.get(key); val != "" {
		if v, err := strconv.ParseBool(val); err == nil {
			return v
		}
	}
	return defaultVal
}

// String retrieves a string setting, returning defaultVal if not found or empty
func (l *Loader) String(key, defaultVal string) string {
	if val := l.get(key); val != "" {
		return val
	}
	return defaultVal
}

// Duration retrieves a duration setting, returning defaultVal if not found or invalid
// Expects the value to be in Go duration format (e.g., "1h30m", "5s")
func (l *Loader) Duration(key string, defaultVal time.Duration) time.Duration {
	if val := l.get(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
