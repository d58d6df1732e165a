// Package server keeps the relay's runtime settings: listen port, browser
// origins allowed to open a room, and the optional per-connection limits.
package server

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultPort            = ":8080"
	defaultShutdownTimeout = 10 * time.Second
)

// RateLimitConfig caps how many messages one connection may publish.
// Up to Burst messages may be sent back to back; the allowance then
// recovers at Burst messages per RefillInterval. A zero Burst turns the
// limit off.
type RateLimitConfig struct {
	Burst          int
	RefillInterval time.Duration
}

// Enabled reports whether rate limiting is switched on.
func (rl RateLimitConfig) Enabled() bool {
	return rl.Burst > 0
}

// Config holds the relay settings.
//
// MaxMessageSize and RateLimit are off by default so that any message is
// relayed as received; operators opt in through the environment.
type Config struct {
	Port            string
	AllowedOrigins  []string
	MaxMessageSize  int64
	RateLimit       RateLimitConfig
	ShutdownTimeout time.Duration
}

// The active config is process-wide: clients read it when they connect and
// the upgrader reads the origin set on every handshake.
var (
	configMu        sync.RWMutex
	activeConfig    Config
	allowedOrigins  map[string]struct{}
	allowAllOrigins bool
)

func init() {
	SetConfig(nil)
}

func defaultConfig() Config {
	return Config{
		Port:            defaultPort,
		AllowedOrigins:  localOrigins(defaultPort),
		RateLimit:       RateLimitConfig{RefillInterval: time.Second},
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// localOrigins returns the origins of the built-in test page when it is
// opened from this machine on port.
func localOrigins(port string) []string {
	if !strings.HasPrefix(port, ":") {
		return nil
	}
	return []string{
		"http://localhost" + port,
		"http://127.0.0.1" + port,
	}
}

func sanitizeConfig(cfg Config) Config {
	defaults := defaultConfig()
	if cfg.Port == "" {
		cfg.Port = defaults.Port
	}
	cfg.MaxMessageSize = max(cfg.MaxMessageSize, 0)
	cfg.RateLimit.Burst = max(cfg.RateLimit.Burst, 0)
	if cfg.RateLimit.RefillInterval <= 0 {
		cfg.RateLimit.RefillInterval = defaults.RateLimit.RefillInterval
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	return cfg
}

// SetConfig installs cfg as the active config. Passing nil restores the
// defaults.
func SetConfig(cfg *Config) {
	next := defaultConfig()
	if cfg != nil {
		next = *cfg
		next.AllowedOrigins = append([]string(nil), cfg.AllowedOrigins...)
	}
	next = sanitizeConfig(next)

	origins, allowAll := normalizeOrigins(next.AllowedOrigins)
	next.AllowedOrigins = origins
	originSet := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		originSet[origin] = struct{}{}
	}

	configMu.Lock()
	defer configMu.Unlock()
	activeConfig = next
	allowedOrigins = originSet
	allowAllOrigins = allowAll
}

func currentConfig() Config {
	configMu.RLock()
	defer configMu.RUnlock()

	cfg := activeConfig
	cfg.AllowedOrigins = append([]string(nil), cfg.AllowedOrigins...)
	return cfg
}

// NewConfig returns the default settings.
func NewConfig() *Config {
	cfg := defaultConfig()
	return &cfg
}

// NewConfigFromEnv builds a Config from the environment. Unset or invalid
// variables keep their defaults.
//
//	SERVER_PORT                 port or host:port, "9090" means ":9090"
//	ALLOWED_ORIGINS             comma separated origins, "*" allows any
//	MAX_MESSAGE_SIZE            bytes per message, 0 means unlimited
//	RATE_LIMIT_BURST            messages per interval, 0 disables the limit
//	RATE_LIMIT_REFILL_INTERVAL  seconds
//	SHUTDOWN_TIMEOUT            seconds
//
// When ALLOWED_ORIGINS is unset the test page served on SERVER_PORT from
// localhost is allowed, so /test keeps working on a non-default port.
func NewConfigFromEnv() *Config {
	cfg := defaultConfig()

	if port := listenAddr(os.Getenv("SERVER_PORT")); port != "" {
		cfg.Port = port
		cfg.AllowedOrigins = localOrigins(port)
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}

	cfg.MaxMessageSize = int64(envCount("MAX_MESSAGE_SIZE", int(cfg.MaxMessageSize)))
	cfg.RateLimit.Burst = envCount("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.RefillInterval = envSeconds("RATE_LIMIT_REFILL_INTERVAL", cfg.RateLimit.RefillInterval)
	cfg.ShutdownTimeout = envSeconds("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	return &cfg
}

// listenAddr turns a bare port number into ":port" and leaves host:port as is.
func listenAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" || strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

// envCount reads a non-negative integer variable.
func envCount(name string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// envSeconds reads a positive number of seconds.
func envSeconds(name string, fallback time.Duration) time.Duration {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
