package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Link previews
	PluginConfig  string        // path to the plugin options YAML (youtube_key)
	YouTubeKey    string        // fallback when the plugin file has no youtube_key
	PlatformOrder []string      // match priority, ex: bilibili,github,gitee,youtube
	UserAgent     string        // sent on every upstream API call
	GitTimeout    time.Duration // client timeout for GitHub and Gitee (default: 10s)
	BilibiliAPI   string        // override for tests/proxies, empty = public endpoint
	GitHubAPI     string
	GiteeAPI      string
	YouTubeAPI    string

	// Reply cache
	CacheEnabled bool          // false => every message is handled fully transiently
	CacheTTL     time.Duration // lifetime of a cached reply (default: 10m)

	// Redis (only used when CacheEnabled)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINKBOT_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LINKBOT_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LINKBOT_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINKBOT_PRETTY_LOG", true),

		// Link previews
		PluginConfig:  getenv("LINKBOT_PLUGIN_CONFIG", DefaultPluginConfig),
		YouTubeKey:    getenv("LINKBOT_YOUTUBE_KEY", ""),
		PlatformOrder: splitAndTrim(strings.ToLower(getenv("LINKBOT_PLATFORM_ORDER", ""))),
		UserAgent:     getenv("LINKBOT_USER_AGENT", "Mozilla/5.0"),
		GitTimeout:    mustDuration("LINKBOT_GIT_TIMEOUT", 10*time.Second),
		BilibiliAPI:   getenv("LINKBOT_BILIBILI_API", ""),
		GitHubAPI:     getenv("LINKBOT_GITHUB_API", ""),
		GiteeAPI:      getenv("LINKBOT_GITEE_API", ""),
		YouTubeAPI:    getenv("LINKBOT_YOUTUBE_API", ""),

		// Reply cache
		CacheEnabled: mustBool("LINKBOT_CACHE_ENABLED", false),
		CacheTTL:     mustDuration("LINKBOT_CACHE_TTL", 10*time.Minute),

		// Redis settings
		RedisUser:             getenv("LINKBOT_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("LINKBOT_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("LINKBOT_REDIS_PASSWORD", ""),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("LINKBOT_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("LINKBOT_TRUST_PROXY", false),
	}

	// Redis is only mandatory once the reply cache is switched on.
	if cfg.CacheEnabled {
		cfg.RedisAddr = requireEnv("LINKBOT_REDIS_ADDR")
		cfg.RedisDB = requireEnvInt("LINKBOT_REDIS_DB")

		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: LINKBOT_REDIS_PASSWORD is required when LINKBOT_REDIS_PASSWORD_REQUIRED=true")
		}
		if cfg.CacheTTL <= 0 {
			panic(fmt.Sprintf("❌ FATAL: LINKBOT_CACHE_TTL must be positive, got %s", cfg.CacheTTL))
		}
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		if cfg.YouTubeKey != "" {
			cfgCopy.YouTubeKey = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
