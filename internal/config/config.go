package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr        string
	APIBaseURL        string
	APITimeout        time.Duration
	DBPath            string
	CacheBackend      string
	RedisAddr         string
	CacheTTL          time.Duration
	MediaCachePath    string
	MediaHosts        []string
	CookieSecure      bool
	LoginRatePerMin   int
	ActivityRetention time.Duration
	LogLevel          string
	LogFile           string
	LogFormat         string
}

// Load reads the configuration from the environment. When ENV_FILE (default
// ".env") exists its variables are loaded first; variables already set in the
// environment win.
func Load() *Config {
	loadEnvFile(getEnv("ENV_FILE", ".env"))

	return &Config{
		ListenAddr:        getEnv("LISTEN_ADDR", ":8080"),
		APIBaseURL:        strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000/api"), "/"),
		APITimeout:        durationEnv("API_TIMEOUT", 15*time.Second),
		DBPath:            getEnv("DB_PATH", "/data/edulife-admin.db"),
		CacheBackend:      getEnv("CACHE_BACKEND", "memory"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:          durationEnv("CACHE_TTL", time.Minute),
		MediaCachePath:    getEnv("MEDIA_CACHE_PATH", "/data/media"),
		MediaHosts:        listEnv("MEDIA_HOSTS", "localhost,api.edulifeitschool.com"),
		CookieSecure:      boolEnv("COOKIE_SECURE", false),
		LoginRatePerMin:   intEnv("LOGIN_RATE_PER_MIN", 10),
		ActivityRetention: durationEnv("ACTIVITY_RETENTION", 90*24*time.Hour),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFile:           getEnv("LOG_FILE", ""),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
	}
}

func loadEnvFile(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		slog.Warn("failed to load env file", "path", path, "error", err)
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists || val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		slog.Warn("invalid duration, using fallback", "key", key, "value", val, "fallback", fallback)
		return fallback
	}
	return d
}

func intEnv(key string, fallback int) int {
	val, exists := os.LookupEnv(key)
	if !exists || val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("invalid int, using fallback", "key", key, "value", val, "fallback", fallback)
		return fallback
	}
	return n
}

func boolEnv(key string, fallback bool) bool {
	val, exists := os.LookupEnv(key)
	if !exists || val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		slog.Warn("invalid bool, using fallback", "key", key, "value", val, "fallback", fallback)
		return fallback
	}
	return b
}

func listEnv(key, defaultVal string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultVal), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
