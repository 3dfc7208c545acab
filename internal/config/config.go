// Package config reads service settings from the environment.
// Callers load an optional .env file with godotenv before calling Load.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings holds every tunable of the position pipeline and its binaries.
type Settings struct {
	// Upstream tracking API.
	BaseURL        string
	User           string
	Password       string
	TokenFile      string
	TimezoneOffset string
	RequestTimeout time.Duration

	// Position cache.
	CacheBackend string
	CacheDir     string
	CacheTTL     time.Duration
	RedisAddr    string
	RedisPass    string
	RedisDB      int

	// Geofencing.
	AntiFlapGraceMeters float64
	ParksSource         string
	ParksFile           string
	DatabaseURL         string
	DBPath              string

	// Batch driver and HTTP surface.
	BatchConcurrency int
	BatchMax         int
	Port             string
}

// Load reads Settings from the environment, falling back to defaults for
// missing or unparsable values.
func Load() Settings {
	return Settings{
		BaseURL:        strings.TrimRight(Get("UMP_BASE_URL", "http://ump.piteravto.ru"), "/"),
		User:           os.Getenv("UMP_USER"),
		Password:       os.Getenv("UMP_PASS"),
		TokenFile:      Get("UMP_TOKEN_FILE", "var/ump_token.txt"),
		TimezoneOffset: Get("UMP_TIMEZONE_OFFSET", "180"),
		RequestTimeout: GetSeconds("REQUEST_TIMEOUT", 20*time.Second),

		CacheBackend: strings.ToLower(Get("CACHE_BACKEND", "file")),
		CacheDir:     Get("CACHE_DIR", "var/cache"),
		CacheTTL:     GetSeconds("CACHE_TTL", 120*time.Second),
		RedisAddr:    Get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:    os.Getenv("REDIS_PASS"),
		RedisDB:      GetInt("REDIS_DB", 0),

		AntiFlapGraceMeters: GetFloat("ANTI_FLAP_GRACE_M", 3),
		ParksSource:         strings.ToLower(Get("PARKS_SOURCE", "file")),
		ParksFile:           Get("PARKS_FILE", "data/parks.json"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		DBPath:              Get("DB_PATH", "data/app.db"),

		BatchConcurrency: GetInt("BATCH_CONCURRENCY", 1),
		BatchMax:         GetInt("BATCH_MAX", 50),
		Port:             Get("PORT", "8080"),
	}
}

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func GetFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return fallback
	}
	return f
}

// GetSeconds reads a (possibly fractional) number of seconds.
func GetSeconds(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return time.Duration(f * float64(time.Second))
}
