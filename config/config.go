package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// AppConfig holds environment driven configuration values.
type AppConfig struct {
	AppPort            string
	RateLimitPerMinute int
	AllowedOrigins     []string
	FrontendURL        string
	// Timezone names the IANA zone that decides what "today" is. Empty means the host zone.
	Timezone string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Database: DBDriver is one of sqlite, mysql, postgres
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	SQLitePath  string
	// Redis summary cache
	RedisEnabled    bool
	RedisHost       string
	RedisPort       int
	RedisDB         int
	RedisPassword   string
	CacheTTLSeconds int
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Midnight rollover job
	CronEnabled      bool
	CronRolloverSpec string
}

// Path is the JSON config file read by Load. The CLI may point it elsewhere before loading.
var Path = filepath.Join("config", "config.json")

var devOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"http://localhost:3000",
	"http://localhost:8080",
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	c, err := Reload(Path)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return c
}

// Reload reads .env and the config file at path again and caches the result.
func Reload(path string) (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("ignoring .env: %v", err)
	}
	c, err := build(path)
	if err != nil {
		return c, err
	}
	cfg = c
	loaded = true
	return cfg, nil
}

// build applies config file -> defaults -> environment variable overrides.
func build(path string) (AppConfig, error) {
	var c AppConfig
	if err := loadJSONConfig(path, &c); err != nil {
		log.Printf("invalid %s: %v", path, err)
	}
	applyDefaults(&c)
	applyEnvOverrides(&c)
	resolveOrigins(&c)
	return c, c.Validate()
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Set replaces the cached configuration. Tests and the CLI use it to bypass file loading.
func Set(c AppConfig) {
	cfg = c
	loaded = true
}

// Location resolves Timezone, falling back to the host zone.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// CacheTTL is the lifetime of cached summary responses.
func (c AppConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Validate reports every problem at once.
func (c AppConfig) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.AppPort); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %q", c.AppPort))
	}
	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		problems = append(problems, fmt.Sprintf("invalid db driver %q: must be sqlite, mysql or postgres", c.DBDriver))
	}
	if c.DBDriver == "sqlite" && c.SQLitePath == "" && c.DatabaseURI == "" {
		problems = append(problems, "sqlite driver needs SQLITE_PATH or DATABASE_URI")
	}
	if c.Timezone != "" && !strings.EqualFold(c.Timezone, "local") {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			problems = append(problems, fmt.Sprintf("invalid timezone %q", c.Timezone))
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "dpanic", "panic", "fatal", "silent":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level %q", c.LogLevel))
	}
	if c.CronEnabled {
		if _, err := cron.ParseStandard(c.CronRolloverSpec); err != nil {
			problems = append(problems, fmt.Sprintf("invalid cron spec %q: %v", c.CronRolloverSpec, err))
		}
	}
	if c.RateLimitPerMinute < 1 {
		problems = append(problems, "rate limit must be at least 1 request per minute")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadJSONConfig reads grouped sections into out. A missing file is not an error.
func loadJSONConfig(path string, out *AppConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var raw map[string]any
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return err
	}

	getString := func(m map[string]any, key string) string {
		if s, ok := m[key].(string); ok {
			return s
		}
		return ""
	}
	getInt := func(m map[string]any, key string) int {
		if f, ok := m[key].(float64); ok {
			return int(f)
		}
		return 0
	}
	getBool := func(m map[string]any, key string) bool {
		b, _ := m[key].(bool)
		return b
	}
	getStringSlice := func(m map[string]any, key string) []string {
		arr, ok := m[key].([]any)
		if !ok {
			return nil
		}
		res := make([]string, 0, len(arr))
		for _, it := range arr {
			if s, ok := it.(string); ok {
				res = append(res, s)
			}
		}
		return res
	}

	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.RateLimitPerMinute = getInt(app, "RateLimitPerMinute")
		out.AllowedOrigins = getStringSlice(app, "AllowedOrigins")
		out.FrontendURL = getString(app, "FrontendURL")
		out.Timezone = getString(app, "Timezone")
	}

	if g, ok := raw["gin"].(map[string]any); ok {
		out.GinMode = getString(g, "Mode")
		out.GinPath = getString(g, "LogPath")
	}

	if dbs, ok := raw["database"].(map[string]any); ok {
		out.DBDriver = getString(dbs, "Driver")
		out.DatabaseURI = getString(dbs, "DatabaseURI")
		out.DBHost = getString(dbs, "DBHost")
		out.DBPort = getString(dbs, "DBPort")
		out.DBUser = getString(dbs, "DBUser")
		out.DBPassword = getString(dbs, "DBPassword")
		out.DBName = getString(dbs, "DBName")
		out.SQLitePath = getString(dbs, "SQLitePath")
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		out.RedisEnabled = getBool(rds, "Enabled")
		out.RedisHost = getString(rds, "RedisHost")
		out.RedisPort = getInt(rds, "RedisPort")
		out.RedisDB = getInt(rds, "RedisDB")
		out.RedisPassword = getString(rds, "RedisPassword")
		out.CacheTTLSeconds = getInt(rds, "CacheTTLSeconds")
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		out.LogLevel = getString(lg, "Level")
		out.LogPath = getString(lg, "Path")
		out.LogMaxSizeMB = getInt(lg, "MaxSizeMB")
		out.LogMaxBackups = getInt(lg, "MaxBackups")
		out.LogMaxAgeDays = getInt(lg, "MaxAgeDays")
		out.LogCompress = getBool(lg, "Compress")
	}

	if cr, ok := raw["cron"].(map[string]any); ok {
		out.CronEnabled = getBool(cr, "Enabled")
		out.CronRolloverSpec = getString(cr, "RolloverSpec")
	}
	return nil
}

// applyDefaults fills zero values.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "5001"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if c.GinMode == "" {
		c.GinMode = "debug"
	}
	if c.DBDriver == "" {
		c.DBDriver = "sqlite"
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "nourish.db"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBName == "" {
		c.DBName = "nourish"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = 3600
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.CronRolloverSpec == "" {
		c.CronRolloverSpec = "0 0 * * *"
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = splitAndTrim(v)
	}
	if v := getEnv("FRONTEND_URL", ""); v != "" {
		c.FrontendURL = v
	}
	if v := getEnv("TIMEZONE", ""); v != "" {
		c.Timezone = v
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("DB_DRIVER", ""); v != "" {
		c.DBDriver = strings.ToLower(v)
	}
	if v := getEnv("DATABASE_URI", ""); v != "" {
		c.DatabaseURI = v
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		c.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		c.DBPort = v
	}
	if v := getEnv("DB_USER", ""); v != "" {
		c.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		c.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		c.DBName = v
	}
	if v := getEnv("SQLITE_PATH", ""); v != "" {
		c.SQLitePath = v
	}
	if v := getEnv("REDIS_ENABLED", ""); v != "" {
		c.RedisEnabled = parseBool(v)
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("CACHE_TTL_SECONDS", ""); v != "" {
		c.CacheTTLSeconds = mustParseInt(v)
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = parseBool(v)
	}
	if v := getEnv("CRON_ENABLED", ""); v != "" {
		c.CronEnabled = parseBool(v)
	}
	if v := getEnv("CRON_ROLLOVER_SPEC", ""); v != "" {
		c.CronRolloverSpec = v
	}
}

// resolveOrigins picks the CORS allow-list when none was configured: every
// origin once deployed, the local dev servers otherwise.
func resolveOrigins(c *AppConfig) {
	if len(c.AllowedOrigins) > 0 {
		return
	}
	if c.FrontendURL != "" || strings.EqualFold(c.GinMode, "release") {
		c.AllowedOrigins = []string{"*"}
		return
	}
	c.AllowedOrigins = append([]string(nil), devOrigins...)
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func parseBool(val string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(val))
	return err == nil && b
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
