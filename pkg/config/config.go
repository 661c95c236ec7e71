package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Catalog sources understood by CATALOG_SOURCE.
const (
	CatalogSourceFile     = "file"
	CatalogSourcePostgres = "postgres"
)

const dateLayout = "2006-01-02"

type Config struct {
	Env string

	Semester SemesterConfig
	Planner  PlannerConfig
	Catalog  CatalogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	Export   ExportConfig
}

// SemesterConfig anchors week arithmetic.
type SemesterConfig struct {
	Start time.Time
}

// PlannerConfig tunes the schedule search.
type PlannerConfig struct {
	MaxSchedules  int
	SearchBudget  int
	SurveyWorkers int
}

// CatalogConfig selects where section offerings are read from and how they are cached.
type CatalogConfig struct {
	Source       string
	Path         string
	CacheEnabled bool
	CacheTTL     time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

// ExportConfig controls where rendered schedules are written.
type ExportConfig struct {
	Dir      string
	Timezone string
	Formats  []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}
	cfg.Env = v.GetString("ENV")

	cfg.Semester = SemesterConfig{
		Start: parseDate(v.GetString("SEMESTER_START"), time.Date(2026, time.February, 23, 0, 0, 0, 0, time.Local)),
	}

	cfg.Planner = PlannerConfig{
		MaxSchedules:  v.GetInt("PLANNER_MAX_SCHEDULES"),
		SearchBudget:  v.GetInt("PLANNER_SEARCH_BUDGET"),
		SurveyWorkers: v.GetInt("PLANNER_SURVEY_WORKERS"),
	}

	cfg.Catalog = CatalogConfig{
		Source:       strings.ToLower(strings.TrimSpace(v.GetString("CATALOG_SOURCE"))),
		Path:         v.GetString("CATALOG_PATH"),
		CacheEnabled: v.GetBool("ENABLE_CATALOG_CACHE"),
		CacheTTL:     parseDuration(v.GetString("CATALOG_CACHE_TTL"), time.Hour),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Export = ExportConfig{
		Dir:      v.GetString("EXPORT_DIR"),
		Timezone: v.GetString("EXPORT_TIMEZONE"),
		Formats:  splitAndTrim(v.GetString("EXPORT_FORMATS")),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("SEMESTER_START", "2026-02-23")

	v.SetDefault("PLANNER_MAX_SCHEDULES", 10)
	v.SetDefault("PLANNER_SEARCH_BUDGET", 0)
	v.SetDefault("PLANNER_SURVEY_WORKERS", 4)

	v.SetDefault("CATALOG_SOURCE", CatalogSourceFile)
	v.SetDefault("CATALOG_PATH", "./catalog.json")
	v.SetDefault("ENABLE_CATALOG_CACHE", false)
	v.SetDefault("CATALOG_CACHE_TTL", "1h")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 4)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("EXPORT_TIMEZONE", "Europe/Bucharest")
	v.SetDefault("EXPORT_FORMATS", "csv,pdf,xlsx,ics")
}

func parseDate(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(raw), time.Local)
	if err != nil {
		return fallback
	}

	return d
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
