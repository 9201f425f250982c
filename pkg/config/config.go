package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	CORS      CORSConfig
	Log       LogConfig
	Sheet     SheetConfig
	Templates TemplatesConfig
	Workers   WorkersConfig
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

// AuthConfig drives the single-admin login flow. When AdminPasswordHash is
// set it is compared with bcrypt; otherwise AdminPassword is compared in
// constant time.
type AuthConfig struct {
	AdminPassword     string
	AdminPasswordHash string
	JWTSecret         string
	JWTExpiration     time.Duration
	Issuer            string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SheetConfig describes where the availability data lives inside an uploaded
// worksheet. Row and column indices are 1-based rows / 0-based columns to
// match the layout of the source rota spreadsheets; the defaults must not
// change without coordinating with whoever maintains those templates.
type SheetConfig struct {
	HeaderRow    int
	DataStartRow int
	NameColumn   int
	TimeColumns  []int
	Timezone     string
}

// TemplatesConfig controls uploaded template storage and download links.
type TemplatesConfig struct {
	StorageDir       string
	MaxFileSizeBytes int64
	SignedURLSecret  string
	SignedURLTTL     time.Duration
}

// WorkersConfig tunes the worker listing cache.
type WorkersConfig struct {
	CacheTTL time.Duration
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

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

	cfg.Auth = AuthConfig{
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTExpiration:     parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:            v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Sheet = SheetConfig{
		HeaderRow:    v.GetInt("SHEET_HEADER_ROW"),
		DataStartRow: v.GetInt("SHEET_DATA_ROW"),
		NameColumn:   v.GetInt("SHEET_NAME_COLUMN"),
		TimeColumns:  splitInts(v.GetString("SHEET_TIME_COLUMNS")),
		Timezone:     v.GetString("SHEET_TIMEZONE"),
	}

	maxUploadSize := v.GetInt64("TEMPLATES_MAX_FILE_SIZE")
	if maxUploadSize <= 0 {
		maxUploadSize = 10 * 1024 * 1024
	}
	cfg.Templates = TemplatesConfig{
		StorageDir:       v.GetString("TEMPLATES_STORAGE_DIR"),
		MaxFileSizeBytes: maxUploadSize,
		SignedURLSecret:  v.GetString("TEMPLATES_SIGNED_URL_SECRET"),
		SignedURLTTL:     parseDuration(v.GetString("TEMPLATES_SIGNED_URL_TTL"), 30*time.Minute),
	}

	cfg.Workers = WorkersConfig{
		CacheTTL: parseDuration(v.GetString("WORKERS_CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "staff_rota")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "rota-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	// Layout of the weekly rota workbooks: the week date sits somewhere on
	// row 22, data rows start at 24, names in column B, times in D/E/F.
	v.SetDefault("SHEET_HEADER_ROW", 22)
	v.SetDefault("SHEET_DATA_ROW", 24)
	v.SetDefault("SHEET_NAME_COLUMN", 1)
	v.SetDefault("SHEET_TIME_COLUMNS", "3,4,5")
	v.SetDefault("SHEET_TIMEZONE", "Europe/London")

	v.SetDefault("TEMPLATES_STORAGE_DIR", "./uploaded_templates")
	v.SetDefault("TEMPLATES_MAX_FILE_SIZE", 10*1024*1024)
	v.SetDefault("TEMPLATES_SIGNED_URL_SECRET", "dev_templates_secret")
	v.SetDefault("TEMPLATES_SIGNED_URL_TTL", "30m")

	v.SetDefault("WORKERS_CACHE_TTL", "5m")
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

func splitInts(raw string) []int {
	var result []int
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		n := 0
		for _, r := range trimmed {
			if r < '0' || r > '9' {
				n = -1
				break
			}
			n = n*10 + int(r-'0')
		}
		if n >= 0 {
			result = append(result, n)
		}
	}
	return result
}
