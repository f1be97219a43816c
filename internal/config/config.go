// internal/config/config.go
package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Mongo     MongoConfig
	Storage   StorageConfig
	Drive     DriveConfig
	Assistant AssistantConfig
	Reporting ReportingConfig
}

type ServerConfig struct {
	Port           string
	IngestPort     string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StoreConfig selects the ledger backend: "memory" or "postgres".
type StoreConfig struct {
	Driver      string
	SeedOnStart bool
	FixtureSeed int64
	FixtureDays int
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConcurrency int64
}

// DSN builds a lib/pq style connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL builds a postgres:// connection URL for the pgx stdlib driver.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

type MongoConfig struct {
	Enabled    bool
	URI        string
	Database   string
	Collection string
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	Prefix    string
}

type DriveConfig struct {
	CredentialsFile string
	FolderID        string
	Workers         int
	PollSeconds     int
}

type AssistantConfig struct {
	Enabled bool
	APIKey  string
	Model   string
}

type ReportingConfig struct {
	RollupCron      string
	Timezone        string
	TopItemsLimit   int
	EditWindowHours int
	BusinessOpen    int
	BusinessClose   int
}

// EditWindow is the age after which inventory intakes become immutable.
func (c ReportingConfig) EditWindow() time.Duration {
	return time.Duration(c.EditWindowHours) * time.Hour
}

// Location resolves Timezone, falling back to UTC.
func (c ReportingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		setDefaults()
		viper.AutomaticEnv()

		instance = fromViper()
	})

	return instance
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("INGEST_PORT", "8081")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")

	viper.SetDefault("STORE_DRIVER", "memory")
	viper.SetDefault("STORE_SEED_ON_START", true)
	viper.SetDefault("FIXTURE_SEED", 42)
	viper.SetDefault("FIXTURE_DAYS", 60)

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_NAME", "cafe")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONCURRENCY", 4)

	viper.SetDefault("CACHE_ENABLED", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "127.0.0.1")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)

	viper.SetDefault("MONGO_ENABLED", false)
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "cafe")
	viper.SetDefault("MONGO_COLLECTION", "daily_summaries")

	viper.SetDefault("STORAGE_ENABLED", false)
	viper.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	viper.SetDefault("STORAGE_BUCKET", "cafe-reports")
	viper.SetDefault("STORAGE_REGION", "us-east-1")
	viper.SetDefault("STORAGE_USE_SSL", false)
	viper.SetDefault("STORAGE_PREFIX", "")

	viper.SetDefault("DRIVE_CREDENTIALS_FILE", "credentials.json")
	viper.SetDefault("DRIVE_WORKERS", 4)
	viper.SetDefault("DRIVE_POLL_SECONDS", 300)

	viper.SetDefault("ASSISTANT_ENABLED", false)
	viper.SetDefault("ASSISTANT_MODEL", "gemini-1.5-flash")

	viper.SetDefault("ROLLUP_CRON", "5 0 * * *")
	viper.SetDefault("REPORT_TIMEZONE", "Asia/Seoul")
	viper.SetDefault("TOP_ITEMS_LIMIT", 5)
	viper.SetDefault("EDIT_WINDOW_HOURS", 36)
	viper.SetDefault("BUSINESS_OPEN_HOUR", 7)
	viper.SetDefault("BUSINESS_CLOSE_HOUR", 22)
}

func fromViper() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			IngestPort:     viper.GetString("INGEST_PORT"),
			Mode:           viper.GetString("SERVER_MODE"),
			ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Store: StoreConfig{
			Driver:      viper.GetString("STORE_DRIVER"),
			SeedOnStart: viper.GetBool("STORE_SEED_ON_START"),
			FixtureSeed: viper.GetInt64("FIXTURE_SEED"),
			FixtureDays: viper.GetInt("FIXTURE_DAYS"),
		},
		Database: DatabaseConfig{
			Host:           viper.GetString("DB_HOST"),
			Port:           viper.GetString("DB_PORT"),
			User:           viper.GetString("DB_USER"),
			Password:       viper.GetString("DB_PASSWORD"),
			DBName:         viper.GetString("DB_NAME"),
			SSLMode:        viper.GetString("DB_SSLMODE"),
			MaxConcurrency: viper.GetInt64("DB_MAX_CONCURRENCY"),
		},
		Cache: CacheConfig{
			Enabled:             viper.GetBool("CACHE_ENABLED"),
			RedisURL:            viper.GetString("REDIS_URL"),
			RedisHost:           viper.GetString("REDIS_HOST"),
			RedisPort:           viper.GetString("REDIS_PORT"),
			RedisPassword:       viper.GetString("REDIS_PASSWORD"),
			RedisDB:             viper.GetInt("REDIS_DB"),
			DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
		},
		Mongo: MongoConfig{
			Enabled:    viper.GetBool("MONGO_ENABLED"),
			URI:        viper.GetString("MONGO_URI"),
			Database:   viper.GetString("MONGO_DATABASE"),
			Collection: viper.GetString("MONGO_COLLECTION"),
		},
		Storage: StorageConfig{
			Enabled:   viper.GetBool("STORAGE_ENABLED"),
			Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
			AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
			Bucket:    viper.GetString("STORAGE_BUCKET"),
			Region:    viper.GetString("STORAGE_REGION"),
			UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			Prefix:    viper.GetString("STORAGE_PREFIX"),
		},
		Drive: DriveConfig{
			CredentialsFile: viper.GetString("DRIVE_CREDENTIALS_FILE"),
			FolderID:        viper.GetString("DRIVE_FOLDER_ID"),
			Workers:         viper.GetInt("DRIVE_WORKERS"),
			PollSeconds:     viper.GetInt("DRIVE_POLL_SECONDS"),
		},
		Assistant: AssistantConfig{
			Enabled: viper.GetBool("ASSISTANT_ENABLED"),
			APIKey:  viper.GetString("GEMINI_API_KEY"),
			Model:   viper.GetString("ASSISTANT_MODEL"),
		},
		Reporting: ReportingConfig{
			RollupCron:      viper.GetString("ROLLUP_CRON"),
			Timezone:        viper.GetString("REPORT_TIMEZONE"),
			TopItemsLimit:   viper.GetInt("TOP_ITEMS_LIMIT"),
			EditWindowHours: viper.GetInt("EDIT_WINDOW_HOURS"),
			BusinessOpen:    viper.GetInt("BUSINESS_OPEN_HOUR"),
			BusinessClose:   viper.GetInt("BUSINESS_CLOSE_HOUR"),
		},
	}
}
