package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	TMDB     TMDBConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Queue    QueueConfig
	Identity IdentityConfig
	Backfill BackfillConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	CORSOrigins []string
}

type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	// Timeout of zero leaves outbound calls without a local deadline.
	Timeout time.Duration
}

type StoreConfig struct {
	Driver string // mongo, postgres or memory
}

type MongoConfig struct {
	URI      string
	Database string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type QueueConfig struct {
	URL string
}

type IdentityConfig struct {
	Secret string
	Issuer string
}

type BackfillConfig struct {
	Concurrency int
}

type TracingConfig struct {
	Exporter    string // none, stdout or otlp
	Endpoint    string // OTLP/HTTP collector URL
	Insecure    bool
	SampleRatio float64
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "movie-explorer")
	viper.SetDefault("PORT", "5000")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p")
	viper.SetDefault("TMDB_TIMEOUT", "0s")
	viper.SetDefault("STORE_DRIVER", "mongo")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "movie_explorer")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("BACKFILL_CONCURRENCY", 8)
	viper.SetDefault("TRACE_EXPORTER", "none")
	viper.SetDefault("TRACE_SAMPLE_RATIO", 1.0)

	// .env is optional; the environment alone is enough in containers
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        viper.GetString("APP_NAME"),
			Port:        viper.GetString("PORT"),
			Debug:       viper.GetBool("DEBUG"),
			LogPath:     viper.GetString("LOG_PATH"),
			CORSOrigins: splitList(viper.GetString("CORS_ORIGINS")),
		},
		TMDB: TMDBConfig{
			APIKey:       viper.GetString("TMDB_API_KEY"),
			BaseURL:      viper.GetString("TMDB_BASE_URL"),
			ImageBaseURL: viper.GetString("TMDB_IMAGE_BASE_URL"),
			Timeout:      viper.GetDuration("TMDB_TIMEOUT"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(viper.GetString("STORE_DRIVER")),
		},
		Mongo: MongoConfig{
			URI:      viper.GetString("MONGO_URI"),
			Database: viper.GetString("MONGO_DB"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Queue: QueueConfig{
			URL: viper.GetString("AMQP_URL"),
		},
		Identity: IdentityConfig{
			Secret: viper.GetString("IDENTITY_JWT_SECRET"),
			Issuer: viper.GetString("IDENTITY_ISSUER"),
		},
		Backfill: BackfillConfig{
			Concurrency: viper.GetInt("BACKFILL_CONCURRENCY"),
		},
		Tracing: TracingConfig{
			Exporter:    strings.ToLower(viper.GetString("TRACE_EXPORTER")),
			Endpoint:    viper.GetString("TRACE_ENDPOINT"),
			Insecure:    viper.GetBool("TRACE_INSECURE"),
			SampleRatio: viper.GetFloat64("TRACE_SAMPLE_RATIO"),
		},
	}

	if config.Identity.Secret == "" {
		return nil, errors.New("IDENTITY_JWT_SECRET is required")
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
