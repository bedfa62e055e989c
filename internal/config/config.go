package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage and session backends
const (
	DriverFile   = "file"
	DriverMongo  = "mongo"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env     string  `mapstructure:"env"`
	HTTP    HTTP    `mapstructure:"http"`
	Storage Storage `mapstructure:"storage"`
	Mongo   Mongo   `mapstructure:"mongo"`
	Session Session `mapstructure:"session"`
	Redis   Redis   `mapstructure:"redis"`
	CORS    CORS    `mapstructure:"cors"`
}

type HTTP struct {
	Port string `mapstructure:"port"`
}

// Storage selects where the question bank and game logs live.
type Storage struct {
	Driver        string `mapstructure:"driver"`         // file | mongo
	QuestionsPath string `mapstructure:"questions_path"` // question bank JSON file
	ResultsDir    string `mapstructure:"results_dir"`    // directory for games_<date>.json
}

type Mongo struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// Session configures the quiz session registry.
type Session struct {
	Driver        string        `mapstructure:"driver"` // memory | redis
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type Redis struct {
	Addr string `mapstructure:"addr"`
}

type CORS struct {
	AllowedOrigins string `mapstructure:"allowed_origins"`
	AllowedMethods string `mapstructure:"allowed_methods"`
	AllowedHeaders string `mapstructure:"allowed_headers"`
}

// Load reads configuration from an optional .env file, an optional
// config/config.yaml and environment variables, in increasing priority.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("http.port", "PORT")
	_ = v.BindEnv("mongo.uri", "MONGO_URI")
	_ = v.BindEnv("redis.addr", "REDIS_URI")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("http.port", "8080")

	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.questions_path", "data/questions.json")
	v.SetDefault("storage.results_dir", "results")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "quizbank")

	v.SetDefault("session.driver", DriverMemory)
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.sweep_interval", "5m")

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("cors.allowed_origins", "*")
	v.SetDefault("cors.allowed_methods", "GET, POST, PUT, DELETE, OPTIONS")
	v.SetDefault("cors.allowed_headers", "Content-Type, Authorization")
}

func (c *Config) normalize() error {
	// Remove redis:// prefix if present
	c.Redis.Addr = strings.TrimPrefix(c.Redis.Addr, "redis://")

	switch c.Storage.Driver {
	case DriverFile, DriverMongo:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Session.Driver {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("unknown session driver %q", c.Session.Driver)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Session.SweepInterval <= 0 {
		c.Session.SweepInterval = c.Session.TTL
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
