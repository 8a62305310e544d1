package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config captures all runtime configuration for the companion service.
type Config struct {
	App     AppConfig     `yaml:"app"`
	HTTP    HTTPConfig    `yaml:"http"`
	API     APIConfig     `yaml:"api"`
	Poll    PollConfig    `yaml:"poll"`
	Session SessionConfig `yaml:"session"`
	Redis   RedisConfig   `yaml:"redis"`
	Server  ServerConfig  `yaml:"server"`
}

// AppConfig holds environment and presentation settings.
type AppConfig struct {
	Env      string `yaml:"env"`
	Locale   string `yaml:"locale"`
	Timezone string `yaml:"timezone"`
}

// HTTPConfig holds HTTP server related configuration.
type HTTPConfig struct {
	Port string `yaml:"port"`
}

// APIConfig points at the HeartLink API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// PollConfig holds conversation refresh settings.
type PollConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// SessionConfig selects where the bearer credential is kept.
type SessionConfig struct {
	Store string `yaml:"store"`
	Key   string `yaml:"key"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ServerConfig stores general server runtime configuration.
type ServerConfig struct {
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Session store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

const minPollInterval = time.Second

// Load builds configuration from, in increasing priority, built-in defaults,
// the YAML file named by HEARTLINK_CONFIG_FILE, .env files and the process
// environment.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := defaults()

	if path := os.Getenv("HEARTLINK_CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Poll.Interval < minPollInterval {
		cfg.Poll.Interval = minPollInterval
	}
	if cfg.Session.Store != StoreMemory && cfg.Session.Store != StoreRedis {
		return nil, fmt.Errorf("invalid SESSION_STORE %q", cfg.Session.Store)
	}

	return cfg, nil
}

// Location resolves the configured timezone.
func (a AppConfig) Location() (*time.Location, error) {
	if a.Timezone == "" || a.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(a.Timezone)
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Env:      "production",
			Locale:   "en",
			Timezone: "Local",
		},
		HTTP: HTTPConfig{Port: "8084"},
		API: APIConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: 15 * time.Second,
		},
		Poll: PollConfig{Interval: 10 * time.Second},
		Session: SessionConfig{
			Store: StoreMemory,
			Key:   "heartlink:session",
		},
		Redis:  RedisConfig{Addr: "localhost:6379"},
		Server: ServerConfig{ShutdownTimeout: 10 * time.Second},
	}
}

// loadDotEnv loads .env.local then .env. godotenv.Load never overwrites
// variables that are already set.
func loadDotEnv() {
	var files []string
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			files = append(files, f)
		}
	}
	if len(files) > 0 {
		_ = godotenv.Load(files...)
	}
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error

	cfg.App.Env = getString("APP_ENV", cfg.App.Env)
	cfg.App.Locale = getString("LOCALE", cfg.App.Locale)
	cfg.App.Timezone = getString("TIMEZONE", cfg.App.Timezone)
	cfg.HTTP.Port = getString("HTTP_PORT", cfg.HTTP.Port)
	cfg.API.BaseURL = getString("API_BASE_URL", cfg.API.BaseURL)
	cfg.Session.Store = getString("SESSION_STORE", cfg.Session.Store)
	cfg.Session.Key = getString("SESSION_KEY", cfg.Session.Key)
	cfg.Redis.Addr = getString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getString("REDIS_PASSWORD", cfg.Redis.Password)

	if cfg.Redis.DB, err = getInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.API.Timeout, err = getDuration("API_TIMEOUT", cfg.API.Timeout); err != nil {
		return fmt.Errorf("invalid API_TIMEOUT: %w", err)
	}
	if cfg.Poll.Interval, err = getDuration("POLL_INTERVAL", cfg.Poll.Interval); err != nil {
		return fmt.Errorf("invalid POLL_INTERVAL: %w", err)
	}
	if cfg.Server.ShutdownTimeout, err = getDuration("SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT: %w", err)
	}
	return nil
}

func getString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) (int, error) {
	if val := os.Getenv(key); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return 0, err
		}
		return parsed, nil
	}
	return def, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	if val := os.Getenv(key); val != "" {
		return time.ParseDuration(val)
	}
	return def, nil
}
