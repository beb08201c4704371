package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	SecretKey       string `yaml:"secret_key"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// SchedulerConfig carries the reminder constants. The dedup window and
// workload threshold keep the product defaults; they are configurable,
// not retuned.
type SchedulerConfig struct {
	ReminderSpec       string `yaml:"reminder_spec"`
	WorkloadSpec       string `yaml:"workload_spec"`
	DedupWindowMinutes int    `yaml:"dedup_window_minutes"`
	WorkloadThreshold  int    `yaml:"workload_threshold"`
	RetentionLimit     int    `yaml:"retention_limit"`
}

func (s SchedulerConfig) DedupWindow() time.Duration {
	return time.Duration(s.DedupWindowMinutes) * time.Minute
}

// Load reads the yaml config at path when present, then applies
// environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:     3000,
			Env:      "dev",
			LogLevel: "debug",
		},
		Store: StoreConfig{
			Path: "data/db.json",
		},
		Auth: AuthConfig{
			SecretKey:       "schedule-service-secret",
			TokenTTLMinutes: 12 * 60,
		},
		Scheduler: SchedulerConfig{
			ReminderSpec:       "*/30 * * * *",
			WorkloadSpec:       "0 8 * * *",
			DedupWindowMinutes: 60,
			WorkloadThreshold:  5,
			RetentionLimit:     1000,
		},
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if env := os.Getenv("ENV"); env != "" {
		cfg.Server.Env = env
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.Server.LogLevel = logLevel
	}
	if storePath := os.Getenv("STORE_PATH"); storePath != "" {
		cfg.Store.Path = storePath
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			cfg.Redis.DB = n
		}
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.SecretKey = secret
	}

	return cfg, nil
}
