package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type App struct {
	Env             string `yaml:"env"`
	Port            int    `yaml:"port"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

func (a *App) PortString() string { return fmt.Sprintf("%d", a.Port) }

func (a *App) ShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(a.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

type Mongo struct {
	URI string `yaml:"uri"`
	DB  string `yaml:"db"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type JWT struct {
	HSSecret string `yaml:"hs_secret"`
	TTL      string `yaml:"ttl"`
}

func (j *JWT) TTLDuration() time.Duration {
	d, err := time.ParseDuration(j.TTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

type Sweep struct {
	Interval string `yaml:"interval"`
}

// IntervalDuration is both the sweep period and the staleness threshold.
func (s *Sweep) IntervalDuration() time.Duration {
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

type Rate struct {
	PerMin int `yaml:"per_min"`
}

type Config struct {
	App   App   `yaml:"app"`
	Mongo Mongo `yaml:"mongo"`
	Redis Redis `yaml:"redis"`
	Kafka Kafka `yaml:"kafka"`
	JWT   JWT   `yaml:"jwt"`
	Sweep Sweep `yaml:"sweep"`
	Rate  Rate  `yaml:"rate_limit"`
}

// Load reads config.yaml when present, then .env, then plain environment
// variables, the later sources overriding the earlier ones.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat("config.yaml"); err == nil {
		b, _ := os.ReadFile("config.yaml")
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
	}

	_ = godotenv.Load()
	overrideFromEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.App.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		n, _ := strconv.Atoi(v)
		cfg.App.Port = n
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("DATABASE_NAME"); v != "" {
		cfg.Mongo.DB = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.HSSecret = v
	}

	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		cfg.Sweep.Interval = v
	}
}

func validate(cfg *Config) error {
	if cfg.App.Port == 0 {
		cfg.App.Port = 5000
	}
	if cfg.Mongo.URI == "" {
		return errors.New("mongo.uri missing (set DATABASE_URL)")
	}
	if cfg.Mongo.DB == "" {
		cfg.Mongo.DB = "batepapo"
	}
	return nil
}
