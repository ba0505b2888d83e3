package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTP      `yaml:"http"`
	Database  Database  `yaml:"database"`
	Auth      Auth      `yaml:"auth"`
	Kafka     Kafka     `yaml:"kafka"`
	SMTP      SMTP      `yaml:"smtp"`
	Telemetry Telemetry `yaml:"telemetry"`
	Log       Log       `yaml:"log"`
}

type HTTP struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type Database struct {
	URL            string `yaml:"url"`
	SearchPath     string `yaml:"search_path"`
	MigrateOnStart bool   `yaml:"migrate_on_start"`
	MigrationsPath string `yaml:"migrations_path"`
}

type Auth struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

type Kafka struct {
	Brokers     []string `yaml:"brokers"`
	OrdersTopic string   `yaml:"orders_topic"`
	GroupID     string   `yaml:"group_id"`
}

type SMTP struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type Telemetry struct {
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	TracingEnabled bool   `yaml:"tracing_enabled"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func Default() *Config {
	return &Config{
		HTTP: HTTP{
			Port:            "8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: Auth{
			TokenTTL:   24 * time.Hour,
			BcryptCost: 10,
		},
		Kafka: Kafka{
			OrdersTopic: "orders.placed",
			GroupID:     "order-notifier",
		},
		SMTP: SMTP{
			Port: 587,
			From: "pedidos@commerce.local",
		},
		Telemetry: Telemetry{
			ServiceName:    "commerce-api",
			ServiceVersion: "0.1.0",
			OTLPEndpoint:   "localhost:4317",
			TracingEnabled: true,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads the defaults, then the YAML file named by CONFIG_FILE, then the
// environment. Later sources win.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	cfg := Default()

	if path := getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg, getenv); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	setString(getenv, "PORT", &cfg.HTTP.Port)
	setString(getenv, "POSTGRES_URL", &cfg.Database.URL)
	setString(getenv, "DB_SEARCH_PATH", &cfg.Database.SearchPath)
	setString(getenv, "MIGRATIONS_PATH", &cfg.Database.MigrationsPath)
	setString(getenv, "JWT_SECRET", &cfg.Auth.JWTSecret)
	setString(getenv, "ORDERS_TOPIC", &cfg.Kafka.OrdersTopic)
	setString(getenv, "NOTIFIER_GROUP_ID", &cfg.Kafka.GroupID)
	setString(getenv, "SMTP_HOST", &cfg.SMTP.Host)
	setString(getenv, "SMTP_USERNAME", &cfg.SMTP.Username)
	setString(getenv, "SMTP_PASSWORD", &cfg.SMTP.Password)
	setString(getenv, "SMTP_FROM", &cfg.SMTP.From)
	setString(getenv, "SERVICE_NAME", &cfg.Telemetry.ServiceName)
	setString(getenv, "SERVICE_VERSION", &cfg.Telemetry.ServiceVersion)
	setString(getenv, "OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.Telemetry.OTLPEndpoint)
	setString(getenv, "LOG_LEVEL", &cfg.Log.Level)
	setString(getenv, "LOG_FILE", &cfg.Log.File)

	if v := getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}

	durations := map[string]*time.Duration{
		"HTTP_READ_TIMEOUT":  &cfg.HTTP.ReadTimeout,
		"HTTP_WRITE_TIMEOUT": &cfg.HTTP.WriteTimeout,
		"SHUTDOWN_TIMEOUT":   &cfg.HTTP.ShutdownTimeout,
		"JWT_TTL":            &cfg.Auth.TokenTTL,
	}
	for key, dst := range durations {
		v := getenv(key)
		if v == "" {
			continue
		}
		d, err := cast.ToDurationE(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
	}

	ints := map[string]*int{
		"BCRYPT_COST": &cfg.Auth.BcryptCost,
		"SMTP_PORT":   &cfg.SMTP.Port,
	}
	for key, dst := range ints {
		v := getenv(key)
		if v == "" {
			continue
		}
		n, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"MIGRATE_ON_START": &cfg.Database.MigrateOnStart,
		"TRACING_ENABLED":  &cfg.Telemetry.TracingEnabled,
	}
	for key, dst := range bools {
		v := getenv(key)
		if v == "" {
			continue
		}
		b, err := cast.ToBoolE(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = b
	}

	return nil
}

func setString(getenv func(string) string, key string, dst *string) {
	if v := getenv(key); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
