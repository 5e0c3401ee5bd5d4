// config.go - Handles configuration for the project

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Store drivers understood by database.Open.
const (
	StoreDriverFile   = "file"
	StoreDriverSQLite = "sqlite"
)

// Config holds all configuration values.
// Priority: ENV > YAML (CONFIG_PATH) > env-default tags.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Store         StoreConfig         `yaml:"store"`
	Auth          AuthConfig          `yaml:"auth"`
	KnowledgeBase KnowledgeBaseConfig `yaml:"knowledge_base"`
	MQTT          MQTTConfig          `yaml:"mqtt"`
	CORS          CORSConfig          `yaml:"cors"`
	Log           LogConfig           `yaml:"log"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"3002"`
	Mode            string        `yaml:"mode"             env:"GIN_MODE"                env-default:"debug"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StoreConfig selects where the record collections live.
type StoreConfig struct {
	Driver     string `yaml:"driver"      env:"STORE_DRIVER"      env-default:"file"`
	DataDir    string `yaml:"data_dir"    env:"STORE_DATA_DIR"    env-default:"data"`
	SQLitePath string `yaml:"sqlite_path" env:"STORE_SQLITE_PATH" env-default:"data/discovery.db"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"     env:"JWT_SECRET"     env-default:"your-secret-key-change-in-production"`
	TokenTTL      time.Duration `yaml:"token_ttl"      env:"JWT_TOKEN_TTL"  env-default:"168h"`
	CreateAdmin   bool          `yaml:"create_admin"   env:"CREATE_ADMIN"   env-default:"true"`
	AdminUsername string        `yaml:"admin_username" env:"ADMIN_USERNAME" env-default:"admin"`
	AdminPassword string        `yaml:"admin_password" env:"ADMIN_PASSWORD" env-default:"admin"`
}

// KnowledgeBaseConfig points at the AnythingLLM-compatible chat service.
type KnowledgeBaseConfig struct {
	BaseURL string        `yaml:"base_url" env:"ANYTHINGLLM_BASE_URL" env-default:"http://localhost:3001"`
	APIKey  string        `yaml:"api_key"  env:"ANYTHINGLLM_API_KEY"`
	Mode    string        `yaml:"mode"     env:"ANYTHINGLLM_MODE"     env-default:"query"`
	Timeout time.Duration `yaml:"timeout"  env:"ANYTHINGLLM_TIMEOUT"  env-default:"120s"`
}

// MQTTConfig enables event publishing when Broker is set.
type MQTTConfig struct {
	Broker      string `yaml:"broker"       env:"MQTT_BROKER"`
	ClientID    string `yaml:"client_id"    env:"MQTT_CLIENT_ID"    env-default:"discovery-backend"`
	TopicPrefix string `yaml:"topic_prefix" env:"MQTT_TOPIC_PREFIX" env-default:"discovery"`
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173,http://localhost:3000,http://localhost:4173"`
	AllowAll       bool   `yaml:"allow_all"       env:"CORS_ALLOW_ALL"       env-default:"true"`
}

type LogConfig struct {
	Mode string `yaml:"mode" env:"LOG_MODE" env-default:"dev"`
}

// Load reads .env (if present), then CONFIG_PATH (if set) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // A missing .env file is normal outside local development

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	switch c.Store.Driver {
	case StoreDriverFile, StoreDriverSQLite:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Origins splits the comma separated origin list.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
