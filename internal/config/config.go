// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "BRAINDUMP"

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
	Repository RepositoryConfig `yaml:"repository"`
	LLM        LLMConfig        `yaml:"llm"`
	Google     GoogleConfig     `yaml:"google"`
	Auth       AuthConfig       `yaml:"auth"`
	Worker     WorkerConfig     `yaml:"worker"`
	CORS       CORSConfig       `yaml:"cors"`
}

type ServerConfig struct {
	Port           string        `yaml:"port"`
	Host           string        `yaml:"host"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RateLimit      int           `yaml:"rate_limit"` // requests per minute per client IP
}

type DatabaseConfig struct {
	URL            string        `yaml:"url"`
	MaxConnections int           `yaml:"max_connections"`
	MinConnections int           `yaml:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	ConnectRetries int           `yaml:"connect_retries"`
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
}

type RepositoryConfig struct {
	Type string `yaml:"type"` // "postgres" or "inmemory"
}

type LLMConfig struct {
	APIKey    string        `yaml:"api_key"`
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
	CalendarURL  string `yaml:"calendar_url"` // Calendar API base path
	TokenURL     string `yaml:"token_url"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type WorkerConfig struct {
	TokenRefreshInterval time.Duration `yaml:"token_refresh_interval"`
	TokenRefreshWindow   time.Duration `yaml:"token_refresh_window"`
	BatchSize            int           `yaml:"batch_size"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

const (
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"
)

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   90 * time.Second,
			RequestTimeout: 60 * time.Second,
			RateLimit:      100,
		},
		Database: DatabaseConfig{
			MaxConnections: 10,
			MinConnections: 2,
			IdleTimeout:    5 * time.Minute,
			ConnectRetries: 5,
		},
		Repository: RepositoryConfig{Type: RepositoryPostgres},
		LLM: LLMConfig{
			BaseURL:   "https://api.anthropic.com/",
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 2000,
			Timeout:   60 * time.Second,
		},
		Google: GoogleConfig{
			CalendarURL: "https://www.googleapis.com/calendar/v3/",
		},
		Worker: WorkerConfig{
			TokenRefreshInterval: time.Minute,
			TokenRefreshWindow:   5 * time.Minute,
			BatchSize:            100,
		},
		CORS: CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

// Load reads the yaml file on top of the defaults, then applies BRAINDUMP_* environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	cfg := Default()

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	applyEnv(cfg, newEnv())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func applyEnv(cfg *Config, v *viper.Viper) {
	setString(v, "server.host", &cfg.Server.Host)
	setString(v, "server.port", &cfg.Server.Port)
	setString(v, "database.url", &cfg.Database.URL)
	setString(v, "repository.type", &cfg.Repository.Type)
	setString(v, "llm.api_key", &cfg.LLM.APIKey)
	setString(v, "llm.base_url", &cfg.LLM.BaseURL)
	setString(v, "llm.model", &cfg.LLM.Model)
	setString(v, "google.client_id", &cfg.Google.ClientID)
	setString(v, "google.client_secret", &cfg.Google.ClientSecret)
	setString(v, "google.redirect_url", &cfg.Google.RedirectURL)
	setString(v, "auth.jwt_secret", &cfg.Auth.JWTSecret)

	if v.IsSet("llm.max_tokens") {
		cfg.LLM.MaxTokens = v.GetInt("llm.max_tokens")
	}
	if v.IsSet("logging.development") {
		cfg.Logging.Development = v.GetBool("logging.development")
	}
	if v.IsSet("cors.allowed_origins") {
		cfg.CORS.AllowedOrigins = v.GetStringSlice("cors.allowed_origins")
	}
}

func setString(v *viper.Viper, key string, dst *string) {
	if s := v.GetString(key); s != "" {
		*dst = s
	}
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for the postgres repository")
		}
	case RepositoryInMemory:
	default:
		return fmt.Errorf("unknown repository.type %q", c.Repository.Type)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
