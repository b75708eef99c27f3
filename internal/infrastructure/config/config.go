package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Remote   RemoteConfig
	Store    StoreConfig
	AI       AIConfig
	JWT      JWTConfig
	Log      LogConfig
	HTTP     HTTPConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings.
// Driver selects between an embedded SQLite file (kiosk/dev installs) and
// PostgreSQL (hosted installs).
type DatabaseConfig struct {
	Driver          string // sqlite, postgres
	Path            string // sqlite file path
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
}

// RemoteConfig holds the storefront client's view of the API server
type RemoteConfig struct {
	BaseURL         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	HealthInterval  time.Duration
	RefreshInterval time.Duration
	DrainInterval   time.Duration
}

// StoreConfig holds state container settings
type StoreConfig struct {
	MirrorPath        string  // sqlite file backing the local mirror
	EventLogCap       int     // max analytics events retained
	FluctuationChance float64 // probability of a market fluctuation per refresh
	FluctuationBound  int64   // max absolute rate delta per fluctuation
	AdminPIN          string  // elevates the session to admin
}

// AIConfig holds generative AI provider settings
type AIConfig struct {
	APIKey      string
	ChatModel   string
	VisionModel string
	ImageModel  string
}

// JWTConfig holds session token settings
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with MAMO_ prefix (e.g., MAMO_AI_API_KEY)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("MAMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The provider key is environment-supplied, never user-configurable at
	// runtime. GEMINI_API_KEY is accepted for parity with the provider docs.
	_ = v.BindEnv("ai.api_key", "MAMO_AI_API_KEY", "GEMINI_API_KEY")

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Path:            v.GetString("database.path"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
		},
		Remote: RemoteConfig{
			BaseURL:         v.GetString("remote.base_url"),
			ReadTimeout:     v.GetDuration("remote.read_timeout"),
			WriteTimeout:    v.GetDuration("remote.write_timeout"),
			HealthInterval:  v.GetDuration("remote.health_interval"),
			RefreshInterval: v.GetDuration("remote.refresh_interval"),
			DrainInterval:   v.GetDuration("remote.drain_interval"),
		},
		Store: StoreConfig{
			MirrorPath:        v.GetString("store.mirror_path"),
			EventLogCap:       v.GetInt("store.event_log_cap"),
			FluctuationChance: v.GetFloat64("store.fluctuation_chance"),
			FluctuationBound:  v.GetInt64("store.fluctuation_bound"),
			AdminPIN:          v.GetString("store.admin_pin"),
		},
		AI: AIConfig{
			APIKey:      v.GetString("ai.api_key"),
			ChatModel:   v.GetString("ai.chat_model"),
			VisionModel: v.GetString("ai.vision_model"),
			ImageModel:  v.GetString("ai.image_model"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: v.GetDuration("jwt.expiration"),
			Issuer:     v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "mamo-store"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "3001"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "mamo.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "mamo"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Remote.BaseURL == "" {
		cfg.Remote.BaseURL = "http://localhost:3001"
	}
	if cfg.Remote.ReadTimeout == 0 {
		cfg.Remote.ReadTimeout = 2 * time.Second
	}
	if cfg.Remote.WriteTimeout == 0 {
		cfg.Remote.WriteTimeout = 5 * time.Second
	}
	if cfg.Remote.HealthInterval == 0 {
		cfg.Remote.HealthInterval = 30 * time.Second
	}
	if cfg.Remote.RefreshInterval == 0 {
		cfg.Remote.RefreshInterval = 5 * time.Minute
	}
	if cfg.Remote.DrainInterval == 0 {
		cfg.Remote.DrainInterval = 15 * time.Second
	}
	if cfg.Store.MirrorPath == "" {
		cfg.Store.MirrorPath = "mirror.db"
	}
	if cfg.Store.EventLogCap == 0 {
		cfg.Store.EventLogCap = 500
	}
	if cfg.Store.FluctuationChance == 0 {
		cfg.Store.FluctuationChance = 0.2
	}
	if cfg.Store.FluctuationBound == 0 {
		cfg.Store.FluctuationBound = 25
	}
	if cfg.AI.ChatModel == "" {
		cfg.AI.ChatModel = "gemini-3-pro-preview"
	}
	if cfg.AI.VisionModel == "" {
		cfg.AI.VisionModel = "gemini-3-flash-preview"
	}
	if cfg.AI.ImageModel == "" {
		cfg.AI.ImageModel = "gemini-2.5-flash-image"
	}
	if cfg.JWT.Expiration == 0 {
		cfg.JWT.Expiration = 168 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "mamo-store"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 50 << 20 // product images arrive inline as data URLs
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}

	if _, err := url.Parse(c.Remote.BaseURL); err != nil {
		return fmt.Errorf("remote.base_url is not a valid URL: %w", err)
	}

	if c.Store.FluctuationChance < 0 || c.Store.FluctuationChance > 1 {
		return fmt.Errorf("store.fluctuation_chance must be between 0.0 and 1.0, got %f", c.Store.FluctuationChance)
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Driver == "postgres" && c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
	}

	return nil
}

// DSN returns the PostgreSQL connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
