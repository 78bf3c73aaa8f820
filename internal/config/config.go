package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/config.yml"

type AppConfig struct {
	Port    int    `yaml:"port" env:"PORT"`
	GinMode string `yaml:"gin_mode" env:"GIN_MODE"`
	Env     string `yaml:"env" env:"APP_ENV"`
}

type DatabaseConfig struct {
	Driver  string `yaml:"driver" env:"DATABASE_DRIVER"`
	DSN     string `yaml:"dsn" env:"DATABASE_DSN"`
	MaxWait string `yaml:"max_wait" env:"DATABASE_MAX_WAIT"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret" env:"JWT_SECRET"`
	Issuer     string `yaml:"issuer" env:"JWT_ISSUER"`
	AccessTTL  string `yaml:"access_ttl" env:"JWT_ACCESS_TTL"`
	RefreshTTL string `yaml:"refresh_ttl" env:"JWT_REFRESH_TTL"`
}

type MagicLinkConfig struct {
	BaseURL      string `yaml:"base_url" env:"MAGIC_LINK_BASE_URL"`
	ResendWindow string `yaml:"resend_window" env:"MAGIC_LINK_RESEND_WINDOW"`
}

type LoginConfig struct {
	MaxAttempts int    `yaml:"max_attempts" env:"LOGIN_MAX_ATTEMPTS"`
	Window      string `yaml:"window" env:"LOGIN_WINDOW"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid" env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `yaml:"auth_token" env:"TWILIO_AUTH_TOKEN"`
	FromNumber string `yaml:"from_number" env:"TWILIO_FROM_NUMBER"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path" env:"CASBIN_MODEL_PATH"`
}

type NATSConfig struct {
	URL          string `yaml:"url" env:"NATS_URL"`
	AuditSubject string `yaml:"audit_subject" env:"NATS_AUDIT_SUBJECT"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	MagicLink MagicLinkConfig `yaml:"magic_link"`
	Login     LoginConfig     `yaml:"login"`
	Twilio    TwilioConfig    `yaml:"twilio"`
	Casbin    CasbinConfig    `yaml:"casbin"`
	NATS      NATSConfig      `yaml:"nats"`
}

type Config struct {
	Port                  string
	GinMode               string
	Env                   string
	DBDriver              string
	DSN                   string
	DBMaxWait             time.Duration
	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	JWTSecret             string
	JWTIssuer             string
	AccessTTL             time.Duration
	RefreshTTL            time.Duration
	MagicLinkBaseURL      string
	MagicLinkResendWindow time.Duration
	LoginMaxAttempts      int
	LoginWindow           time.Duration
	TwilioSID             string
	TwilioToken           string
	TwilioFrom            string
	CasbinModelPath       string
	NATSURL               string
	NATSAuditSubject      string
}

// defaults mirror config/config.yml so a missing key never yields a zero duration
func defaults() ConfigFile {
	return ConfigFile{
		App:       AppConfig{Port: 8080, GinMode: "release", Env: "local"},
		Database:  DatabaseConfig{Driver: "postgres", MaxWait: "30s"},
		Redis:     RedisConfig{Addr: "localhost:6379"},
		JWT:       JWTConfig{Issuer: "parkease", AccessTTL: "15m", RefreshTTL: "168h"},
		MagicLink: MagicLinkConfig{BaseURL: "http://localhost:3000/auth/magic-link/callback", ResendWindow: "60s"},
		Login:     LoginConfig{MaxAttempts: 5, Window: "15m"},
		Casbin:    CasbinConfig{ModelPath: "config/rbac_model.conf"},
		NATS:      NATSConfig{AuditSubject: "audit.auth"},
	}
}

// Load reads config/config.yml (or $PARKEASE_CONFIG), then .env, then environment overrides.
func Load() (*Config, error) {
	path := defaultConfigPath
	if p := os.Getenv("PARKEASE_CONFIG"); p != "" {
		path = p
	}
	return LoadFrom(path)
}

func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// A missing .env is normal outside local development
	_ = godotenv.Load()

	if err := env.Parse(configFile); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	return build(configFile)
}

func build(configFile *ConfigFile) (*Config, error) {
	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	refTTL, err := time.ParseDuration(configFile.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}

	resWnd, err := time.ParseDuration(configFile.MagicLink.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid magic link resend window: %w", err)
	}

	dbWait, err := time.ParseDuration(configFile.Database.MaxWait)
	if err != nil {
		return nil, fmt.Errorf("invalid database max wait: %w", err)
	}

	loginWnd, err := time.ParseDuration(configFile.Login.Window)
	if err != nil {
		return nil, fmt.Errorf("invalid login window: %w", err)
	}

	cfg := &Config{
		Port:                  strconv.Itoa(configFile.App.Port),
		GinMode:               configFile.App.GinMode,
		Env:                   configFile.App.Env,
		DBDriver:              configFile.Database.Driver,
		DSN:                   configFile.Database.DSN,
		DBMaxWait:             dbWait,
		RedisAddr:             configFile.Redis.Addr,
		RedisPassword:         configFile.Redis.Password,
		RedisDB:               configFile.Redis.DB,
		JWTSecret:             configFile.JWT.Secret,
		JWTIssuer:             configFile.JWT.Issuer,
		AccessTTL:             accTTL,
		RefreshTTL:            refTTL,
		MagicLinkBaseURL:      configFile.MagicLink.BaseURL,
		MagicLinkResendWindow: resWnd,
		LoginMaxAttempts:      configFile.Login.MaxAttempts,
		LoginWindow:           loginWnd,
		TwilioSID:             configFile.Twilio.AccountSID,
		TwilioToken:           configFile.Twilio.AuthToken,
		TwilioFrom:            configFile.Twilio.FromNumber,
		CasbinModelPath:       configFile.Casbin.ModelPath,
		NATSURL:               configFile.NATS.URL,
		NATSAuditSubject:      configFile.NATS.AuditSubject,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt secret is required")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}
	if c.DSN == "" {
		return errors.New("database dsn is required")
	}
	if c.LoginMaxAttempts < 0 {
		return errors.New("login max attempts cannot be negative")
	}
	return nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	config := defaults()

	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &config, nil
		}
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
