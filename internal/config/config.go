package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full runtime configuration for the AssetSync API.
type Config struct {
	APIPort  int `yaml:"apiPort"`
	Database struct {
		Type     string `yaml:"type"` // "postgres" or "sqlite"
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Name     string `yaml:"name"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		SSLMode  string `yaml:"sslMode"`
		Path     string `yaml:"path"` // sqlite only
		MaxConns int    `yaml:"maxConns"`
		MaxIdle  int    `yaml:"maxIdle"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret       string        `yaml:"jwtSecret"`
		AccessTokenTTL  time.Duration `yaml:"accessTokenTTL"`
		RefreshTokenTTL time.Duration `yaml:"refreshTokenTTL"`
		ResetTicketTTL  time.Duration `yaml:"resetTicketTTL"`
		BcryptCost      int           `yaml:"bcryptCost"`
		SweepInterval   time.Duration `yaml:"sweepInterval"`
	} `yaml:"auth"`
	Storage struct {
		Enabled         bool   `yaml:"enabled"`
		Endpoint        string `yaml:"endpoint"`
		Region          string `yaml:"region"`
		Bucket          string `yaml:"bucket"`
		AccessKeyID     string `yaml:"accessKeyId"`
		SecretAccessKey string `yaml:"secretAccessKey"`
	} `yaml:"storage"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"cors"`
}

// ErrMissingJWTSecret is returned when no signing secret is configured.
// The server refuses to start without one.
var ErrMissingJWTSecret = errors.New("auth.jwtSecret is required")

// envKeys lists every configuration key overridable from the environment.
var envKeys = []string{
	"apiport",
	"database.type",
	"database.host",
	"database.port",
	"database.name",
	"database.user",
	"database.password",
	"database.sslmode",
	"database.path",
	"database.maxconns",
	"database.maxidle",
	"auth.jwtsecret",
	"auth.accesstokenttl",
	"auth.refreshtokenttl",
	"auth.resetticketttl",
	"auth.bcryptcost",
	"auth.sweepinterval",
	"storage.enabled",
	"storage.endpoint",
	"storage.region",
	"storage.bucket",
	"storage.accesskeyid",
	"storage.secretaccesskey",
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ASSETSYNC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// AutomaticEnv does not feed Unmarshal for keys absent from the config
	// file, so every key is bound explicitly (ASSETSYNC_DATABASE_HOST,
	// ASSETSYNC_AUTH_JWTSECRET, ...).
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read config file %s: %v. Using defaults and environment variables.", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if cfg.Auth.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.APIPort == 0 {
		cfg.APIPort = 8081
		log.Println("apiPort not specified, using default 8081")
	}
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "/data/assetsync.db"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.MaxIdle == 0 {
		cfg.Database.MaxIdle = 5
	}
	if cfg.Auth.AccessTokenTTL == 0 {
		cfg.Auth.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.Auth.RefreshTokenTTL == 0 {
		cfg.Auth.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if cfg.Auth.ResetTicketTTL == 0 {
		cfg.Auth.ResetTicketTTL = time.Hour
	}
	if cfg.Auth.BcryptCost == 0 {
		cfg.Auth.BcryptCost = 12
	}
	if cfg.Auth.SweepInterval == 0 {
		cfg.Auth.SweepInterval = time.Hour
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
}
