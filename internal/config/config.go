// Package config loads the minigold runtime configuration.
//
// Sources, lowest precedence first: built-in defaults, an optional YAML file
// (MINIGOLD_CONFIG or --config), the process environment (a .env file is
// loaded first when present).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"minigold/internal/attachment"
)

// MinJWTSecretLen is the shortest HMAC key accepted for signing session tokens.
const MinJWTSecretLen = 32

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config is the complete runtime configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Attachment AttachmentConfig `yaml:"attachment"`
}

// StoreConfig selects the relational backend.
type StoreConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver      string `yaml:"driver"`
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Port           string `yaml:"port"`
	AllowedOrigins string `yaml:"allowed_origins"`
	JWTSecret      string `yaml:"jwt_secret"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// AttachmentConfig selects where intake attachments are kept.
type AttachmentConfig struct {
	Driver string   `yaml:"driver"`
	Dir    string   `yaml:"dir"`
	S3     S3Config `yaml:"s3"`
}

// S3Config mirrors attachment.S3Config with YAML tags.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Store:      StoreConfig{Driver: StoreSQLite, SQLitePath: "data/minigold.db"},
		Server:     ServerConfig{Port: "8080"},
		Log:        LogConfig{Level: "info", Format: "text"},
		Attachment: AttachmentConfig{Driver: string(attachment.DriverFilesystem), Dir: "data/attachments"},
	}
}

// Load reads .env (if present), the YAML file at path (if non-empty) and the
// environment, then validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv("MINIGOLD_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("MINIGOLD_STORE_DRIVER", &c.Store.Driver)
	str("DATABASE_URL", &c.Store.DatabaseURL)
	str("MINIGOLD_SQLITE_PATH", &c.Store.SQLitePath)
	str("SERVER_PORT", &c.Server.Port)
	str("ALLOWED_ORIGINS", &c.Server.AllowedOrigins)
	str("JWT_SECRET", &c.Server.JWTSecret)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("MINIGOLD_BLOB_DRIVER", &c.Attachment.Driver)
	str("MINIGOLD_BLOB_DIR", &c.Attachment.Dir)
	str("MINIGOLD_S3_BUCKET", &c.Attachment.S3.Bucket)
	str("MINIGOLD_S3_REGION", &c.Attachment.S3.Region)
	str("MINIGOLD_S3_ENDPOINT", &c.Attachment.S3.Endpoint)
	str("MINIGOLD_S3_ACCESS_KEY_ID", &c.Attachment.S3.AccessKeyID)
	str("MINIGOLD_S3_SECRET_ACCESS_KEY", &c.Attachment.S3.SecretAccessKey)
	if v, ok := lookup("MINIGOLD_S3_PATH_STYLE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MINIGOLD_S3_PATH_STYLE: %w", err)
		}
		c.Attachment.S3.PathStyle = b
	}
	return nil
}

// Validate checks the driver-specific requirements.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("store.database_url (DATABASE_URL) is required for the postgres driver")
		}
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	switch attachment.Driver(c.Attachment.Driver) {
	case attachment.DriverFilesystem:
		if c.Attachment.Dir == "" {
			return fmt.Errorf("attachment.dir is required for the fs driver")
		}
	case attachment.DriverS3:
		if c.Attachment.S3.Bucket == "" {
			return fmt.Errorf("attachment.s3.bucket is required for the s3 driver")
		}
	case attachment.DriverMemory:
	default:
		return fmt.Errorf("unknown attachment driver %q", c.Attachment.Driver)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if len(c.Server.JWTSecret) < MinJWTSecretLen {
		return fmt.Errorf("server.jwt_secret (JWT_SECRET) must be at least %d bytes", MinJWTSecretLen)
	}
	return nil
}

// AttachmentStore converts the attachment section for attachment.Open.
func (c *Config) AttachmentStore() attachment.Config {
	return attachment.Config{
		Driver: attachment.Driver(c.Attachment.Driver),
		Dir:    c.Attachment.Dir,
		S3: attachment.S3Config{
			Bucket:          c.Attachment.S3.Bucket,
			Region:          c.Attachment.S3.Region,
			Endpoint:        c.Attachment.S3.Endpoint,
			AccessKeyID:     c.Attachment.S3.AccessKeyID,
			SecretAccessKey: c.Attachment.S3.SecretAccessKey,
			PathStyle:       c.Attachment.S3.PathStyle,
		},
	}
}
