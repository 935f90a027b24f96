package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config se arma desde variables de entorno (y un .env opcional en dev).
// Cada backend es opcional: si falta su DSN/URI se usa el adapter in-memory.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Storage
	DatabaseDSN string `env:"DB_DSN"`
	MongoURI    string `env:"MONGO_URI"`
	MongoDB     string `env:"MONGO_DB" envDefault:"huellitas"`
	RedisAddr   string `env:"REDIS_ADDR"`

	// Auth
	AuthSecret          string        `env:"AUTH_SECRET"`
	TokenTTL            time.Duration `env:"TOKEN_TTL" envDefault:"72h"`
	FirebaseCredentials string        `env:"FIREBASE_CREDENTIALS"`
	LoginMaxAttempts    int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LoginWindow         time.Duration `env:"LOGIN_WINDOW" envDefault:"15m"`

	// Object storage
	BlobBucketURL     string `env:"BLOB_BUCKET_URL" envDefault:"mem://"`
	BlobPublicBaseURL string `env:"BLOB_PUBLIC_BASE_URL"`
	MaxUploadBytes    int64  `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`

	// Image host (opcional)
	CloudinaryCloudName    string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryUploadPreset string `env:"CLOUDINARY_UPLOAD_PRESET"`
	CloudinaryFolder       string `env:"CLOUDINARY_FOLDER" envDefault:"huellitas"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Logger (NewFromEnv lee las mismas keys)
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	AppName   string `env:"APP_NAME" envDefault:"huellitas-api"`

	// DevMode habilita X-Debug-User-ID y un AUTH_SECRET por defecto.
	DevMode bool `env:"DEV_MODE" envDefault:"false"`
}

const devAuthSecret = "dev-secret-key"

// Load lee .env (si existe) y luego el entorno.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Port = strings.TrimPrefix(strings.TrimSpace(c.Port), ":")

	if strings.TrimSpace(c.AuthSecret) == "" {
		if !c.DevMode {
			return fmt.Errorf("AUTH_SECRET is required when DEV_MODE is off")
		}
		c.AuthSecret = devAuthSecret
	}
	if c.LoginMaxAttempts <= 0 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS must be > 0")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be > 0")
	}

	origins := make([]string, 0, len(c.CORSAllowedOrigins))
	for _, o := range c.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSAllowedOrigins = origins
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

// CloudinaryEnabled indica si hay credenciales del image host.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryUploadPreset != ""
}
