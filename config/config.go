package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Dosada05/arena/fixed"
	"github.com/Dosada05/arena/models"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort   int    `env:"SERVER_PORT" envDefault:"8080"`
	DatabaseURL  string `env:"DATABASE_URL,notEmpty"`
	JWTSecretKey string `env:"JWT_SECRET_KEY,notEmpty"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	Log     Log
	Rating  Rating
	Archive Archive
	Metrics Metrics
}

type Log struct {
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
}

// Rating holds the rating period and the rating given to unrated members.
// Decimals are kept as text so they parse without floating point.
type Rating struct {
	PeriodKind   string `env:"RATING_PERIOD_KIND" envDefault:"height"`
	PeriodLength uint64 `env:"RATING_PERIOD_LENGTH" envDefault:"100"`
	DefaultValue string `env:"RATING_DEFAULT_VALUE" envDefault:"1500"`
	DefaultPhi   string `env:"RATING_DEFAULT_PHI" envDefault:"300"`
	DefaultSigma string `env:"RATING_DEFAULT_SIGMA" envDefault:"0.06"`
}

// Archive is the Cloudflare R2 bucket final standings are written to.
// Archiving is disabled when the account is empty.
type Archive struct {
	R2AccountID       string `env:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `env:"R2_BUCKET_NAME"`
	R2PublicBaseURL   string `env:"R2_PUBLIC_BASE_URL"`
}

type Metrics struct {
	Enabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("env.Parse: %w", err)
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	return &cfg, nil
}

func (a Archive) Enabled() bool {
	return a.R2AccountID != ""
}

func (r Rating) Period() models.Duration {
	return models.Duration{Kind: models.DurationKind(r.PeriodKind), Length: r.PeriodLength}
}

// Default parses the configured default rating.
func (r Rating) Default() (models.Rating, error) {
	value, err := fixed.FromString(r.DefaultValue)
	if err != nil {
		return models.Rating{}, fmt.Errorf("RATING_DEFAULT_VALUE: %w", err)
	}
	phi, err := fixed.FromString(r.DefaultPhi)
	if err != nil {
		return models.Rating{}, fmt.Errorf("RATING_DEFAULT_PHI: %w", err)
	}
	sigma, err := fixed.FromString(r.DefaultSigma)
	if err != nil {
		return models.Rating{}, fmt.Errorf("RATING_DEFAULT_SIGMA: %w", err)
	}
	return models.Rating{Value: value, Phi: phi, Sigma: sigma}, nil
}
