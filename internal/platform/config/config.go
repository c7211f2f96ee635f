package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr        string        `envconfig:"APP_ADDR" default:":8080"`
	Environment string        `envconfig:"APP_ENV" default:"development"`
	DatabaseURL string        `envconfig:"DATABASE_URL"`
	JWTSecret   string        `envconfig:"JWT_SECRET"`
	TokenTTL    time.Duration `envconfig:"TOKEN_TTL" default:"12h"`

	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"true"`
	RunSeed       bool   `envconfig:"RUN_SEED" default:"true"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"migrations"`

	SeedAdminUsername string `envconfig:"SEED_ADMIN_USERNAME" default:"admin"`
	SeedAdminEmail    string `envconfig:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `envconfig:"SEED_ADMIN_PASSWORD"`

	// The cutoff is compared against the check-in time in server-local time.
	LateCutoffHour   int     `envconfig:"ATTENDANCE_LATE_CUTOFF_HOUR" default:"11"`
	HalfDayThreshold float64 `envconfig:"ATTENDANCE_HALF_DAY_HOURS" default:"4"`

	UploadDir      string        `envconfig:"EFILING_UPLOAD_DIR" default:"uploads/efiling"`
	MaxUploadBytes int64         `envconfig:"EFILING_MAX_UPLOAD_BYTES" default:"26214400"`
	DeleteWindow   time.Duration `envconfig:"EFILING_DELETE_WINDOW" default:"24h"`

	MaxBodyBytes       int64 `envconfig:"MAX_BODY_BYTES" default:"1048576"`
	RateLimitPerMinute int   `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.LateCutoffHour < 0 || c.LateCutoffHour > 23 {
		return fmt.Errorf("ATTENDANCE_LATE_CUTOFF_HOUR must be within 0-23")
	}
	if c.HalfDayThreshold <= 0 {
		return fmt.Errorf("ATTENDANCE_HALF_DAY_HOURS must be positive")
	}
	if c.MaxUploadBytes < 1024 {
		return fmt.Errorf("EFILING_MAX_UPLOAD_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}
