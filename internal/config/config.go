package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	DBDSN    string `envconfig:"DB_DSN" default:"petcare.db"` // sqlite file in project root
	MediaDir string `envconfig:"MEDIA_DIR" default:"./web/media"`
	LogFile  string `envconfig:"LOG_FILE" default:""`
	SeedDemo bool   `envconfig:"SEED_DEMO" default:"true"`

	RateLimitPerMin int   `envconfig:"RATE_LIMIT_PER_MIN" default:"60"`
	LoginLimit      int   `envconfig:"LOGIN_LIMIT" default:"5"`
	CookieSecure    bool  `envconfig:"COOKIE_SECURE" default:"false"`
	MaxUploadBytes  int64 `envconfig:"MAX_UPLOAD_BYTES" default:"5242880"`

	NotifyTimeout time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"10s"`
	SMTPHost      string        `envconfig:"SMTP_HOST" default:""`
	SMTPPort      int           `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername  string        `envconfig:"SMTP_USERNAME" default:""`
	SMTPPassword  string        `envconfig:"SMTP_PASSWORD" default:""`
	MailFrom      string        `envconfig:"MAIL_FROM" default:"noreply@petcare.local"`
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, using environment variables")
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s LOG_FILE=%s SMTP_HOST=%s",
		cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.LogFile, cfg.SMTPHost)
	return cfg, nil
}

// MailEnabled reports whether notifications go out over SMTP rather than the log.
func (c Config) MailEnabled() bool { return c.SMTPHost != "" }
