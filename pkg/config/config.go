package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
		LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST" env-default:"localhost"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	LLM struct {
		Provider string        `env:"LLM_PROVIDER" env-default:"gemini" env-description:"gemini or openai"`
		Model    string        `env:"LLM_MODEL" env-default:"gemini-2.5-flash"`
		APIKey   string        `env:"LLM_API_KEY"`
		APIURL   string        `env:"LLM_API_URL"`
		Timeout  time.Duration `env:"LLM_TIMEOUT" env-default:"60s"`
	}
	Publisher struct {
		SimulatedLatency time.Duration `env:"PUBLISH_SIMULATED_LATENCY" env-default:"1500ms"`
		Timeout          time.Duration `env:"PUBLISH_TIMEOUT" env-default:"30s"`
		CallToActionURL  string        `env:"GOOGLE_BUSINESS_CTA_URL"`
	}
	Credentials struct {
		TwitterBearerToken        string `env:"TWITTER_BEARER_TOKEN"`
		LinkedInAccessToken       string `env:"LINKEDIN_ACCESS_TOKEN"`
		LinkedInPersonURN         string `env:"LINKEDIN_PERSON_URN"`
		InstagramAccessToken      string `env:"INSTAGRAM_ACCESS_TOKEN"`
		InstagramAccountID        string `env:"INSTAGRAM_ACCOUNT_ID"`
		TikTokAccessToken         string `env:"TIKTOK_ACCESS_TOKEN"`
		TikTokOpenID              string `env:"TIKTOK_OPEN_ID"`
		FacebookAccessToken       string `env:"FACEBOOK_ACCESS_TOKEN"`
		FacebookPageID            string `env:"FACEBOOK_PAGE_ID"`
		GoogleBusinessAccessToken string `env:"GOOGLE_BUSINESS_ACCESS_TOKEN"`
		GoogleBusinessLocationID  string `env:"GOOGLE_BUSINESS_LOCATION_ID"`
	}
	Telegram struct {
		Token       string  `env:"TELEGRAM_TOKEN"`
		User        int64   `env:"TELEGRAM_USER"`
		ReportChats []int64 `env:"TELEGRAM_REPORT_CHATS" env-separator:","`
	}
	RateLimit struct {
		Requests int           `env:"GENERATE_RATE_REQUESTS" env-default:"5"`
		Per      time.Duration `env:"GENERATE_RATE_PER" env-default:"1m"`
		Burst    int           `env:"GENERATE_RATE_BURST" env-default:"3"`
	}
	Scheduler struct {
		Timezone         string        `env:"SCHEDULER_TIMEZONE" env-default:"UTC"`
		HistoryRetention time.Duration `env:"HISTORY_RETENTION" env-default:"720h"`
	}
}

// GetDSN builds the postgres connection string shared by pgx and goose.
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}
