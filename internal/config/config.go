package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Webhook   WebhookConfig
	Storage   StorageConfig
	Scheduler SchedulerConfig
	Notify    NotifyConfig
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

// WebhookConfig points at the n8n automation that drives the CELESC
// WhatsApp bot.
type WebhookConfig struct {
	URL     string
	Timeout time.Duration
}

// StorageConfig holds the Supabase Storage credentials and the two bucket
// folders the poller reconciles.
type StorageConfig struct {
	BaseURL       string
	APIKey        string
	Bucket        string
	FaturasFolder string
	ResumosFolder string
	PollInterval  time.Duration
}

type SchedulerConfig struct {
	Interval         time.Duration
	DispatchThrottle time.Duration
	// RetainFailedOnce keeps a failed one-time dispatch as an inactive row
	// instead of deleting it.
	RetainFailedOnce bool
}

type NotifyConfig struct {
	BotToken string
	ChatID   int64
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_PORT", 3000)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("WEBHOOK_URL", "https://n8n.pagluz.com.br/webhook/celesc-bot")
	viper.SetDefault("WEBHOOK_TIMEOUT", "120s")
	viper.SetDefault("STORAGE_BUCKET", "celesc-faturas")
	viper.SetDefault("STORAGE_FATURAS_FOLDER", "faturas")
	viper.SetDefault("STORAGE_RESUMOS_FOLDER", "resumos")
	viper.SetDefault("STORAGE_POLL_INTERVAL", "25s")
	viper.SetDefault("SCHEDULER_INTERVAL", "1m")
	viper.SetDefault("SCHEDULER_DISPATCH_THROTTLE", "3m")
	viper.SetDefault("SCHEDULER_RETAIN_FAILED_ONCE", false)

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:    viper.GetString("DB_HOST"),
			Port:    viper.GetString("DB_PORT"),
			Name:    viper.GetString("DB_NAME"),
			User:    viper.GetString("DB_USER"),
			Pass:    viper.GetString("DB_PASS"),
			Charset: viper.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
		Webhook: WebhookConfig{
			URL:     viper.GetString("WEBHOOK_URL"),
			Timeout: durationOr("WEBHOOK_TIMEOUT", 120*time.Second),
		},
		Storage: StorageConfig{
			BaseURL:       viper.GetString("SUPABASE_STORAGE_URL"),
			APIKey:        viper.GetString("SUPABASE_API_KEY"),
			Bucket:        viper.GetString("STORAGE_BUCKET"),
			FaturasFolder: viper.GetString("STORAGE_FATURAS_FOLDER"),
			ResumosFolder: viper.GetString("STORAGE_RESUMOS_FOLDER"),
			PollInterval:  durationOr("STORAGE_POLL_INTERVAL", 25*time.Second),
		},
		Scheduler: SchedulerConfig{
			Interval:         durationOr("SCHEDULER_INTERVAL", time.Minute),
			DispatchThrottle: durationOr("SCHEDULER_DISPATCH_THROTTLE", 3*time.Minute),
			RetainFailedOnce: viper.GetBool("SCHEDULER_RETAIN_FAILED_ONCE"),
		},
		Notify: NotifyConfig{
			BotToken: viper.GetString("NOTIFY_BOT_TOKEN"),
			ChatID:   viper.GetInt64("NOTIFY_CHAT_ID"),
		},
	}

	if cfg.Database.Name == "" {
		log.Println("WARNING: DB_NAME is not set")
	}
	if cfg.Storage.BaseURL == "" || cfg.Storage.APIKey == "" {
		log.Println("WARNING: SUPABASE_STORAGE_URL / SUPABASE_API_KEY not set, PDF polling will be disabled")
	}

	return cfg, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}
