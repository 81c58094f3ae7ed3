// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL          string        `yaml:"url"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	TTL          time.Duration `yaml:"ttl"`
	AlertChannel string        `yaml:"alert_channel"`
}

type GatewayConfig struct {
	BaseURL          string        `yaml:"base_url"`
	APIKey           string        `yaml:"api_key"`
	CallbackURL      string        `yaml:"callback_url"`
	WebhookToken     string        `yaml:"webhook_token"`
	Timeout          time.Duration `yaml:"timeout"`
	PaidLookbackDays int           `yaml:"paid_lookback_days"`
}

type RouterConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

type TelegramConfig struct {
	Token        string  `yaml:"token"`
	AdminChatIDs []int64 `yaml:"admin_chat_ids"`
}

// LocationBatchConfig throttles the location-partitioned suspension path
// so a burst of provisioning calls cannot overwhelm the router fleet.
type LocationBatchConfig struct {
	BatchSize           int           `yaml:"batch_size"`
	MaxConcurrentRouter int           `yaml:"max_concurrent_router"`
	BatchDelay          time.Duration `yaml:"batch_delay"`
	LocationDelay       time.Duration `yaml:"location_delay"`
}

type BillingConfig struct {
	InvoiceLeadDays     int                 `yaml:"invoice_lead_days"`
	ReminderLeadDays    int                 `yaml:"reminder_lead_days"`
	SuspendDay          int                 `yaml:"suspend_day"`
	RetroactiveUntilDay int                 `yaml:"retroactive_until_day"`
	MaxInvoiceRetries   int                 `yaml:"max_invoice_retries"`
	RetryInterval       time.Duration       `yaml:"retry_interval"`
	BatchSize           int                 `yaml:"batch_size"`
	SuspendBatchSize    int                 `yaml:"suspend_batch_size"`
	Location            LocationBatchConfig `yaml:"location"`
}

type SchedulerConfig struct {
	Timezone            string        `yaml:"timezone"`
	InvoiceCron         string        `yaml:"invoice_cron"`
	SuspendCron         string        `yaml:"suspend_cron"`
	RetroactiveCron     string        `yaml:"retroactive_cron"`
	ReminderCron        string        `yaml:"reminder_cron"`
	ReconcileInterval   time.Duration `yaml:"reconcile_interval"`
	InvoiceRetryTick    time.Duration `yaml:"invoice_retry_interval"`
	RouterRetryInterval time.Duration `yaml:"router_retry_interval"`
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Admin     AdminConfig     `yaml:"admin"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Router    RouterConfig    `yaml:"router"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Billing   BillingConfig   `yaml:"billing"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 8080
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Redis.AlertChannel == "" {
		cfg.Redis.AlertChannel = "billing:alerts"
	}
	if cfg.Gateway.Timeout <= 0 {
		cfg.Gateway.Timeout = 15 * time.Second
	}
	if cfg.Gateway.PaidLookbackDays <= 0 {
		cfg.Gateway.PaidLookbackDays = 3
	}
	if cfg.Router.Timeout <= 0 {
		cfg.Router.Timeout = 10 * time.Second
	}

	if cfg.Billing.InvoiceLeadDays <= 0 {
		cfg.Billing.InvoiceLeadDays = 5
	}
	if cfg.Billing.ReminderLeadDays <= 0 {
		cfg.Billing.ReminderLeadDays = 3
	}
	if cfg.Billing.SuspendDay <= 0 {
		cfg.Billing.SuspendDay = 5
	}
	if cfg.Billing.RetroactiveUntilDay <= 0 {
		cfg.Billing.RetroactiveUntilDay = 10
	}
	if cfg.Billing.MaxInvoiceRetries <= 0 {
		cfg.Billing.MaxInvoiceRetries = 3
	}
	if cfg.Billing.RetryInterval <= 0 {
		cfg.Billing.RetryInterval = time.Hour
	}
	if cfg.Billing.BatchSize <= 0 {
		cfg.Billing.BatchSize = 100
	}
	if cfg.Billing.SuspendBatchSize <= 0 {
		cfg.Billing.SuspendBatchSize = 50
	}
	if cfg.Billing.Location.BatchSize <= 0 {
		cfg.Billing.Location.BatchSize = 30
	}
	if cfg.Billing.Location.MaxConcurrentRouter <= 0 {
		cfg.Billing.Location.MaxConcurrentRouter = 5
	}
	if cfg.Billing.Location.BatchDelay <= 0 {
		cfg.Billing.Location.BatchDelay = time.Second
	}
	if cfg.Billing.Location.LocationDelay <= 0 {
		cfg.Billing.Location.LocationDelay = 2 * time.Second
	}

	if cfg.Scheduler.Timezone == "" {
		cfg.Scheduler.Timezone = "Asia/Jakarta"
	}
	if cfg.Scheduler.InvoiceCron == "" {
		cfg.Scheduler.InvoiceCron = "0 10 * * *"
	}
	if cfg.Scheduler.SuspendCron == "" {
		cfg.Scheduler.SuspendCron = "0 0 5 * *"
	}
	if cfg.Scheduler.RetroactiveCron == "" {
		cfg.Scheduler.RetroactiveCron = "0 1 * * *"
	}
	if cfg.Scheduler.ReminderCron == "" {
		cfg.Scheduler.ReminderCron = "0 8 * * *"
	}
	if cfg.Scheduler.ReconcileInterval <= 0 {
		cfg.Scheduler.ReconcileInterval = 15 * time.Minute
	}
	if cfg.Scheduler.InvoiceRetryTick <= 0 {
		cfg.Scheduler.InvoiceRetryTick = time.Hour
	}
	if cfg.Scheduler.RouterRetryInterval <= 0 {
		cfg.Scheduler.RouterRetryInterval = 5 * time.Minute
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Gateway.BaseURL == "" {
		return nil, errors.New("gateway.base_url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
