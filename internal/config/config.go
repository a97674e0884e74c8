package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "BLOG_PUBLISHER_CONFIG"
	databaseDriverEnv = "DATABASE_DRIVER"
	databaseDSNEnv    = "DATABASE_DSN"
	openAIAPIKeyEnv   = "OPENAI_API_KEY"
	openAIModelEnv    = "OPENAI_MODEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Generator     GeneratorConfig    `yaml:"generator"`
	OpenAI        OpenAIConfig       `yaml:"openai"`
	Notifications NotificationConfig `yaml:"notifications"`
	Site          SiteConfig         `yaml:"site"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// DatabaseConfig describes the storage driver and its connection string.
// Driver is "sqlite" (DSN is a file path) or "postgres" (DSN is a pq URL).
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// SchedulerConfig defines the cron specs of the periodic triggers.
type SchedulerConfig struct {
	ManualSpec string         `yaml:"manualSpec"`
	HourlySpec string         `yaml:"hourlySpec"`
	DailySpec  string         `yaml:"dailySpec"`
	Timezone   string         `yaml:"timezone"`
	location   *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	if s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			return loc
		}
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// GeneratorConfig bounds template-based content generation.
type GeneratorConfig struct {
	MinWords int `yaml:"minWords"`
	MaxWords int `yaml:"maxWords"`
}

// OpenAIConfig defines how to contact the OpenAI-compatible API. An empty
// APIKey disables the backend and content falls back to templates.
type OpenAIConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"apiKey"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Timeout bounds a single generation call against the backend.
func (o OpenAIConfig) Timeout() time.Duration {
	if o.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to announce publications.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SiteConfig carries presentation details embedded in generated metadata.
type SiteConfig struct {
	Name string `yaml:"name"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDriverEnv); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.Driver != "" {
		base.Database.Driver = override.Database.Driver
	}
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}

	if override.Scheduler.ManualSpec != "" {
		base.Scheduler.ManualSpec = override.Scheduler.ManualSpec
	}
	if override.Scheduler.HourlySpec != "" {
		base.Scheduler.HourlySpec = override.Scheduler.HourlySpec
	}
	if override.Scheduler.DailySpec != "" {
		base.Scheduler.DailySpec = override.Scheduler.DailySpec
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Generator.MinWords > 0 {
		base.Generator.MinWords = override.Generator.MinWords
	}
	if override.Generator.MaxWords > 0 {
		base.Generator.MaxWords = override.Generator.MaxWords
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}
	if override.OpenAI.TimeoutSeconds > 0 {
		base.OpenAI.TimeoutSeconds = override.OpenAI.TimeoutSeconds
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Site.Name != "" {
		base.Site.Name = override.Site.Name
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database: DatabaseConfig{Driver: "sqlite", DSN: "data/blog.db"},
		Scheduler: SchedulerConfig{
			ManualSpec: "* * * * *",
			HourlySpec: "0 * * * *",
			DailySpec:  "0 9 * * *",
			Timezone:   defaultTimezone,
			location:   tz,
		},
		Generator: GeneratorConfig{MinWords: 800, MaxWords: 1200},
		OpenAI: OpenAIConfig{
			Endpoint:       "https://api.openai.com/v1/chat/completions",
			Model:          "gpt-4o-mini",
			APIKey:         "",
			TimeoutSeconds: 30,
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		Site:    SiteConfig{Name: "Blog"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
