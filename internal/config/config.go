package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/exfador/starvell-monitor/internal/starvell"
)

type Config struct {
	TelegramBotToken string
	DatabaseURL      string

	ChatPollInterval   int
	OrdersPollInterval int
	BumpInterval       int
	DigestInterval     int
	PollingTimeout     int

	DigestGistID  string
	DigestOwnerID int64
	GitHubToken   string

	Debug bool

	envPath string
}

func Load() (*Config, error) {
	envPath := getEnvWithDefault("ENV_FILE", ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading %s: %v", envPath, err)
	}

	chatInterval, err := strconv.Atoi(getEnvWithDefault("CHAT_POLL_INTERVAL", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_POLL_INTERVAL: %v", err)
	}
	ordersInterval, err := strconv.Atoi(getEnvWithDefault("ORDERS_POLL_INTERVAL", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORDERS_POLL_INTERVAL: %v", err)
	}
	bumpInterval, err := strconv.Atoi(getEnvWithDefault("BUMP_INTERVAL", "1800"))
	if err != nil {
		return nil, fmt.Errorf("invalid BUMP_INTERVAL: %v", err)
	}
	digestInterval, err := strconv.Atoi(getEnvWithDefault("DIGEST_INTERVAL", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid DIGEST_INTERVAL: %v", err)
	}
	ownerID, err := strconv.ParseInt(getEnvWithDefault("DIGEST_OWNER_ID", "71018041"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DIGEST_OWNER_ID: %v", err)
	}

	cfg := &Config{
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		ChatPollInterval:   chatInterval,
		OrdersPollInterval: ordersInterval,
		BumpInterval:       bumpInterval,
		DigestInterval:     digestInterval,
		PollingTimeout:     60, // Default Telegram polling timeout
		DigestGistID:       getEnvWithDefault("DIGEST_GIST_ID", "89e52dbb3ca81aee82b6a3d8b51b55e2"),
		DigestOwnerID:      ownerID,
		GitHubToken:        os.Getenv("GITHUB_TOKEN"),
		Debug:              os.Getenv("DEBUG") == "1" || os.Getenv("DEBUG") == "true",
		envPath:            envPath,
	}

	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if os.Getenv("SESSION_COOKIE") == "" {
		return nil, fmt.Errorf("SESSION_COOKIE is required")
	}
	return cfg, nil
}

// Credentials re-reads the session cookie from the env file on every call, so
// a cookie rotated on disk is picked up without a restart. The process
// environment is the fallback when the file is unreadable.
func (c *Config) Credentials() starvell.Credentials {
	if values, err := godotenv.Read(c.envPath); err == nil {
		if session := values["SESSION_COOKIE"]; session != "" {
			return starvell.Credentials{Session: session, SID: values["SESSION_SID"]}
		}
	}
	return starvell.Credentials{
		Session: os.Getenv("SESSION_COOKIE"),
		SID:     os.Getenv("SESSION_SID"),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
