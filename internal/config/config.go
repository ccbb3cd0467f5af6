package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the full configuration surface of the relay. Credentials and
// channel list are required; everything else has a default.
type Config struct {
	BearerToken string
	ClientID    string
	WebhookURL  string
	ModeratorID string

	// Broadcasters are the channel ids polled each run.
	Broadcasters []string

	// DatabaseURL enables the Postgres delivery ledger when set; empty
	// means the in-memory ledger.
	DatabaseURL string

	// PollCron re-runs the relay on a cron schedule. Empty means run once
	// and exit.
	PollCron string

	HealthAddr  string
	LogLevel    string
	Environment string

	ChunkSize       int
	ChunksPerMinute int

	// HelixURL overrides the Helix base URL, mainly for tests.
	HelixURL string
}

// Load reads configuration from environment variables and a .env file if
// one is present. Existing env variables win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.BearerToken = os.Getenv("TWITCH_BEARER_TOKEN")
	if cfg.BearerToken == "" {
		return nil, fmt.Errorf("TWITCH_BEARER_TOKEN is not set")
	}

	cfg.ClientID = os.Getenv("TWITCH_CLIENT_ID")
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("TWITCH_CLIENT_ID is not set")
	}

	cfg.WebhookURL = os.Getenv("DISCORD_WEBHOOK_URL")
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("DISCORD_WEBHOOK_URL is not set")
	}

	cfg.ModeratorID = os.Getenv("MODERATOR_ID")
	if cfg.ModeratorID == "" {
		return nil, fmt.Errorf("MODERATOR_ID is not set")
	}

	for _, id := range strings.Split(os.Getenv("BROADCASTER_IDS"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			cfg.Broadcasters = append(cfg.Broadcasters, id)
		}
	}
	if len(cfg.Broadcasters) == 0 {
		return nil, fmt.Errorf("BROADCASTER_IDS is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.PollCron = os.Getenv("POLL_CRON")
	cfg.HelixURL = os.Getenv("HELIX_URL")

	cfg.HealthAddr = os.Getenv("HEALTH_ADDR")
	if cfg.HealthAddr == "" {
		cfg.HealthAddr = "0.0.0.0:9090"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	var err error
	if cfg.ChunkSize, err = intEnv("CHUNK_SIZE", 3); err != nil {
		return nil, err
	}
	if cfg.ChunksPerMinute, err = intEnv("CHUNKS_PER_MINUTE", 20); err != nil {
		return nil, err
	}

	return cfg, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}
