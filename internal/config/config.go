package config

import (
	"fmt"
	"os"
	"strings"
)

// Config carries every environment-driven setting the backend needs. Values
// are read once at startup; callers load a .env file first if they want one.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string

	// External product feed used by the catalog sync job.
	FeedBaseURL     string
	FeedStoreID     string
	FeedAccessToken string
	FeedUserAgent   string

	// Optional cron spec for scheduled catalog syncs, e.g. "0 0 3 * * *".
	SyncSchedule string

	// Outbound WhatsApp webhook used for order notifications (optional).
	WhatsAppURL        string
	WhatsAppToken      string
	WhatsAppDestNumber string
}

const defaultFeedBaseURL = "https://api.nuvemshop.com.br/v1"

func Load() Config {
	cfg := Config{
		Addr:               os.Getenv("SHOP_ADDR"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		FeedBaseURL:        os.Getenv("FEED_BASE_URL"),
		FeedStoreID:        os.Getenv("FEED_STORE_ID"),
		FeedAccessToken:    os.Getenv("FEED_ACCESS_TOKEN"),
		FeedUserAgent:      os.Getenv("FEED_USER_AGENT"),
		SyncSchedule:       os.Getenv("SYNC_SCHEDULE"),
		WhatsAppURL:        os.Getenv("WHATSAPP_API_URL"),
		WhatsAppToken:      os.Getenv("WHATSAPP_API_TOKEN"),
		WhatsAppDestNumber: os.Getenv("WHATSAPP_DEST_NUMBER"),
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.FeedBaseURL == "" {
		cfg.FeedBaseURL = defaultFeedBaseURL
	}

	return cfg
}

// ValidateSync reports whether the feed credentials required by the catalog
// sync job are present. The error names every missing variable so a
// misconfigured deployment fails with one actionable message instead of three.
func (c Config) ValidateSync() error {
	var missing []string
	if c.FeedStoreID == "" {
		missing = append(missing, "FEED_STORE_ID")
	}
	if c.FeedAccessToken == "" {
		missing = append(missing, "FEED_ACCESS_TOKEN")
	}
	if c.FeedUserAgent == "" {
		missing = append(missing, "FEED_USER_AGENT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing feed configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// WhatsAppConfigured reports whether the order notification webhook can be used.
func (c Config) WhatsAppConfigured() bool {
	return c.WhatsAppURL != "" && c.WhatsAppToken != "" && c.WhatsAppDestNumber != ""
}
