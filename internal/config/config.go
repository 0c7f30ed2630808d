package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the configuration for the application.
type Config struct {
	// LLM
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string

	// Vendor portal (backend REST API)
	PortalURL      string
	PortalAPIKey   string
	PortalAdminKey string // "id:secret" pair used to mint admin JWTs

	// Vendor catalog (PostgreSQL). Optional: sample vendors are used when unset.
	DatabaseURL string

	// Local state (SQLite)
	DatabasePath string

	// Telegram
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-2.0-flash"
	}

	portalURL := os.Getenv("VENDOR_PORTAL_API_URL")
	if portalURL == "" {
		portalURL = "http://localhost:3000/api/v1"
	}

	portalAPIKey := os.Getenv("VENDOR_PORTAL_API_KEY")
	portalAdminKey := os.Getenv("VENDOR_PORTAL_ADMIN_KEY")
	if portalAdminKey == "" {
		// Fallback to the read key if only one is provided
		portalAdminKey = portalAPIKey
	}

	databasePath := os.Getenv("DATABASE_PATH")
	if databasePath == "" {
		databasePath = "data/orchestrator.db"
	}

	// Telegram Config (optional for CLI, required for Bot)
	telegramBotToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	telegramWebhookURL := os.Getenv("TELEGRAM_WEBHOOK_URL")

	var allowedIDs []int64
	for _, part := range strings.Split(os.Getenv("TELEGRAM_ALLOW_USER_IDS"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOW_USER_IDS entry %q: %w", part, err)
		}
		allowedIDs = append(allowedIDs, id)
	}

	var adminID int64
	if s := os.Getenv("ADMIN_TELEGRAM_ID"); s != "" {
		adminID, _ = strconv.ParseInt(s, 10, 64)
	}

	return &Config{
		GeminiAPIKey:           geminiAPIKey,
		GeminiModel:            geminiModel,
		GroqAPIKey:             os.Getenv("GROQ_API_KEY"),
		PortalURL:              portalURL,
		PortalAPIKey:           portalAPIKey,
		PortalAdminKey:         portalAdminKey,
		DatabaseURL:            os.Getenv("APP_DATABASE_URL"),
		DatabasePath:           databasePath,
		TelegramBotToken:       telegramBotToken,
		TelegramWebhookURL:     telegramWebhookURL,
		TelegramAllowedUserIDs: allowedIDs,
		AdminTelegramID:        adminID,
	}, nil
}
