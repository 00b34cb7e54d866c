package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/studyhub/premium-channel-bot/internal/catalog"
)

// Config is assembled once at startup and passed into the components that
// need it; nothing reads the environment after Load returns.
type Config struct {
	BotToken      string
	AdminID       int64
	AdminUsername string

	UPIID     string
	QRCodeURL string

	ReminderDays int

	Channels []catalog.Channel
}

// channelDef is the static part of a catalog entry; the transport channel ID
// comes from CHANNEL_ID_<n> at startup.
type channelDef struct {
	key          string
	name         string
	price        int64
	validityDays int
	description  string
}

var channelDefs = []channelDef{
	{"study_data_1", "Study Data 1", 499, 30, "Complete study material for beginners"},
	{"study_data_2", "Study Data 2", 699, 45, "Advanced study resources for intermediate level"},
	{"study_data_3", "Study Data 3", 899, 60, "Premium materials for advanced students"},
	{"study_data_4", "Study Data 4", 1099, 90, "Expert level materials with practice sets"},
	{"study_data_5", "Study Data 5", 1499, 120, "Complete preparation package with mock tests"},
	{"study_data_6", "Study Data 6", 1999, 180, "Comprehensive package with personal guidance"},
}

func Load() (*Config, error) {
	adminID, err := envInt64("ADMIN_ID")
	if err != nil {
		return nil, fmt.Errorf("ADMIN_ID: %w", err)
	}
	if adminID == 0 {
		return nil, fmt.Errorf("ADMIN_ID is required")
	}

	cfg := &Config{
		BotToken:      strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		AdminID:       adminID,
		AdminUsername: strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		UPIID:         envDefault("UPI_ID", "example@upi"),
		QRCodeURL:     envDefault("QR_CODE_URL", ""),
		ReminderDays:  envIntDefault("REMINDER_DAYS", 3),
	}
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	for i, def := range channelDefs {
		id, err := envInt64(fmt.Sprintf("CHANNEL_ID_%d", i+1))
		if err != nil {
			return nil, fmt.Errorf("CHANNEL_ID_%d: %w", i+1, err)
		}
		if id == 0 {
			continue
		}
		cfg.Channels = append(cfg.Channels, catalog.Channel{
			Key:          def.key,
			Name:         def.name,
			ChannelID:    id,
			Price:        def.price,
			ValidityDays: def.validityDays,
			Description:  def.description,
		})
	}
	if len(cfg.Channels) == 0 {
		return nil, fmt.Errorf("no channels configured, set CHANNEL_ID_1..%d", len(channelDefs))
	}

	return cfg, nil
}

func envDefault(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func envInt64(name string) (int64, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func envIntDefault(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
