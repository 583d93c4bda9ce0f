// config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Economy     EconomyConfig
	Proofs      ProofStorageConfig
	Telegram    TelegramConfig
	Redis       RedisConfig
	Sheets      SheetsConfig
	Workers     WorkerConfig
	AuthService string
}

type ServerConfig struct {
	Port           string
	AllowedOrigins string
	ServiceToken   string
}

type DatabaseConfig struct {
	URL string
}

// EconomyConfig holds the coin rules shared by booking and the wallet.
type EconomyConfig struct {
	StartingCoins   int64
	MinWithdraw     int64
	DefaultSlots    int
	AdminRole       string
	UpdatesLocation *time.Location
}

type ProofStorageConfig struct {
	Provider string // local, r2, cloudinary

	LocalDir     string
	LocalBaseURL string

	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2Bucket          string
	CDNBaseURL        string

	CloudinaryCloudName    string
	CloudinaryUploadPreset string
}

type TelegramConfig struct {
	BotToken    string
	AdminChatID int64
	ChannelID   int64
	// AdminUserIDs are the Telegram accounts allowed to claim the admin chat
	// with /start when AdminChatID is unset.
	AdminUserIDs map[int64]bool
}

type RedisConfig struct {
	URL string
}

type SheetsConfig struct {
	// ServiceAccount is a path to the key file or the inline key JSON.
	ServiceAccount string
	SpreadsheetID  string
}

type WorkerConfig struct {
	RoomReleasePollInterval    time.Duration
	LeaderboardRefreshInterval time.Duration
	LeaderboardSize            int
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "5200"),
			AllowedOrigins: normalizeOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
			ServiceToken:   strings.TrimSpace(os.Getenv("GAME_SERVICE_TOKEN")),
		},
		Database: DatabaseConfig{
			URL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		},
		Economy: EconomyConfig{
			AdminRole: getEnv("ADMIN_ROLE", "admin"),
		},
		Proofs: ProofStorageConfig{
			Provider:               strings.ToLower(getEnv("PROOF_STORAGE", "local")),
			LocalDir:               getEnv("PROOF_LOCAL_DIR", "uploads"),
			LocalBaseURL:           strings.TrimRight(getEnv("PROOF_LOCAL_BASE_URL", "/uploads"), "/"),
			R2AccountID:            os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			R2AccessKeyID:          os.Getenv("R2_ACCESS_KEY_ID"),
			R2AccessKeySecret:      os.Getenv("R2_ACCESS_KEY_SECRET"),
			R2Bucket:               os.Getenv("R2_BUCKET_NAME"),
			CDNBaseURL:             os.Getenv("CDN_BASE_URL"),
			CloudinaryCloudName:    getEnv("CLOUDINARY_CLOUD_NAME", os.Getenv("EXPO_PUBLIC_CLOUDINARY_CLOUD_NAME")),
			CloudinaryUploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", os.Getenv("EXPO_PUBLIC_CLOUDINARY_UPLOAD_PRESET")),
		},
		Telegram: TelegramConfig{
			BotToken:     strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
			AdminUserIDs: parseAdminIDs(os.Getenv("TELEGRAM_ADMIN_IDS")),
		},
		Redis: RedisConfig{
			URL: strings.TrimSpace(os.Getenv("REDIS_URL")),
		},
		Sheets: SheetsConfig{
			ServiceAccount: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))),
			SpreadsheetID:  strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")),
		},
		AuthService: strings.TrimRight(strings.TrimSpace(os.Getenv("AUTH_SERVICE_URL")), "/"),
	}

	if cfg.Server.ServiceToken == "" {
		return nil, fmt.Errorf("GAME_SERVICE_TOKEN is not set")
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	var err error
	if cfg.Economy.StartingCoins, err = getInt64("STARTING_COINS", 0); err != nil {
		return nil, err
	}
	if cfg.Economy.StartingCoins < 0 {
		return nil, fmt.Errorf("STARTING_COINS must be >= 0")
	}
	if cfg.Economy.MinWithdraw, err = getInt64("MIN_WITHDRAW", 500); err != nil {
		return nil, err
	}
	slots, err := getInt64("DEFAULT_SLOTS", 50)
	if err != nil {
		return nil, err
	}
	if slots <= 0 {
		return nil, fmt.Errorf("DEFAULT_SLOTS must be > 0")
	}
	cfg.Economy.DefaultSlots = int(slots)

	tz := getEnv("UPDATES_TIMEZONE", "Local")
	if cfg.Economy.UpdatesLocation, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid UPDATES_TIMEZONE %q: %w", tz, err)
	}

	if cfg.Telegram.AdminChatID, err = getInt64("TELEGRAM_ADMIN_CHAT_ID", 0); err != nil {
		return nil, err
	}
	if cfg.Telegram.ChannelID, err = getInt64("TELEGRAM_CHANNEL_ID", 0); err != nil {
		return nil, err
	}

	if cfg.Workers.RoomReleasePollInterval, err = getDuration("ROOM_RELEASE_POLL_INTERVAL", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Workers.LeaderboardRefreshInterval, err = getDuration("LEADERBOARD_REFRESH_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	size, err := getInt64("LEADERBOARD_SIZE", 5)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("LEADERBOARD_SIZE must be > 0")
	}
	cfg.Workers.LeaderboardSize = int(size)

	switch cfg.Proofs.Provider {
	case "local", "r2", "cloudinary":
	default:
		return nil, fmt.Errorf("unknown PROOF_STORAGE: %s", cfg.Proofs.Provider)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// parseAdminIDs reads a comma separated list of Telegram user ids, skipping
// anything that is not a number.
func parseAdminIDs(raw string) map[int64]bool {
	m := map[int64]bool{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		m[v] = true
	}
	return m
}

func getInt64(key string, defaultValue int64) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

// normalizeOrigins trims each comma-separated origin for the CORS middleware.
func normalizeOrigins(raw string) string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}
