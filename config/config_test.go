package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GAME_SERVICE_TOKEN", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Economy.MinWithdraw != 500 {
		t.Fatalf("MinWithdraw = %d, want 500", cfg.Economy.MinWithdraw)
	}
	if cfg.Economy.StartingCoins != 0 {
		t.Fatalf("StartingCoins = %d, want 0", cfg.Economy.StartingCoins)
	}
	if cfg.Economy.DefaultSlots != 50 {
		t.Fatalf("DefaultSlots = %d, want 50", cfg.Economy.DefaultSlots)
	}
	if cfg.Economy.AdminRole != "admin" {
		t.Fatalf("AdminRole = %q, want admin", cfg.Economy.AdminRole)
	}
	if cfg.Workers.RoomReleasePollInterval != 10*time.Second {
		t.Fatalf("RoomReleasePollInterval = %v, want 10s", cfg.Workers.RoomReleasePollInterval)
	}
	if cfg.Workers.LeaderboardSize != 5 {
		t.Fatalf("LeaderboardSize = %d, want 5", cfg.Workers.LeaderboardSize)
	}
	if cfg.Proofs.Provider != "local" {
		t.Fatalf("Provider = %q, want local", cfg.Proofs.Provider)
	}
}

func TestLoadRequiresServiceToken(t *testing.T) {
	t.Setenv("GAME_SERVICE_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when GAME_SERVICE_TOKEN is missing")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"STARTING_COINS":             "-5",
		"MIN_WITHDRAW":               "lots",
		"ROOM_RELEASE_POLL_INTERVAL": "soon",
		"PROOF_STORAGE":              "ftp",
		"UPDATES_TIMEZONE":           "Mars/Olympus",
		"LEADERBOARD_SIZE":           "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoadCloudinaryFallsBackToExpoNames(t *testing.T) {
	setRequired(t)
	t.Setenv("PROOF_STORAGE", "cloudinary")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "")
	t.Setenv("EXPO_PUBLIC_CLOUDINARY_CLOUD_NAME", "demo-cloud")
	t.Setenv("EXPO_PUBLIC_CLOUDINARY_UPLOAD_PRESET", "proofs")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Proofs.CloudinaryCloudName != "demo-cloud" {
		t.Fatalf("CloudinaryCloudName = %q, want demo-cloud", cfg.Proofs.CloudinaryCloudName)
	}
	if cfg.Proofs.CloudinaryUploadPreset != "proofs" {
		t.Fatalf("CloudinaryUploadPreset = %q, want proofs", cfg.Proofs.CloudinaryUploadPreset)
	}
}

func TestNormalizeOrigins(t *testing.T) {
	got := normalizeOrigins(" http://a.test , ,http://b.test ")
	if got != "http://a.test,http://b.test" {
		t.Fatalf("normalizeOrigins = %q", got)
	}
}

func TestLoadTelegramAdminIDsAndSheetsKey(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_ADMIN_IDS", " 1001, abc,,2002 ")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", `{"type":"service_account"}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	ids := cfg.Telegram.AdminUserIDs
	if len(ids) != 2 || !ids[1001] || !ids[2002] {
		t.Fatalf("AdminUserIDs = %v", ids)
	}
	if cfg.Sheets.ServiceAccount != `{"type":"service_account"}` {
		t.Fatalf("ServiceAccount = %q", cfg.Sheets.ServiceAccount)
	}

	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "/etc/keys/sa.json")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Sheets.ServiceAccount != "/etc/keys/sa.json" {
		t.Fatalf("ServiceAccount = %q, want the file path", cfg.Sheets.ServiceAccount)
	}
}
