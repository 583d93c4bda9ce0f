package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tournament-booking-system/models"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

func sampleTournament() *models.Tournament {
	start := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	return &models.Tournament{
		ID:        "t1",
		Name:      "Friday Squad",
		StartTime: start,
		BookedSlots: []models.BookedSlot{
			{SlotNumber: 7, UserID: "u2", InGameName: "Bee", InGameUID: "22", BookedAt: start.Add(-time.Hour)},
			{SlotNumber: 2, UserID: "u1", InGameName: "Ace", InGameUID: "11", BookedAt: start.Add(-2 * time.Hour)},
		},
	}
}

func TestSlotRowsOrderedBySlot(t *testing.T) {
	rows := SlotRows(sampleTournament())
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][2] != 2 || rows[0][3] != "Ace" || rows[1][2] != 7 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][6] != "2024-06-01T18:00:00Z" {
		t.Fatalf("booked_at = %v", rows[0][6])
	}
}

func TestExportSlotsAppendsRows(t *testing.T) {
	var (
		gotPath string
		gotBody sheetsv4.ValueRange
		gotOpt  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotOpt = r.URL.Query().Get("valueInputOption")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	}))
	defer srv.Close()

	exp, err := NewWithOptions(context.Background(), "sheet-1",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}

	n, err := exp.ExportSlots(context.Background(), sampleTournament())
	if err != nil || n != 2 {
		t.Fatalf("ExportSlots = %d, %v", n, err)
	}
	if !strings.Contains(gotPath, "/spreadsheets/sheet-1/values/") || !strings.HasSuffix(gotPath, ":append") {
		t.Fatalf("path = %q", gotPath)
	}
	if gotOpt != "RAW" || len(gotBody.Values) != 2 {
		t.Fatalf("option = %q, values = %v", gotOpt, gotBody.Values)
	}

	empty := &models.Tournament{Name: "Empty"}
	if n, err := exp.ExportSlots(context.Background(), empty); err != nil || n != 0 {
		t.Fatalf("empty export = %d, %v", n, err)
	}
}

func TestNewRequiresCredentialsFile(t *testing.T) {
	if _, err := New(context.Background(), "/nonexistent/sa.json", "sheet-1"); err == nil {
		t.Fatalf("missing credentials file accepted")
	}
}

func TestCredentialsOptionAcceptsInlineJSON(t *testing.T) {
	opt, err := credentialsOption(` {"type":"service_account","project_id":"slots"}`)
	if err != nil || opt == nil {
		t.Fatalf("inline key = %v, %v", opt, err)
	}
	if _, err := credentialsOption("/nonexistent/sa.json"); err == nil {
		t.Fatalf("missing key file accepted")
	}
}
