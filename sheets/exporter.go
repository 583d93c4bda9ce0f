// Package sheets exports tournament slot lists to a Google spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"tournament-booking-system/models"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

const SheetSlots = "Slots"

type Exporter struct {
	srv           *sheetsv4.Service
	spreadsheetID string
	sheet         string
}

// New authenticates with a service account key, given either as a path to
// the key file or as the key JSON itself.
func New(ctx context.Context, serviceAccount, spreadsheetID string) (*Exporter, error) {
	creds, err := credentialsOption(serviceAccount)
	if err != nil {
		return nil, err
	}
	return NewWithOptions(ctx, spreadsheetID, creds, option.WithScopes(sheetsv4.SpreadsheetsScope))
}

func credentialsOption(serviceAccount string) (option.ClientOption, error) {
	serviceAccount = strings.TrimSpace(serviceAccount)
	if strings.HasPrefix(serviceAccount, "{") {
		return option.WithCredentialsJSON([]byte(serviceAccount)), nil
	}
	if _, err := os.Stat(serviceAccount); err != nil {
		return nil, fmt.Errorf("service account file: %w", err)
	}
	return option.WithCredentialsFile(serviceAccount), nil
}

func NewWithOptions(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Exporter, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is empty")
	}
	srv, err := sheetsv4.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Exporter{srv: srv, spreadsheetID: spreadsheetID, sheet: SheetSlots}, nil
}

// ExportSlots appends one row per booked slot, ordered by slot number.
func (e *Exporter) ExportSlots(ctx context.Context, t *models.Tournament) (int, error) {
	rows := SlotRows(t)
	if len(rows) == 0 {
		return 0, nil
	}
	vr := &sheetsv4.ValueRange{Values: rows}
	_, err := e.srv.Spreadsheets.Values.Append(e.spreadsheetID, e.sheet+"!A:Z", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// SlotRows builds the sheet rows: tournament, start, slot, in-game name,
// in-game uid, user id, booked at.
func SlotRows(t *models.Tournament) [][]interface{} {
	slots := append([]models.BookedSlot(nil), t.BookedSlots...)
	sort.Slice(slots, func(i, j int) bool { return slots[i].SlotNumber < slots[j].SlotNumber })

	rows := make([][]interface{}, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, []interface{}{
			t.Name,
			t.StartTime.Format(time.RFC3339),
			s.SlotNumber,
			s.InGameName,
			s.InGameUID,
			s.UserID,
			s.BookedAt.Format(time.RFC3339),
		})
	}
	return rows
}
