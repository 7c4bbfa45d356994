// Package google mirrors ledger events into a Google Sheets journal.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"moneybot/internal/ports"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const defaultJournalSheet = "Journal"

var _ ports.JournalWriter = (*Client)(nil)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// journalBase is the sheet name without year; each event goes to "<year> <base>".
	journalBase string
}

// New wraps an existing Sheets service.
func New(svc *gsheet.Service, spreadsheetID, journalBase string) *Client {
	journalBase = strings.TrimSpace(journalBase)
	if journalBase == "" {
		journalBase = defaultJournalSheet
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, journalBase: journalBase}
}

// NewFromEnv creates a Sheets client using a service account.
// Required: spreadsheetID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context, spreadsheetID, journalBase string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	creds, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created", "spreadsheet_id", spreadsheetID)
	return New(svc, spreadsheetID, journalBase), nil
}

func credentialsFromEnv() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return data, nil
}

// AppendEvent implements ports.JournalWriter
func (c *Client) AppendEvent(ctx context.Context, e ports.JournalEntry) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if e.UserID == "" {
		return errors.New("journal entry without user id")
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	sheet := yearPrefixedName(c.journalBase, ts.Year())
	rng := fmt.Sprintf("%s!A:H", sheet)
	vr := &gsheet.ValueRange{Values: [][]any{journalRow(e, ts)}}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", sheet, err)
	}
	return nil
}

// journalRow lays out: timestamp, event id, event, user, kind, memo, amount, deleted.
func journalRow(e ports.JournalEntry, ts time.Time) []any {
	var amount any = ""
	if e.Kind != "" {
		amount = float64(e.Amount.Cents) / 100.0
	}
	var deleted any = ""
	if e.Kind == "" {
		deleted = e.Deleted
	}
	return []any{
		ts.UTC().Format("2006-01-02 15:04:05"),
		e.EventID,
		e.Event,
		e.UserID,
		string(e.Kind),
		e.Memo,
		amount,
		deleted,
	}
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
