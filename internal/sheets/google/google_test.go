package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"moneybot/internal/core"
	"moneybot/internal/ports"

	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type appendCall struct {
	path  string
	query url.Values
	body  gsheet.ValueRange
}

func newFakeSheets(t *testing.T, status int) (*gsheet.Service, *[]appendCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []appendCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var vr gsheet.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		mu.Lock()
		calls = append(calls, appendCall{path: r.URL.Path, query: r.URL.Query(), body: vr})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 300 {
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"boom"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1","updates":{"updatedRows":1}}`))
	}))
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, &calls
}

func TestAppendEvent_Recorded(t *testing.T) {
	svc, calls := newFakeSheets(t, http.StatusOK)
	c := New(svc, "sheet-1", "Journal")

	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	err := c.AppendEvent(context.Background(), ports.JournalEntry{
		EventID:   "ev-1",
		Event:     "ledger.recorded",
		UserID:    "U1",
		Kind:      core.Expense,
		Memo:      "ค่าข้าว",
		Amount:    core.Money{Cents: 12050},
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*calls))
	}
	call := (*calls)[0]
	if !strings.Contains(call.path, "2024 Journal!A:H:append") {
		t.Errorf("unexpected path %q", call.path)
	}
	if got := call.query.Get("valueInputOption"); got != "USER_ENTERED" {
		t.Errorf("valueInputOption = %q", got)
	}
	if got := call.query.Get("insertDataOption"); got != "INSERT_ROWS" {
		t.Errorf("insertDataOption = %q", got)
	}
	if len(call.body.Values) != 1 {
		t.Fatalf("expected one row, got %v", call.body.Values)
	}
	row := call.body.Values[0]
	want := []any{"2024-03-01 09:30:00", "ev-1", "ledger.recorded", "U1", "expense", "ค่าข้าว", 120.5, ""}
	if len(row) != len(want) {
		t.Fatalf("row = %v", row)
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("col %d = %#v, want %#v", i, row[i], want[i])
		}
	}
}

func TestAppendEvent_Cleared(t *testing.T) {
	svc, calls := newFakeSheets(t, http.StatusOK)
	c := New(svc, "sheet-1", "")

	err := c.AppendEvent(context.Background(), ports.JournalEntry{
		EventID:   "ev-2",
		Event:     "ledger.cleared",
		UserID:    "U1",
		Deleted:   3,
		Timestamp: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	call := (*calls)[0]
	if !strings.Contains(call.path, "2025 Journal!A:H") {
		t.Errorf("unexpected path %q", call.path)
	}
	row := call.body.Values[0]
	// JSON numbers decode as float64.
	if row[6] != "" || row[7] != float64(3) {
		t.Errorf("amount/deleted = %#v/%#v", row[6], row[7])
	}
}

func TestAppendEvent_Errors(t *testing.T) {
	svc, _ := newFakeSheets(t, http.StatusInternalServerError)
	c := New(svc, "sheet-1", "Journal")

	if err := c.AppendEvent(context.Background(), ports.JournalEntry{UserID: "U1", Event: "ledger.cleared"}); err == nil {
		t.Error("expected error from failing backend")
	}
	if err := c.AppendEvent(context.Background(), ports.JournalEntry{Event: "ledger.cleared"}); err == nil {
		t.Error("expected error for missing user")
	}
	if err := (&Client{}).AppendEvent(context.Background(), ports.JournalEntry{UserID: "U1"}); err == nil {
		t.Error("expected error for nil service")
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Journal", 2024, "2024 Journal"},
		{"2023 Journal", 2024, "2023 Journal"},
		{"  Log ", 2025, "2025 Log"},
		{"", 2024, ""},
		{"12345", 2024, "2024 12345"},
	}
	for _, tt := range tests {
		if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
		}
	}
}

func TestNewFromEnv_MissingInputs(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	if _, err := NewFromEnv(context.Background(), "", "Journal"); err == nil {
		t.Error("expected error for missing spreadsheet id")
	}
	if _, err := NewFromEnv(context.Background(), "sheet-1", "Journal"); err == nil {
		t.Error("expected error for missing credentials")
	}
}
