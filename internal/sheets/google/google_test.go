package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pennywise/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil || err.Error() != "missing spreadsheet id" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet-id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_AppendWithoutService(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheet: "Ledger", loc: time.UTC}
	_, err := c.AppendSaving(context.Background(), core.Saving{
		Amount:     core.NewMoney(100),
		OccurredAt: time.Now(),
		Source:     core.SourceManual,
	})
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_AppendValidates(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheet: "Ledger", loc: time.UTC}
	_, err := c.AppendExpense(context.Background(), core.Expense{Name: "x"})
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_AppendExpense(t *testing.T) {
	var got gsheet.ValueRange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, ":append") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if !strings.Contains(r.URL.Path, "sheet-id") {
			t.Errorf("spreadsheet id missing from %s", r.URL.Path)
		}
		if q := r.URL.Query().Get("valueInputOption"); q != "USER_ENTERED" {
			t.Errorf("valueInputOption = %q", q)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"spreadsheetId":"sheet-id","updates":{"updatedRange":"Ledger!A7:H7"}}`))
	}))
	defer srv.Close()

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	c := NewWithService(svc, Config{SpreadsheetID: "sheet-id"})

	ref, err := c.AppendExpense(context.Background(), core.Expense{
		Name:        "Electricity",
		Amount:      core.NewMoney(1800_00),
		OccurredAt:  time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC),
		Tier:        core.Necessary,
		Category:    core.CategoryUtilities,
		PaymentMode: core.PaymentUPI,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "Ledger!A7:H7" {
		t.Errorf("ref = %q", ref)
	}
	if len(got.Values) != 1 || len(got.Values[0]) != 8 {
		t.Fatalf("unexpected values: %v", got.Values)
	}
	if got.Values[0][2] != "Electricity" || got.Values[0][5] != "1800.00" {
		t.Errorf("unexpected row: %v", got.Values[0])
	}
}
