package exports

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLeadsCSVShapesRows(t *testing.T) {
	contact := "Jane Doe"
	email := "jane@acme.test"
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	leads := []LeadRow{
		{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), BusinessName: "Acme Corp", ContactName: &contact, Email: &email, Status: "Connected", CreatedAt: created},
		{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), BusinessName: "Beta LLC", Status: "Not Contacted", CreatedAt: created},
	}

	data, err := leadsCSV(leads)
	if err != nil {
		t.Fatalf("leadsCSV: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}
	if records[0][0] != "id" || records[0][1] != "business_name" {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][1] != "Acme Corp" || records[1][3] != "jane@acme.test" {
		t.Fatalf("row 1 = %v", records[1])
	}
	// Nil pointers become empty cells, not the string "<nil>".
	if records[2][2] != "" || records[2][3] != "" {
		t.Fatalf("row 2 = %v, want empty optional cells", records[2])
	}
	if records[1][9] != "2026-03-01T10:00:00Z" {
		t.Fatalf("created_at cell = %q", records[1][9])
	}
}

func TestActivitiesCSVShapesRows(t *testing.T) {
	leadID := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	outcome := "Connected"
	activities := []ActivityRow{
		{ID: uuid.New(), LeadID: &leadID, ActivityType: "call", Outcome: &outcome, CreatedAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)},
		{ID: uuid.New(), ActivityType: "note", CreatedAt: time.Date(2026, 3, 2, 9, 31, 0, 0, time.UTC)},
	}

	data, err := activitiesCSV(activities)
	if err != nil {
		t.Fatalf("activitiesCSV: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records", len(records))
	}
	if records[1][1] != leadID.String() || records[1][4] != "Connected" {
		t.Fatalf("row 1 = %v", records[1])
	}
	// Orphan logs export with an empty lead_id cell.
	if records[2][1] != "" {
		t.Fatalf("row 2 lead_id = %q, want empty", records[2][1])
	}
}
