package exports

import (
	"bytes"
	"encoding/csv"
	"time"
)

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatTime(v time.Time) string {
	return v.UTC().Format(time.RFC3339)
}

func formatTimePtr(v *time.Time) string {
	if v == nil {
		return ""
	}
	return formatTime(*v)
}

func leadsCSV(leads []LeadRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "business_name", "contact_name", "email", "phone", "status", "source", "service_category", "assigned_rep", "created_at", "last_activity_at"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, l := range leads {
		record := []string{
			l.ID.String(),
			l.BusinessName,
			derefString(l.ContactName),
			derefString(l.Email),
			derefString(l.Phone),
			l.Status,
			derefString(l.Source),
			derefString(l.ServiceCategory),
			derefString(l.AssignedRep),
			formatTime(l.CreatedAt),
			formatTimePtr(l.LastActivityAt),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}

func activitiesCSV(activities []ActivityRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "lead_id", "business_name", "activity_type", "outcome", "notes", "member_name", "created_at"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, a := range activities {
		leadID := ""
		if a.LeadID != nil {
			leadID = a.LeadID.String()
		}
		record := []string{
			a.ID.String(),
			leadID,
			derefString(a.BusinessName),
			a.ActivityType,
			derefString(a.Outcome),
			derefString(a.Notes),
			derefString(a.MemberName),
			formatTime(a.CreatedAt),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}
