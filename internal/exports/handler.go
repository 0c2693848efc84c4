package exports

import (
	"net/http"
	"strconv"
	"time"

	"outreach_portal_backend/internal/events"
	"outreach_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type Handler struct {
	repo     *Repository
	eventBus events.Bus
}

func NewHandler(repo *Repository, eventBus events.Bus) *Handler {
	return &Handler{repo: repo, eventBus: eventBus}
}

// ExportLeads writes all leads as CSV or JSON, selected by the format
// query parameter. CSV is the default.
func (h *Handler) ExportLeads(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	leads, err := h.repo.ListLeads(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "json":
		httpkit.OK(c, leads)
	case "csv":
		data, err := leadsCSV(leads)
		if err != nil {
			httpkit.HandleError(c, err)
			return
		}
		httpkit.CSV(c, "leads.csv", data)
	default:
		httpkit.Error(c, http.StatusBadRequest, "format must be csv or json", nil)
		return
	}

	h.eventBus.Publish(c.Request.Context(), events.DataExported{
		BaseEvent:  events.NewBaseEvent(),
		EntityType: "leads",
		Format:     format,
		Count:      len(leads),
		Actor:      identity.Email(),
	})
}

// ExportActivities writes activity logs from the last N days (default 90)
// as CSV or JSON.
func (h *Handler) ExportActivities(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	days := 90
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 3650 {
			days = parsed
		}
	}
	since := time.Now().AddDate(0, 0, -days)

	activities, err := h.repo.ListActivities(c.Request.Context(), since)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "json":
		httpkit.OK(c, activities)
	case "csv":
		data, err := activitiesCSV(activities)
		if err != nil {
			httpkit.HandleError(c, err)
			return
		}
		httpkit.CSV(c, "activities.csv", data)
	default:
		httpkit.Error(c, http.StatusBadRequest, "format must be csv or json", nil)
		return
	}

	h.eventBus.Publish(c.Request.Context(), events.DataExported{
		BaseEvent:  events.NewBaseEvent(),
		EntityType: "activities",
		Format:     format,
		Count:      len(activities),
		Actor:      identity.Email(),
	})
}

type reportResponse struct {
	GeneratedAt    time.Time     `json:"generated_at"`
	PeriodDays     int           `json:"period_days"`
	LeadsByStatus  []StatusCount `json:"leads_by_status"`
	TotalLeads     int           `json:"total_leads"`
	ActivityCount  int           `json:"activity_count"`
	EmailsSent     int           `json:"emails_sent"`
	ProposalsCount int           `json:"proposals_count"`
}

// ExportReport assembles a JSON summary. The four aggregates are
// independent queries and run concurrently.
func (h *Handler) ExportReport(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 3650 {
			days = parsed
		}
	}
	since := time.Now().AddDate(0, 0, -days)

	var report reportResponse
	report.GeneratedAt = time.Now().UTC()
	report.PeriodDays = days

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		counts, err := h.repo.CountLeadsByStatus(ctx)
		if err != nil {
			return err
		}
		report.LeadsByStatus = counts
		for _, sc := range counts {
			report.TotalLeads += sc.Count
		}
		return nil
	})
	g.Go(func() error {
		count, err := h.repo.CountActivitiesSince(ctx, since)
		report.ActivityCount = count
		return err
	})
	g.Go(func() error {
		count, err := h.repo.CountEmailsSent(ctx, since)
		report.EmailsSent = count
		return err
	})
	g.Go(func() error {
		count, err := h.repo.CountProposals(ctx, since)
		report.ProposalsCount = count
		return err
	})
	if err := g.Wait(); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	h.eventBus.Publish(c.Request.Context(), events.DataExported{
		BaseEvent:  events.NewBaseEvent(),
		EntityType: "report",
		Format:     "json",
		Count:      report.TotalLeads,
		Actor:      identity.Email(),
	})
	httpkit.OK(c, report)
}
