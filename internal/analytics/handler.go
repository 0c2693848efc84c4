package analytics

import (
	"math"
	"time"

	"outreach_portal_backend/internal/dashboard"
	"outreach_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// responseStatuses is the fixed breakdown order for the response report.
var responseStatuses = []string{"no_response", "opened", "replied", "interested", "not_interested"}

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

type responseCell struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type responseRatesResponse struct {
	TotalLeads          int                     `json:"total_leads"`
	OverallResponseRate float64                 `json:"overall_response_rate"`
	ResponseBreakdown   map[string]responseCell `json:"response_breakdown"`
	BySource            map[string]SliceRate    `json:"by_source"`
	ByService           map[string]SliceRate    `json:"by_service"`
}

// ResponseRates reports reply shares for leads created in the timeframe,
// broken down by response status, source and service category.
func (h *Handler) ResponseRates(c *gin.Context) {
	p := dashboard.PeriodBoundaries(time.Now())

	var since time.Time
	switch c.DefaultQuery("timeframe", "month") {
	case "week":
		since = p.WeekStart
	case "quarter":
		since = p.MonthStart.AddDate(0, 0, -90)
	default:
		since = p.MonthStart
	}

	var (
		counts    map[string]int
		total     int
		bySource  map[string]SliceRate
		byService map[string]SliceRate
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		counts, total, err = h.repo.ResponseCounts(ctx, since)
		return err
	})
	g.Go(func() error {
		var err error
		bySource, err = h.repo.ResponseRatesBy(ctx, "source", "Unknown", since)
		return err
	})
	g.Go(func() error {
		var err error
		byService, err = h.repo.ResponseRatesBy(ctx, "service_category", "Not specified", since)
		return err
	})
	if err := g.Wait(); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	resp := responseRatesResponse{
		TotalLeads:        total,
		ResponseBreakdown: make(map[string]responseCell, len(responseStatuses)),
		BySource:          rated(bySource),
		ByService:         rated(byService),
	}
	for _, status := range responseStatuses {
		cell := responseCell{Count: counts[status]}
		if total > 0 {
			cell.Percentage = round1(float64(cell.Count) / float64(total) * 100)
		}
		resp.ResponseBreakdown[status] = cell
	}
	if total > 0 {
		responded := counts["replied"] + counts["interested"]
		resp.OverallResponseRate = round1(float64(responded) / float64(total) * 100)
	}
	httpkit.OK(c, resp)
}

func rated(slices map[string]SliceRate) map[string]SliceRate {
	for key, slice := range slices {
		if slice.Total > 0 {
			slice.ResponseRate = round1(float64(slice.Replied) / float64(slice.Total) * 100)
		}
		slices[key] = slice
	}
	return slices
}

type serviceCloseTime struct {
	TotalDays int     `json:"total_days"`
	Count     int     `json:"count"`
	Average   float64 `json:"average"`
}

type timeToCloseResponse struct {
	AverageDays  float64                     `json:"average_days"`
	TotalClosed  int                         `json:"total_closed"`
	ByService    map[string]serviceCloseTime `json:"by_service"`
	Distribution map[string]int              `json:"distribution"`
	RecentCloses []ClosedLead                `json:"recent_closes"`
}

// TimeToClose reports how long converted leads took from creation to their
// last update, with a bucketed distribution.
func (h *Handler) TimeToClose(c *gin.Context) {
	closed, err := h.repo.ClosedLeads(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	resp := timeToCloseResponse{
		TotalClosed:  len(closed),
		ByService:    make(map[string]serviceCloseTime),
		Distribution: map[string]int{"0-7": 0, "8-14": 0, "15-30": 0, "31-60": 0, "60+": 0},
		RecentCloses: closed,
	}
	if len(closed) > 10 {
		resp.RecentCloses = closed[:10]
	}

	totalDays := 0
	for _, cl := range closed {
		totalDays += cl.DaysToClose

		service := "Not specified"
		if cl.ServiceCategory != nil {
			service = *cl.ServiceCategory
		}
		entry := resp.ByService[service]
		entry.TotalDays += cl.DaysToClose
		entry.Count++
		resp.ByService[service] = entry

		resp.Distribution[bucketFor(cl.DaysToClose)]++
	}
	if len(closed) > 0 {
		resp.AverageDays = round1(float64(totalDays) / float64(len(closed)))
	}
	for service, entry := range resp.ByService {
		entry.Average = round1(float64(entry.TotalDays) / float64(entry.Count))
		resp.ByService[service] = entry
	}
	httpkit.OK(c, resp)
}

func bucketFor(days int) string {
	switch {
	case days <= 7:
		return "0-7"
	case days <= 14:
		return "8-14"
	case days <= 30:
		return "15-30"
	case days <= 60:
		return "31-60"
	default:
		return "60+"
	}
}

type revenuePipelineResponse struct {
	TotalPipelineValue float64               `json:"total_pipeline_value"`
	TotalDeals         int                   `json:"total_deals"`
	ByStage            []StageValue          `json:"by_stage"`
	ByService          map[string]SliceValue `json:"by_service"`
	ByRep              map[string]SliceValue `json:"by_rep"`
}

// RevenuePipeline sums deal values across pipeline stages, service
// categories and assigned reps.
func (h *Handler) RevenuePipeline(c *gin.Context) {
	var resp revenuePipelineResponse

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		stages, err := h.repo.StageValues(ctx)
		resp.ByStage = stages
		return err
	})
	g.Go(func() error {
		slices, err := h.repo.DealValuesBy(ctx, "service_category", "Not specified")
		resp.ByService = slices
		return err
	})
	g.Go(func() error {
		slices, err := h.repo.DealValuesBy(ctx, "assigned_rep", "Unassigned")
		resp.ByRep = slices
		return err
	})
	if err := g.Wait(); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	for _, slice := range resp.ByService {
		resp.TotalPipelineValue += slice.Value
		resp.TotalDeals += slice.Count
	}
	httpkit.OK(c, resp)
}
