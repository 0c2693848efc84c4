package dashboard

import (
	"math"
	"strconv"
	"time"

	"outreach_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// advancedStatuses are the statuses counted as conversions.
var advancedStatuses = []string{"Qualified Lead", "Proposal Sent", "Converted"}

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

type statsResponse struct {
	DailyCompleted   int     `json:"daily_completed"`
	DailyTarget      int     `json:"daily_target"`
	WeeklyCompleted  int     `json:"weekly_completed"`
	WeeklyTarget     int     `json:"weekly_target"`
	WeeklyChange     float64 `json:"weekly_change"`
	MonthlyCompleted int     `json:"monthly_completed"`
	MonthlyTarget    int     `json:"monthly_target"`
	MonthlyChange    float64 `json:"monthly_change"`
	YearlyCompleted  int     `json:"yearly_completed"`
	YearlyTarget     int     `json:"yearly_target"`

	TotalLeads       int     `json:"total_leads"`
	UniqueBusinesses int     `json:"unique_businesses"`
	ConversionRate   float64 `json:"conversion_rate"`

	StatusDistribution map[string]int `json:"status_distribution"`
	ActivityBreakdown  map[string]int `json:"activity_breakdown"`
}

// Stats aggregates the headline dashboard numbers in parallel.
func (h *Handler) Stats(c *gin.Context) {
	p := PeriodBoundaries(time.Now())

	var resp statsResponse
	var lastWeek, lastMonth, converted int

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		total, err := h.repo.CountLeads(ctx)
		resp.TotalLeads = total
		return err
	})
	g.Go(func() error {
		n, err := h.repo.CountActivitiesSince(ctx, p.TodayStart)
		resp.DailyCompleted = n
		return err
	})
	g.Go(func() error {
		n, err := h.repo.CountActivitiesSince(ctx, p.WeekStart)
		resp.WeeklyCompleted = n
		return err
	})
	g.Go(func() error {
		n, err := h.repo.CountActivitiesSince(ctx, p.MonthStart)
		resp.MonthlyCompleted = n
		return err
	})
	g.Go(func() error {
		n, err := h.repo.CountActivitiesSince(ctx, p.YearStart)
		resp.YearlyCompleted = n
		return err
	})
	g.Go(func() error {
		n, err := h.repo.CountActivitiesBetween(ctx, p.LastWeekStart, p.LastWeekEnd)
		lastWeek = n
		return err
	})
	g.Go(func() error {
		n, err := h.repo.CountActivitiesBetween(ctx, p.LastMonthStart, p.LastMonthEnd)
		lastMonth = n
		return err
	})
	g.Go(func() error {
		counts, err := h.repo.LeadCountsByStatus(ctx)
		resp.StatusDistribution = counts
		return err
	})
	g.Go(func() error {
		counts, err := h.repo.ActivityCountsByType(ctx, p.WeekStart)
		resp.ActivityBreakdown = counts
		return err
	})
	g.Go(func() error {
		n, err := h.repo.CountLeadsWithStatuses(ctx, advancedStatuses)
		converted = n
		return err
	})
	g.Go(func() error {
		n, err := h.repo.CountUniqueContactedLeads(ctx)
		resp.UniqueBusinesses = n
		return err
	})
	g.Go(func() error {
		daily, weekly, monthly, err := h.repo.TargetSums(ctx)
		resp.DailyTarget = daily
		resp.WeeklyTarget = weekly
		resp.MonthlyTarget = monthly
		resp.YearlyTarget = monthly * 12
		return err
	})
	if err := g.Wait(); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	resp.WeeklyChange = percentChange(resp.WeeklyCompleted, lastWeek)
	resp.MonthlyChange = percentChange(resp.MonthlyCompleted, lastMonth)
	if resp.TotalLeads > 0 {
		resp.ConversionRate = math.Round(float64(converted)/float64(resp.TotalLeads)*1000) / 10
	}

	httpkit.OK(c, resp)
}

// Leaderboard ranks active members by activity over the requested timeframe.
func (h *Handler) Leaderboard(c *gin.Context) {
	p := PeriodBoundaries(time.Now())

	var since time.Time
	switch c.DefaultQuery("timeframe", "week") {
	case "today":
		since = p.TodayStart
	case "month":
		since = p.MonthStart
	default:
		since = p.WeekStart
	}

	board, err := h.repo.LeaderboardRows(c.Request.Context(), since)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, board)
}

// Trends returns daily activity counts for the last N days.
func (h *Handler) Trends(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > 90 {
		days = 7
	}

	points, err := h.repo.Trends(c.Request.Context(), days, time.Now())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, points)
}

type funnelStage struct {
	Stage      string  `json:"stage"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// funnelStages groups lead statuses into the ordered conversion funnel.
var funnelStages = []struct {
	name     string
	statuses []string
}{
	{"New Leads", []string{"Not Contacted"}},
	{"In Progress", []string{"Attempted", "Connected", "Follow-up Needed"}},
	{"Qualified", []string{"Qualified Lead", "Proposal Sent"}},
	{"Converted", []string{"Converted"}},
	{"Lost", []string{"Not Interested"}},
}

// Funnel reports lead counts per funnel stage with share of all leads.
func (h *Handler) Funnel(c *gin.Context) {
	counts, err := h.repo.LeadCountsByStatus(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	funnel := make([]funnelStage, 0, len(funnelStages))
	for _, stage := range funnelStages {
		count := 0
		for _, status := range stage.statuses {
			count += counts[status]
		}
		var pct float64
		if total > 0 {
			pct = math.Round(float64(count)/float64(total)*1000) / 10
		}
		funnel = append(funnel, funnelStage{Stage: stage.name, Count: count, Percentage: pct})
	}
	httpkit.OK(c, funnel)
}
