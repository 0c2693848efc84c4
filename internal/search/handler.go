package search

import (
	"strconv"
	"strings"

	"outreach_portal_backend/platform/httpkit"
	"outreach_portal_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const perTypeLimit = 10

type Handler struct {
	repo *Repository
	log  *logger.Logger
}

func NewHandler(repo *Repository, log *logger.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

type searchResponse struct {
	Query     string   `json:"query"`
	Leads     []Result `json:"leads"`
	Proposals []Result `json:"proposals"`
	Templates []Result `json:"templates"`
	Total     int      `json:"total"`
}

// Search runs a case-insensitive substring search over leads, proposals
// and templates. The three queries run concurrently. An empty query
// returns an empty response without touching the database.
func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		httpkit.OK(c, searchResponse{Query: "", Leads: []Result{}, Proposals: []Result{}, Templates: []Result{}})
		return
	}
	pattern := "%" + query + "%"

	var resp searchResponse
	resp.Query = query

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		results, err := h.repo.SearchLeads(ctx, pattern, perTypeLimit)
		resp.Leads = results
		return err
	})
	g.Go(func() error {
		results, err := h.repo.SearchProposals(ctx, pattern, perTypeLimit)
		resp.Proposals = results
		return err
	})
	g.Go(func() error {
		results, err := h.repo.SearchTemplates(ctx, pattern, perTypeLimit)
		resp.Templates = results
		return err
	})
	if err := g.Wait(); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	resp.Total = len(resp.Leads) + len(resp.Proposals) + len(resp.Templates)

	if err := h.repo.RecordSearch(c.Request.Context(), query, resp.Total); err != nil {
		// History is best effort.
		h.log.Error("search_history_write_failed", "error", err.Error())
	}
	httpkit.OK(c, resp)
}

func (h *Handler) History(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	entries, err := h.repo.History(c.Request.Context(), limit)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, entries)
}
