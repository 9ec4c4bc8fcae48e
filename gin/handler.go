package gin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/abtech/carlytics"
	"github.com/abtech/carlytics/csv"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

// DefaultAnalyzeTimeout bounds one analysis cycle started from the API.
const DefaultAnalyzeTimeout = 2 * time.Minute

// Handler serves the JSON API over one session.
type Handler struct {
	analyzer carlytics.Analyzer
	session  *carlytics.Session
	sources  []*carlytics.Source

	// Runs enables the archive routes when set.
	Runs carlytics.RunService

	// Logger receives internal errors. Nil discards them.
	Logger *slog.Logger

	// AnalyzeTimeout bounds each analysis cycle.
	AnalyzeTimeout time.Duration

	// cycle admits one analysis at a time.
	cycle *semaphore.Weighted
}

// NewHandler creates a Handler.
func NewHandler(analyzer carlytics.Analyzer, session *carlytics.Session, sources []*carlytics.Source) *Handler {
	return &Handler{
		analyzer:       analyzer,
		session:        session,
		sources:        sources,
		AnalyzeTimeout: DefaultAnalyzeTimeout,
		cycle:          semaphore.NewWeighted(1),
	}
}

// RegisterRoutes registers the API routes on router.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)
	router.GET("/sources", h.ListSources)
	router.POST("/analyze", h.Analyze)
	router.GET("/listings", h.Listings)
	router.GET("/charts", h.Charts)
	router.GET("/export.csv", h.Export)

	if h.Runs != nil {
		router.GET("/runs", h.ListRuns)
		router.GET("/runs/:id", h.GetRun)
		router.GET("/runs/:id/export.csv", h.ExportRun)
		router.DELETE("/runs/:id", h.DeleteRun)
	}
}

type analyzeRequest struct {
	Source string `json:"source" binding:"required"`
}

type analyzeResponse struct {
	Report  *carlytics.Report `json:"report"`
	Charts  []chartResponse   `json:"charts"`
	Warning string            `json:"warning,omitempty"`
}

type chartResponse struct {
	ID    string           `json:"id"`
	Title string           `json:"title"`
	Chart *carlytics.Chart `json:"chart,omitempty"`
	Error string           `json:"error,omitempty"`
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListSources returns the source catalog.
func (h *Handler) ListSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": h.sources})
}

// Analyze runs one cycle for the requested source. Only one cycle runs at a
// time; a concurrent request gets 409.
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.Logger, carlytics.Errorf(carlytics.EINVALID, "source required"))
		return
	}

	src, err := carlytics.FindSource(h.sources, req.Source)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}

	if !h.cycle.TryAcquire(1) {
		writeError(c, h.Logger, carlytics.Errorf(carlytics.ECONFLICT, "an analysis is already running"))
		return
	}
	defer h.cycle.Release(1)

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.AnalyzeTimeout)
	defer cancel()

	report, err := h.analyzer.Analyze(ctx, h.session, src)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}

	resp := analyzeResponse{Report: report, Charts: []chartResponse{}}
	if report.Empty() {
		resp.Warning = carlytics.EmptyResultMessage
	} else {
		resp.Charts = charts(report.Listings)
	}
	c.JSON(http.StatusOK, resp)
}

// Listings returns the session table.
func (h *Handler) Listings(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Charts returns the charts of the session table.
func (h *Handler) Charts(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"charts": charts(snap.Listings)})
}

// Export downloads the session table as CSV.
func (h *Handler) Export(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	h.writeCSV(c, csv.Filename, snap.Listings)
}

// ListRuns returns archived runs, newest first.
func (h *Handler) ListRuns(c *gin.Context) {
	filter := carlytics.RunFilter{Limit: 50}
	if source := c.Query("source"); source != "" {
		filter.Source = &source
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(c, h.Logger, carlytics.Errorf(carlytics.EINVALID, "invalid limit %q", v))
			return
		}
		filter.Limit = n
	}

	runs, err := h.Runs.FindRuns(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetRun returns one archived run with its listings.
func (h *Handler) GetRun(c *gin.Context) {
	run, err := h.Runs.FindRunByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// ExportRun downloads an archived run as CSV.
func (h *Handler) ExportRun(c *gin.Context) {
	run, err := h.Runs.FindRunByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.writeCSV(c, "run_"+run.ID+".csv", run.Listings)
}

// DeleteRun removes an archived run.
func (h *Handler) DeleteRun(c *gin.Context) {
	if err := h.Runs.DeleteRun(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// snapshot returns the session table or writes 404 when there is none yet.
func (h *Handler) snapshot(c *gin.Context) (*carlytics.Snapshot, bool) {
	snap := h.session.Snapshot()
	if snap == nil {
		writeError(c, h.Logger, carlytics.Errorf(carlytics.ENOTFOUND, "no data yet; run an analysis first"))
		return nil, false
	}
	return snap, true
}

func (h *Handler) writeCSV(c *gin.Context, filename string, listings []*carlytics.Listing) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", csv.ContentType)
	c.Status(http.StatusOK)
	if err := csv.WriteListings(c.Writer, listings); err != nil && h.Logger != nil {
		h.Logger.Error("csv export", "err", err)
	}
}

// charts builds every chart, keeping failures per chart.
func charts(listings []*carlytics.Listing) []chartResponse {
	results := carlytics.BuildCharts(listings)
	out := make([]chartResponse, 0, len(results))
	for _, r := range results {
		resp := chartResponse{ID: r.ID, Title: r.Title, Chart: r.Chart}
		if r.Err != nil {
			resp.Error = carlytics.ErrorMessage(r.Err)
		}
		out = append(out, resp)
	}
	return out
}
