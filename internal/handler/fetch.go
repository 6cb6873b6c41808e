package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gexwatch/internal/apperr"
	"gexwatch/internal/repository"
	"gexwatch/internal/service"
)

type FetchHandler struct {
	Trigger *service.FetchTriggerService
	Repo    repository.Repository
	Logger  *zap.Logger
}

func (h *FetchHandler) Register(r *gin.Engine) {
	r.POST("/fetch-ticker", h.fetchTicker)
	r.GET("/fetch-runs", h.listRuns)
}

type fetchTickerRequest struct {
	Ticker string `json:"ticker"`
}

// @Summary Run the external data fetch for one ticker
// @Description Blocks until the fetch process exits.
// @Tags fetch
// @Param body body fetchTickerRequest true "ticker symbol"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /fetch-ticker [post]
func (h *FetchHandler) fetchTicker(c *gin.Context) {
	var req fetchTickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "ticker is required")
		return
	}

	res, err := h.Trigger.Trigger(c.Request.Context(), req.Ticker)
	if err != nil {
		if apperr.Is(err, apperr.KindInvalidInput) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		failWithDetails(c, http.StatusInternalServerError, "Fetch failed", res.Stderr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Fetch completed",
		"output":  res.Stdout,
	})
}

// @Summary List recent fetch runs
// @Tags fetch
// @Param limit query int false "max rows (default 50)"
// @Success 200 {object} map[string]any
// @Router /fetch-runs [get]
func (h *FetchHandler) listRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	runs, err := h.Repo.ListFetchRuns(c.Request.Context(), limit)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("listing fetch runs failed", zap.Error(err))
		}
		fail(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
