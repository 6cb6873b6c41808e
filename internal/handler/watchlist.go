package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gexwatch/internal/service"
)

type WatchlistHandler struct {
	Service *service.WatchlistService
	Fetch   *service.FetchTriggerService
	Logger  *zap.Logger
}

func (h *WatchlistHandler) Register(r *gin.Engine) {
	r.GET("/watchlist", h.list)
	r.POST("/watchlist", h.add)
	r.DELETE("/watchlist", h.remove)
	r.PUT("/watchlist", h.reorder)
}

// @Summary List watchlist tickers
// @Tags watchlist
// @Success 200 {object} map[string]any
// @Router /watchlist [get]
func (h *WatchlistHandler) list(c *gin.Context) {
	items, err := h.Service.List(c.Request.Context())
	if err != nil {
		failFromError(c, err, h.Logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickers": items})
}

type addTickerRequest struct {
	Ticker string `json:"ticker"`
}

// @Summary Add a ticker to the watchlist
// @Tags watchlist
// @Param body body addTickerRequest true "ticker symbol"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /watchlist [post]
func (h *WatchlistHandler) add(c *gin.Context) {
	var req addTickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "ticker is required")
		return
	}

	entry, err := h.Service.Add(c.Request.Context(), req.Ticker)
	if err != nil {
		failFromError(c, err, h.Logger)
		return
	}

	resp := gin.H{
		"message": "Ticker added",
		"data":    entry,
	}

	// Kick the fetch so fresh data exists before the next query. The entry
	// is already persisted; a fetch failure only rides along as details.
	if h.Fetch != nil {
		if _, fetchErr := h.Fetch.Trigger(c.Request.Context(), entry.Ticker); fetchErr != nil {
			resp["details"] = "initial data fetch failed; retry via /fetch-ticker"
		}
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Remove a ticker from the watchlist
// @Tags watchlist
// @Param ticker query string true "ticker symbol"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /watchlist [delete]
func (h *WatchlistHandler) remove(c *gin.Context) {
	ticker := c.Query("ticker")
	if ticker == "" {
		fail(c, http.StatusBadRequest, "ticker query parameter is required")
		return
	}
	if err := h.Service.Remove(c.Request.Context(), ticker); err != nil {
		failFromError(c, err, h.Logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ticker removed"})
}

type reorderRequest struct {
	ID       *uint `json:"id"`
	NewIndex *int  `json:"newIndex"`
}

// @Summary Preview a reordered watchlist
// @Description Returns the list with the entry moved; the new order is not persisted.
// @Tags watchlist
// @Param body body reorderRequest true "entry id and target index"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /watchlist [put]
func (h *WatchlistHandler) reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == nil || req.NewIndex == nil {
		fail(c, http.StatusBadRequest, "id and newIndex are required")
		return
	}
	items, err := h.Service.Reorder(c.Request.Context(), *req.ID, *req.NewIndex)
	if err != nil {
		failFromError(c, err, h.Logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickers": items})
}
