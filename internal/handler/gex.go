package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gexwatch/internal/chart"
	"gexwatch/internal/service"
)

type GexHandler struct {
	Query   *service.GexQueryService
	Session *chart.Session
	Logger  *zap.Logger
}

func (h *GexHandler) Register(r *gin.Engine) {
	r.GET("/gex", h.getGex)
	r.GET("/gex/chart", h.getChart)
}

func parseGexParams(c *gin.Context) (uint, *string, bool) {
	rawID := c.Query("ticker_id")
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "ticker_id is required")
		return 0, nil, false
	}
	var date *string
	if raw := c.Query("date"); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			fail(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return 0, nil, false
		}
		date = &raw
	}
	return uint(id), date, true
}

// @Summary GEX aggregation for a ticker and date
// @Description Resolves the latest summary when date is omitted.
// @Tags gex
// @Param ticker_id query int true "watchlist entry id"
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} service.GexResult
// @Failure 404 {object} map[string]string
// @Router /gex [get]
func (h *GexHandler) getGex(c *gin.Context) {
	tickerID, date, ok := parseGexParams(c)
	if !ok {
		return
	}
	result, err := h.Query.GetGex(c.Request.Context(), tickerID, date)
	if err != nil {
		failFromError(c, err, h.Logger)
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Chart projection for a ticker and date
// @Description No-summary days come back as an empty state, not an error.
// @Tags gex
// @Param ticker_id query int true "watchlist entry id"
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {object} chart.View
// @Router /gex/chart [get]
func (h *GexHandler) getChart(c *gin.Context) {
	tickerID, date, ok := parseGexParams(c)
	if !ok {
		return
	}
	token := h.Session.NextToken(tickerID)
	view, err := h.Session.Load(c.Request.Context(), token, tickerID, date)
	if err != nil {
		if errors.Is(err, chart.ErrStale) {
			fail(c, http.StatusConflict, "superseded by a newer request")
			return
		}
		failFromError(c, err, h.Logger)
		return
	}
	c.JSON(http.StatusOK, view)
}
