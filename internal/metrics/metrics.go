package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FetchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gexwatch_fetch_runs_total",
			Help: "Fetch process invocations by outcome",
		},
		[]string{"status"},
	)

	GexQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gexwatch_gex_queries_total",
			Help: "GEX aggregation queries by outcome",
		},
		[]string{"outcome"},
	)

	ChartCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gexwatch_chart_cache_total",
			Help: "Chart session cache lookups by result",
		},
		[]string{"result"},
	)

	RefreshTickersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gexwatch_refresh_tickers_total",
			Help: "Tickers processed by the scheduled refresh, by outcome",
		},
		[]string{"status"},
	)
)

// Register mounts the prometheus scrape endpoint.
func Register(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
