package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"p2pmonitor/internal/service"
)

type MarketHandler struct {
	Ingest    *service.IngestService
	Query     *service.MarketQueryService
	Retention *service.RetentionService
	Defaults  MarketDefaults
	Logger    *zap.Logger
}

type MarketDefaults struct {
	RetentionDays int
}

func (h *MarketHandler) Register(r *gin.Engine) {
	group := r.Group("/api/market")
	group.POST("/ingest", h.triggerIngest)
	group.GET("/aggregations", h.aggregations)
	group.GET("/summary", h.summary)
	group.GET("/latest", h.latestOffers)
	group.POST("/cleanup", h.cleanup)
	group.GET("/ingest-state", h.ingestState)
}

// @Summary Run one ingestion cycle (SELL then BUY) for a pair
// @Tags market
// @Param token query string true "token id (e.g. USDT)"
// @Param currency query string true "currency id (e.g. EUR)"
// @Success 200 {object} apiResponse
// @Router /api/market/ingest [post]
func (h *MarketHandler) triggerIngest(c *gin.Context) {
	if h.Ingest == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	token := strings.TrimSpace(c.Query("token"))
	currency := strings.TrimSpace(c.Query("currency"))
	if token == "" || currency == "" {
		Error(c, http.StatusBadRequest, "token and currency are required", nil)
		return
	}
	result, err := h.Ingest.IngestPair(c.Request.Context(), token, currency)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("ingest failed",
				zap.String("token", token),
				zap.String("currency", currency),
				zap.Error(err),
			)
		}
		Error(c, http.StatusBadGateway, "ingestion failed", nil)
		return
	}
	Ok(c, result, nil)
}

// @Summary Time-bucketed price/volume aggregation
// @Tags market
// @Param token query string true "token id"
// @Param currency query string true "currency id"
// @Param side query int true "0=sell 1=buy"
// @Param bucket query string false "bucket width (e.g. 1h, 15m)"
// @Param window_hours query int false "trailing window in hours"
// @Param method query string false "payment method id filter"
// @Success 200 {object} apiResponse
// @Router /api/market/aggregations [get]
func (h *MarketHandler) aggregations(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	token := strings.TrimSpace(c.Query("token"))
	currency := strings.TrimSpace(c.Query("currency"))
	if token == "" || currency == "" {
		Error(c, http.StatusBadRequest, "token and currency are required", nil)
		return
	}
	side, err := strconv.Atoi(strings.TrimSpace(c.Query("side")))
	if err != nil {
		Error(c, http.StatusBadRequest, "side must be 0 (sell) or 1 (buy)", nil)
		return
	}
	rows, err := h.Query.Aggregations(c.Request.Context(), service.AggregationParams{
		TokenID:         token,
		CurrencyID:      currency,
		Side:            int16(side),
		PaymentMethodID: strQueryPtr(c, "method"),
		BucketWidth:     durationQuery(c, "bucket"),
		WindowHours:     intQuery(c, "window_hours", 0),
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("aggregation query failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, "aggregation query failed", nil)
		return
	}
	Ok(c, rows, map[string]any{"buckets": len(rows)})
}

// @Summary Market summary over the trailing 24 hours
// @Tags market
// @Param token query string true "token id"
// @Param currency query string true "currency id"
// @Success 200 {object} apiResponse
// @Router /api/market/summary [get]
func (h *MarketHandler) summary(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	token := strings.TrimSpace(c.Query("token"))
	currency := strings.TrimSpace(c.Query("currency"))
	if token == "" || currency == "" {
		Error(c, http.StatusBadRequest, "token and currency are required", nil)
		return
	}
	result, err := h.Query.Summary(c.Request.Context(), token, currency)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("summary query failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, "summary query failed", nil)
		return
	}
	Ok(c, result, nil)
}

// @Summary Most recent offers, grouped and averaged
// @Tags market
// @Param limit query int false "max groups"
// @Success 200 {object} apiResponse
// @Router /api/market/latest [get]
func (h *MarketHandler) latestOffers(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	rows, err := h.Query.LatestOffers(c.Request.Context(), intQuery(c, "limit", 50))
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("latest offers query failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, "latest offers query failed", nil)
		return
	}
	Ok(c, rows, nil)
}

// @Summary Delete snapshots older than the retention horizon
// @Tags market
// @Param days query int false "retention horizon in days"
// @Success 200 {object} apiResponse
// @Router /api/market/cleanup [post]
func (h *MarketHandler) cleanup(c *gin.Context) {
	if h.Retention == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	days := intQuery(c, "days", h.Defaults.RetentionDays)
	result, err := h.Retention.Sweep(c.Request.Context(), days)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("cleanup failed", zap.Int("days", days), zap.Error(err))
		}
		Error(c, http.StatusBadGateway, "cleanup failed", nil)
		return
	}
	Ok(c, result, map[string]any{"days": days})
}

// @Summary Per-scope ingestion state
// @Tags market
// @Success 200 {object} apiResponse
// @Router /api/market/ingest-state [get]
func (h *MarketHandler) ingestState(c *gin.Context) {
	if h.Query == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	states, err := h.Query.IngestStates(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("ingest state query failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, "ingest state query failed", nil)
		return
	}
	Ok(c, states, nil)
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func strQueryPtr(c *gin.Context, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

func durationQuery(c *gin.Context, key string) time.Duration {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return 0
}
