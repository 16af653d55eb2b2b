package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"p2pmonitor/internal/models"
	"p2pmonitor/internal/repository"
)

type MarketQueryService struct {
	Repo   repository.MarketRepository
	Logger *zap.Logger
}

type AggregationParams struct {
	TokenID         string
	CurrencyID      string
	Side            int16
	PaymentMethodID *string
	BucketWidth     time.Duration
	WindowHours     int
}

// Aggregations returns time-bucketed price/volume statistics over the
// trailing window, ascending, sparse (buckets with no rows are omitted).
func (s *MarketQueryService) Aggregations(ctx context.Context, params AggregationParams) ([]repository.PriceBucket, error) {
	if params.Side != models.SideSell && params.Side != models.SideBuy {
		return nil, fmt.Errorf("side must be %d (sell) or %d (buy)", models.SideSell, models.SideBuy)
	}
	bucket := params.BucketWidth
	if bucket <= 0 {
		bucket = time.Hour
	}
	windowHours := params.WindowHours
	if windowHours <= 0 {
		windowHours = 24
	}
	end := time.Now().UTC()
	start := end.Add(-time.Duration(windowHours) * time.Hour)

	rows, err := s.Repo.PriceBuckets(ctx, repository.PriceBucketParams{
		TokenID:         params.TokenID,
		CurrencyID:      params.CurrencyID,
		Side:            params.Side,
		PaymentMethodID: params.PaymentMethodID,
		BucketWidth:     bucket,
		Start:           start,
		End:             end,
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.PriceBucket{}
	}
	return rows, nil
}

type SideStats struct {
	Count    int64   `json:"count"`
	AvgPrice float64 `json:"avg_price"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
}

type MarketSummary struct {
	TokenID     string    `json:"token_id"`
	CurrencyID  string    `json:"currency_id"`
	WindowHours int       `json:"window_hours"`
	Buy         SideStats `json:"buy"`
	Sell        SideStats `json:"sell"`
	SpreadPct   float64   `json:"spread_pct"`
}

// Summary partitions the trailing 24 hours by side and reports per-side
// price statistics plus the spread percentage.
func (s *MarketQueryService) Summary(ctx context.Context, tokenID, currencyID string) (MarketSummary, error) {
	summary := MarketSummary{TokenID: tokenID, CurrencyID: currencyID, WindowHours: 24}
	since := time.Now().UTC().Add(-24 * time.Hour)
	rows, err := s.Repo.SideSummaries(ctx, tokenID, currencyID, since)
	if err != nil {
		return summary, err
	}
	for _, row := range rows {
		stats := SideStats{
			Count:    row.Count,
			AvgPrice: row.AvgPrice,
			MinPrice: row.MinPrice,
			MaxPrice: row.MaxPrice,
		}
		switch row.Side {
		case models.SideSell:
			summary.Sell = stats
		case models.SideBuy:
			summary.Buy = stats
		}
	}
	summary.SpreadPct = spreadPct(summary.Sell.MinPrice, summary.Buy.MaxPrice)
	return summary, nil
}

// spreadPct treats the sell floor sitting above the buy ceiling as the
// market spread: (min(SELL) - max(BUY)) / max(BUY) * 100. Directional
// assumption, not a general financial convention. Reported as 0 unless
// both extremes are positive.
func spreadPct(minSell, maxBuy float64) float64 {
	if minSell <= 0 || maxBuy <= 0 {
		return 0
	}
	return (minSell - maxBuy) / maxBuy * 100
}

// LatestOffers preserves the grouped/averaged read: one row per
// (user, token, currency, side, offer) with price and quantity averaged
// across the group's snapshots.
func (s *MarketQueryService) LatestOffers(ctx context.Context, limit int) ([]repository.LatestOfferRow, error) {
	rows, err := s.Repo.ListLatestOffers(ctx, limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.LatestOfferRow{}
	}
	return rows, nil
}

func (s *MarketQueryService) IngestStates(ctx context.Context) ([]models.IngestState, error) {
	return s.Repo.ListIngestStates(ctx)
}
