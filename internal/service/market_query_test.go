package service

import (
	"context"
	"math"
	"testing"

	"p2pmonitor/internal/repository"
)

func TestSpreadPct(t *testing.T) {
	cases := []struct {
		name    string
		minSell float64
		maxBuy  float64
		want    float64
	}{
		{"sell floor above buy ceiling", 1.05, 1.02, (1.05 - 1.02) / 1.02 * 100},
		{"inverted market goes negative", 1.00, 1.02, (1.00 - 1.02) / 1.02 * 100},
		{"no sell quotes", 0, 1.02, 0},
		{"no buy quotes", 1.05, 0, 0},
		{"empty window", 0, 0, 0},
	}
	for _, tc := range cases {
		got := spreadPct(tc.minSell, tc.maxBuy)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: spreadPct(%v, %v) = %v, want %v", tc.name, tc.minSell, tc.maxBuy, got, tc.want)
		}
	}
}

func TestSummaryPartitionsSides(t *testing.T) {
	store := newStubRepo()
	store.sideSummaries = []repository.SideSummary{
		{Side: 1, Count: 2, AvgPrice: 1.01, MinPrice: 1.00, MaxPrice: 1.02},
		{Side: 0, Count: 2, AvgPrice: 1.065, MinPrice: 1.05, MaxPrice: 1.08},
	}
	svc := &MarketQueryService{Repo: store}

	summary, err := svc.Summary(context.Background(), "USDT", "EUR")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Buy.MaxPrice != 1.02 || summary.Sell.MinPrice != 1.05 {
		t.Fatalf("side partition wrong: %+v", summary)
	}
	want := (1.05 - 1.02) / 1.02 * 100 // ~2.94%
	if math.Abs(summary.SpreadPct-want) > 1e-9 {
		t.Fatalf("spread = %v, want %v", summary.SpreadPct, want)
	}
}

func TestSummaryEmptyWindow(t *testing.T) {
	svc := &MarketQueryService{Repo: newStubRepo()}
	summary, err := svc.Summary(context.Background(), "USDT", "EUR")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.SpreadPct != 0 || summary.Buy.Count != 0 || summary.Sell.Count != 0 {
		t.Fatalf("empty window summary = %+v", summary)
	}
}

func TestAggregationsValidatesSide(t *testing.T) {
	svc := &MarketQueryService{Repo: newStubRepo()}
	if _, err := svc.Aggregations(context.Background(), AggregationParams{
		TokenID:    "USDT",
		CurrencyID: "EUR",
		Side:       5,
	}); err == nil {
		t.Fatalf("expected side validation error")
	}
}

func TestAggregationsNeverReturnsNilSlice(t *testing.T) {
	svc := &MarketQueryService{Repo: newStubRepo()}
	rows, err := svc.Aggregations(context.Background(), AggregationParams{
		TokenID:    "USDT",
		CurrencyID: "EUR",
		Side:       0,
	})
	if err != nil {
		t.Fatalf("aggregations: %v", err)
	}
	if rows == nil {
		t.Fatalf("rows must be non-nil for JSON encoding")
	}
}
