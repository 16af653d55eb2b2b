package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"p2pmonitor/internal/models"
)

// MarketRepository is the store behind ingestion, aggregation and retention.
// Writes for one offer record go through InTx in dimension -> fact ->
// bridge -> satellite order so referential invariants hold.
type MarketRepository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	UpsertSymbolInfoTx(ctx context.Context, tx *gorm.DB, item *models.SymbolInfo) error
	UpsertExternalUserTx(ctx context.Context, tx *gorm.DB, item *models.ExternalUser) error
	UpsertPaymentMethodsTx(ctx context.Context, tx *gorm.DB, items []models.PaymentMethod) error
	UpsertAssetsTx(ctx context.Context, tx *gorm.DB, items []models.Asset) error
	InsertOfferSnapshotTx(ctx context.Context, tx *gorm.DB, item *models.OfferSnapshot) error
	InsertOfferPaymentsTx(ctx context.Context, tx *gorm.DB, items []models.OfferPayment) error
	UpsertTradingPreferencesTx(ctx context.Context, tx *gorm.DB, item *models.TradingPreferences) error

	SaveIngestState(ctx context.Context, state *models.IngestState) error
	GetIngestState(ctx context.Context, scope string) (*models.IngestState, error)
	ListIngestStates(ctx context.Context) ([]models.IngestState, error)

	PriceBuckets(ctx context.Context, params PriceBucketParams) ([]PriceBucket, error)
	SideSummaries(ctx context.Context, tokenID, currencyID string, since time.Time) ([]SideSummary, error)
	ListLatestOffers(ctx context.Context, limit int) ([]LatestOfferRow, error)

	DeleteSnapshotsBefore(ctx context.Context, cutoff time.Time) (SweepResult, error)
}

// DuplicateKeyError reports a fact insert collision on
// (snapshot_time, offer_id). Fatal for the record, not for the cycle.
type DuplicateKeyError struct {
	SnapshotTime time.Time
	OfferID      string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate offer snapshot (%s, %s)", e.SnapshotTime.Format(time.RFC3339), e.OfferID)
}

type PriceBucketParams struct {
	TokenID         string
	CurrencyID      string
	Side            int16
	PaymentMethodID *string
	BucketWidth     time.Duration
	Start           time.Time
	End             time.Time
}

type PriceBucket struct {
	BucketStart time.Time `json:"bucket_start"`
	AvgPrice    float64   `json:"avg_price"`
	MinPrice    float64   `json:"min_price"`
	MaxPrice    float64   `json:"max_price"`
	Count       int64     `json:"count"`
	AvgPremium  float64   `json:"avg_premium"`
}

type SideSummary struct {
	Side     int16
	Count    int64
	AvgPrice float64
	MinPrice float64
	MaxPrice float64
}

type LatestOfferRow struct {
	UserID      string    `json:"user_id"`
	TokenID     string    `json:"token_id"`
	CurrencyID  string    `json:"currency_id"`
	Side        int16     `json:"side"`
	OfferID     string    `json:"offer_id"`
	LatestTime  time.Time `json:"latest_time"`
	AvgPrice    float64   `json:"avg_price"`
	AvgQuantity float64   `json:"avg_quantity"`
}

type SweepResult struct {
	Payments    int64 `json:"payments"`
	Preferences int64 `json:"preferences"`
	Snapshots   int64 `json:"snapshots"`
}
