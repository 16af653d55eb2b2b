package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"p2pmonitor/internal/models"
	"p2pmonitor/internal/repository"
)

// stubRepo is a test-only in-memory implementation of
// repository.MarketRepository. It records write order and lets tests inject
// failures for specific offer ids.
type stubRepo struct {
	writeOrder []string

	snapshots   []models.OfferSnapshot
	users       map[string]models.ExternalUser
	methods     map[string]models.PaymentMethod
	assets      map[string]models.Asset
	symbols     map[string]models.SymbolInfo
	payments    []models.OfferPayment
	preferences []models.TradingPreferences
	states      map[string]models.IngestState

	duplicateOffers map[string]bool
	failOffers      map[string]error

	sideSummaries []repository.SideSummary
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:           map[string]models.ExternalUser{},
		methods:         map[string]models.PaymentMethod{},
		assets:          map[string]models.Asset{},
		symbols:         map[string]models.SymbolInfo{},
		states:          map[string]models.IngestState{},
		duplicateOffers: map[string]bool{},
		failOffers:      map[string]error{},
	}
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func (s *stubRepo) UpsertSymbolInfoTx(ctx context.Context, tx *gorm.DB, item *models.SymbolInfo) error {
	s.writeOrder = append(s.writeOrder, "symbol")
	s.symbols[item.SymbolID] = *item
	return nil
}

func (s *stubRepo) UpsertExternalUserTx(ctx context.Context, tx *gorm.DB, item *models.ExternalUser) error {
	s.writeOrder = append(s.writeOrder, "user")
	s.users[item.UserID] = *item
	return nil
}

func (s *stubRepo) UpsertPaymentMethodsTx(ctx context.Context, tx *gorm.DB, items []models.PaymentMethod) error {
	s.writeOrder = append(s.writeOrder, "methods")
	for _, m := range items {
		s.methods[m.MethodID] = m
	}
	return nil
}

func (s *stubRepo) UpsertAssetsTx(ctx context.Context, tx *gorm.DB, items []models.Asset) error {
	s.writeOrder = append(s.writeOrder, "assets")
	for _, a := range items {
		s.assets[a.AssetID] = a
	}
	return nil
}

func (s *stubRepo) InsertOfferSnapshotTx(ctx context.Context, tx *gorm.DB, item *models.OfferSnapshot) error {
	s.writeOrder = append(s.writeOrder, "snapshot")
	if err, ok := s.failOffers[item.OfferID]; ok {
		return err
	}
	if s.duplicateOffers[item.OfferID] {
		return &repository.DuplicateKeyError{SnapshotTime: item.SnapshotTime, OfferID: item.OfferID}
	}
	s.snapshots = append(s.snapshots, *item)
	return nil
}

func (s *stubRepo) InsertOfferPaymentsTx(ctx context.Context, tx *gorm.DB, items []models.OfferPayment) error {
	s.writeOrder = append(s.writeOrder, "payments")
	s.payments = append(s.payments, items...)
	return nil
}

func (s *stubRepo) UpsertTradingPreferencesTx(ctx context.Context, tx *gorm.DB, item *models.TradingPreferences) error {
	s.writeOrder = append(s.writeOrder, "preferences")
	s.preferences = append(s.preferences, *item)
	return nil
}

func (s *stubRepo) SaveIngestState(ctx context.Context, state *models.IngestState) error {
	s.states[state.Scope] = *state
	return nil
}

func (s *stubRepo) GetIngestState(ctx context.Context, scope string) (*models.IngestState, error) {
	if st, ok := s.states[scope]; ok {
		return &st, nil
	}
	return nil, nil
}

func (s *stubRepo) ListIngestStates(ctx context.Context) ([]models.IngestState, error) {
	out := make([]models.IngestState, 0, len(s.states))
	for _, st := range s.states {
		out = append(out, st)
	}
	return out, nil
}

func (s *stubRepo) PriceBuckets(ctx context.Context, params repository.PriceBucketParams) ([]repository.PriceBucket, error) {
	return nil, nil
}

func (s *stubRepo) SideSummaries(ctx context.Context, tokenID, currencyID string, since time.Time) ([]repository.SideSummary, error) {
	return s.sideSummaries, nil
}

func (s *stubRepo) ListLatestOffers(ctx context.Context, limit int) ([]repository.LatestOfferRow, error) {
	return nil, nil
}

func (s *stubRepo) DeleteSnapshotsBefore(ctx context.Context, cutoff time.Time) (repository.SweepResult, error) {
	return repository.SweepResult{}, nil
}
