package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"p2pmonitor/internal/models"
	"p2pmonitor/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- dimensions -------------------------------------------------------------

func (s *Store) UpsertSymbolInfoTx(ctx context.Context, tx *gorm.DB, item *models.SymbolInfo) error {
	if item == nil {
		return nil
	}
	if strings.TrimSpace(item.SymbolID) == "" {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"token_id",
			"currency_id",
			"status",
			"lower_limit_alarm",
			"upper_limit_alarm",
			"item_down_range",
			"item_up_range",
			"currency_min_quote",
			"currency_max_quote",
			"currency_lower_max_quote",
			"token_min_quote",
			"token_max_quote",
			"kyc_currency_limit",
			"buy_fee_rate",
			"sell_fee_rate",
			"order_auto_cancel_minute",
			"order_finish_minute",
			"last_seen_at",
		}),
	}).Create(item).Error
}

func (s *Store) UpsertExternalUserTx(ctx context.Context, tx *gorm.DB, item *models.ExternalUser) error {
	if item == nil {
		return nil
	}
	if strings.TrimSpace(item.UserID) == "" {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"account_id",
			"nick_name",
			"blocked",
			"maker_contact",
			"last_seen_at",
			"raw_json",
		}),
	}).Create(item).Error
}

func (s *Store) UpsertPaymentMethodsTx(ctx context.Context, tx *gorm.DB, items []models.PaymentMethod) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "method_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"last_seen_at",
		}),
	}).Create(items).Error
}

func (s *Store) UpsertAssetsTx(ctx context.Context, tx *gorm.DB, items []models.Asset) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "asset_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"scale",
			"sequence",
			"last_seen_at",
		}),
	}).Create(items).Error
}

// --- fact, bridge, satellite ------------------------------------------------

func (s *Store) InsertOfferSnapshotTx(ctx context.Context, tx *gorm.DB, item *models.OfferSnapshot) error {
	if item == nil {
		return nil
	}
	err := tx.WithContext(ctx).Create(item).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &repository.DuplicateKeyError{
			SnapshotTime: item.SnapshotTime,
			OfferID:      item.OfferID,
		}
	}
	return err
}

func (s *Store) InsertOfferPaymentsTx(ctx context.Context, tx *gorm.DB, items []models.OfferPayment) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "snapshot_time"},
			{Name: "offer_id"},
			{Name: "method_id"},
		},
		DoNothing: true,
	}).Create(items).Error
}

func (s *Store) UpsertTradingPreferencesTx(ctx context.Context, tx *gorm.DB, item *models.TradingPreferences) error {
	if item == nil {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "snapshot_time"},
			{Name: "offer_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"has_un_post_ad",
			"is_kyc",
			"is_email",
			"is_mobile",
			"has_register_time",
			"register_time_threshold",
			"order_finish_number_day30",
			"complete_rate_day30",
			"national_limit",
		}),
	}).Create(item).Error
}

// --- ingest state -----------------------------------------------------------

func (s *Store) SaveIngestState(ctx context.Context, state *models.IngestState) error {
	if s == nil || s.db == nil || state == nil {
		return nil
	}
	if strings.TrimSpace(state.Scope) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "scope"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_success_at",
			"last_attempt_at",
			"last_error",
			"stats_json",
		}),
	}).Create(state).Error
}

func (s *Store) GetIngestState(ctx context.Context, scope string) (*models.IngestState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var state models.IngestState
	err := s.db.WithContext(ctx).Where("scope = ?", scope).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) ListIngestStates(ctx context.Context) ([]models.IngestState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var states []models.IngestState
	if err := s.db.WithContext(ctx).Order("scope asc").Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// --- aggregation ------------------------------------------------------------

func (s *Store) PriceBuckets(ctx context.Context, params repository.PriceBucketParams) ([]repository.PriceBucket, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	widthSec := int64(params.BucketWidth.Seconds())
	if widthSec <= 0 {
		widthSec = 3600
	}
	query := s.db.WithContext(ctx).
		Table("offer_snapshots AS s").
		Select(`
			to_timestamp(floor(extract(epoch FROM s.snapshot_time) / ?) * ?) AS bucket_start,
			AVG(s.price) AS avg_price,
			MIN(s.price) AS min_price,
			MAX(s.price) AS max_price,
			COUNT(*) AS count,
			AVG(s.premium) AS avg_premium
		`, widthSec, widthSec).
		Where("s.token_id = ?", params.TokenID).
		Where("s.currency_id = ?", params.CurrencyID).
		Where("s.side = ?", params.Side).
		Where("s.snapshot_time >= ?", params.Start).
		Where("s.snapshot_time < ?", params.End)
	if params.PaymentMethodID != nil && *params.PaymentMethodID != "" {
		query = query.
			Joins("JOIN offer_payments AS p ON p.snapshot_time = s.snapshot_time AND p.offer_id = s.offer_id").
			Where("p.method_id = ?", *params.PaymentMethodID)
	}
	var rows []repository.PriceBucket
	if err := query.Group("bucket_start").Order("bucket_start asc").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) SideSummaries(ctx context.Context, tokenID, currencyID string, since time.Time) ([]repository.SideSummary, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var rows []repository.SideSummary
	err := s.db.WithContext(ctx).
		Table("offer_snapshots").
		Select(`
			side,
			COUNT(*) AS count,
			AVG(price) AS avg_price,
			MIN(price) AS min_price,
			MAX(price) AS max_price
		`).
		Where("token_id = ?", tokenID).
		Where("currency_id = ?", currencyID).
		Where("snapshot_time >= ?", since).
		Group("side").
		Order("side asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListLatestOffers groups fact rows by (user, token, currency, side, offer)
// and reports averaged price/quantity across the group rather than the
// single most recent row. Downstream consumers depend on the smoothing.
func (s *Store) ListLatestOffers(ctx context.Context, limit int) ([]repository.LatestOfferRow, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 50)
	var rows []repository.LatestOfferRow
	err := s.db.WithContext(ctx).
		Table("offer_snapshots").
		Select(`
			user_id,
			token_id,
			currency_id,
			side,
			offer_id,
			MAX(snapshot_time) AS latest_time,
			AVG(price) AS avg_price,
			AVG(last_quantity) AS avg_quantity
		`).
		Group("user_id, token_id, currency_id, side, offer_id").
		Order("latest_time desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// --- retention --------------------------------------------------------------

// DeleteSnapshotsBefore sweeps dependents first, then facts, all against the
// same cutoff. The sweep is not transactional across tables; an interruption
// leaves only parentless bridge rows already counted for the next run.
func (s *Store) DeleteSnapshotsBefore(ctx context.Context, cutoff time.Time) (repository.SweepResult, error) {
	result := repository.SweepResult{}
	if s == nil || s.db == nil {
		return result, nil
	}
	res := s.db.WithContext(ctx).
		Where("snapshot_time < ?", cutoff).
		Delete(&models.OfferPayment{})
	if res.Error != nil {
		return result, res.Error
	}
	result.Payments = res.RowsAffected

	res = s.db.WithContext(ctx).
		Where("snapshot_time < ?", cutoff).
		Delete(&models.TradingPreferences{})
	if res.Error != nil {
		return result, res.Error
	}
	result.Preferences = res.RowsAffected

	res = s.db.WithContext(ctx).
		Where("snapshot_time < ?", cutoff).
		Delete(&models.OfferSnapshot{})
	if res.Error != nil {
		return result, res.Error
	}
	result.Snapshots = res.RowsAffected

	return result, nil
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}
