package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"p2pmonitor/internal/client/p2p"
	"p2pmonitor/internal/models"
	"p2pmonitor/internal/repository"
)

// OfferFetcher is the upstream surface the ingest loop needs.
type OfferFetcher interface {
	FetchOffers(ctx context.Context, query p2p.OfferQuery) (*p2p.OfferPage, error)
}

type IngestService struct {
	Store      repository.MarketRepository
	Client     OfferFetcher
	Normalizer *Normalizer
	Logger     *zap.Logger
	PageSize   int
	MaxPages   int

	// Pause between consecutive upstream calls. The upstream rate limit
	// wants at least ~0.5-1s between requests.
	SidePause time.Duration
}

type IngestResult struct {
	TokenID    string `json:"token_id"`
	CurrencyID string `json:"currency_id"`
	Sides      int    `json:"sides"`
	Pages      int    `json:"pages"`
	Fetched    int    `json:"fetched"`
	Inserted   int    `json:"inserted"`
	Dropped    int    `json:"dropped"`
	Duplicates int    `json:"duplicates"`
}

// IngestPair runs one SELL cycle then one BUY cycle for the pair, with the
// configured pause between upstream calls.
func (s *IngestService) IngestPair(ctx context.Context, tokenID, currencyID string) (IngestResult, error) {
	result := IngestResult{TokenID: tokenID, CurrencyID: currencyID}
	if s.Client == nil {
		return result, fmt.Errorf("upstream client is nil")
	}
	first := true
	for _, side := range []int16{models.SideSell, models.SideBuy} {
		sideResult, err := s.ingestSide(ctx, tokenID, currencyID, side, &first)
		result.Pages += sideResult.Pages
		result.Fetched += sideResult.Fetched
		result.Inserted += sideResult.Inserted
		result.Dropped += sideResult.Dropped
		result.Duplicates += sideResult.Duplicates
		scope := ingestScope(tokenID, currencyID, side)
		if err != nil {
			s.writeIngestError(ctx, scope, err)
			return result, err
		}
		result.Sides++
		s.writeIngestSuccess(ctx, scope, sideResult)
	}
	return result, nil
}

func (s *IngestService) ingestSide(ctx context.Context, tokenID, currencyID string, side int16, first *bool) (IngestResult, error) {
	result := IngestResult{TokenID: tokenID, CurrencyID: currencyID}
	snapshotTime := time.Now().UTC()
	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	maxPages := s.MaxPages
	if maxPages <= 0 {
		maxPages = 10
	}

	for page := 1; page <= maxPages; page++ {
		if !*first {
			if err := s.pause(ctx); err != nil {
				return result, err
			}
		}
		*first = false

		pageData, err := s.Client.FetchOffers(ctx, p2p.OfferQuery{
			TokenID:    tokenID,
			CurrencyID: currencyID,
			Side:       int(side),
			Size:       pageSize,
			Page:       page,
		})
		if err != nil {
			return result, err
		}
		if len(pageData.Items) == 0 {
			break
		}
		result.Pages++
		result.Fetched += len(pageData.Items)

		for _, item := range pageData.Items {
			rs, err := s.Normalizer.Normalize(item, snapshotTime)
			if err != nil {
				var nerr *NormalizationError
				if errors.As(err, &nerr) {
					if s.Logger != nil {
						s.Logger.Warn("record dropped",
							zap.String("offer_id", nerr.OfferID),
							zap.String("field", nerr.Field),
							zap.Error(nerr.Err),
						)
					}
					result.Dropped++
					continue
				}
				return result, err
			}
			if err := s.writeRecord(ctx, rs); err != nil {
				var dup *repository.DuplicateKeyError
				if errors.As(err, &dup) {
					if s.Logger != nil {
						s.Logger.Error("duplicate offer snapshot",
							zap.String("offer_id", dup.OfferID),
							zap.Time("snapshot_time", dup.SnapshotTime),
							zap.String("token_id", tokenID),
							zap.String("currency_id", currencyID),
							zap.Int16("side", side),
						)
					}
					result.Duplicates++
					continue
				}
				// Store-level failure: abort the remaining batch.
				return result, err
			}
			result.Inserted++
		}

		if len(pageData.Items) < pageSize {
			break
		}
	}
	return result, nil
}

// writeRecord lands one record's write set in a single transaction,
// dimensions before the fact so dependents always reference existing rows.
func (s *IngestService) writeRecord(ctx context.Context, rs *RecordSet) error {
	return s.Store.InTx(ctx, func(tx *gorm.DB) error {
		if rs.Symbol != nil {
			if err := s.Store.UpsertSymbolInfoTx(ctx, tx, rs.Symbol); err != nil {
				return err
			}
		}
		if err := s.Store.UpsertExternalUserTx(ctx, tx, &rs.User); err != nil {
			return err
		}
		if err := s.Store.UpsertPaymentMethodsTx(ctx, tx, rs.Methods); err != nil {
			return err
		}
		if err := s.Store.UpsertAssetsTx(ctx, tx, rs.Assets); err != nil {
			return err
		}
		if err := s.Store.InsertOfferSnapshotTx(ctx, tx, &rs.Snapshot); err != nil {
			return err
		}
		if err := s.Store.InsertOfferPaymentsTx(ctx, tx, rs.Payments); err != nil {
			return err
		}
		if rs.Preferences != nil {
			return s.Store.UpsertTradingPreferencesTx(ctx, tx, rs.Preferences)
		}
		return nil
	})
}

func (s *IngestService) pause(ctx context.Context) error {
	if s.SidePause <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.SidePause):
		return nil
	}
}

func (s *IngestService) writeIngestSuccess(ctx context.Context, scope string, result IngestResult) {
	now := time.Now().UTC()
	err := s.Store.SaveIngestState(ctx, &models.IngestState{
		Scope:         scope,
		LastAttemptAt: &now,
		LastSuccessAt: &now,
		LastError:     nil,
		StatsJSON: statsJSON(map[string]int{
			"pages":      result.Pages,
			"fetched":    result.Fetched,
			"inserted":   result.Inserted,
			"dropped":    result.Dropped,
			"duplicates": result.Duplicates,
		}),
	})
	if err != nil && s.Logger != nil {
		s.Logger.Warn("save ingest state failed", zap.String("scope", scope), zap.Error(err))
	}
}

func (s *IngestService) writeIngestError(ctx context.Context, scope string, cause error) {
	if s.Logger != nil {
		s.Logger.Warn("ingest cycle failed", zap.String("scope", scope), zap.Error(cause))
	}
	now := time.Now().UTC()
	msg := cause.Error()
	_ = s.Store.SaveIngestState(ctx, &models.IngestState{
		Scope:         scope,
		LastAttemptAt: &now,
		LastError:     &msg,
	})
}

func ingestScope(tokenID, currencyID string, side int16) string {
	name := "sell"
	if side == models.SideBuy {
		name = "buy"
	}
	return fmt.Sprintf("%s/%s:%s", tokenID, currencyID, name)
}

func statsJSON(stats map[string]int) datatypes.JSON {
	payload, err := json.Marshal(stats)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(payload)
}
