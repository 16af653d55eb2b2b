package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"p2pmonitor/internal/client/p2p"
	"p2pmonitor/internal/models"
)

// NormalizationError marks a record that cannot be flattened because a
// mandatory field is unparseable. The record is dropped; the cycle goes on.
type NormalizationError struct {
	OfferID string
	Field   string
	Err     error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize offer %s: field %s: %v", e.OfferID, e.Field, e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }

// RecordSet is the flat write set produced from one raw offer record.
type RecordSet struct {
	Snapshot    models.OfferSnapshot
	User        models.ExternalUser
	Methods     []models.PaymentMethod
	Payments    []models.OfferPayment
	Preferences *models.TradingPreferences
	Symbol      *models.SymbolInfo
	Assets      []models.Asset
}

// Normalizer maps one raw nested offer into flat entities. Methods resolves
// payment method ids to display names; unmapped ids get a placeholder.
type Normalizer struct {
	Methods map[string]string
	Logger  *zap.Logger
}

func (n *Normalizer) Normalize(raw p2p.RawOffer, snapshotTime time.Time) (*RecordSet, error) {
	offerID := strings.TrimSpace(raw.ID)
	if offerID == "" {
		return nil, &NormalizationError{OfferID: "?", Field: "id", Err: fmt.Errorf("missing offer id")}
	}
	if raw.Side != int(models.SideSell) && raw.Side != int(models.SideBuy) {
		return nil, &NormalizationError{OfferID: offerID, Field: "side", Err: fmt.Errorf("unexpected side %d", raw.Side)}
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(raw.Price), 64)
	if err != nil {
		return nil, &NormalizationError{OfferID: offerID, Field: "price", Err: err}
	}

	rs := &RecordSet{
		Snapshot: models.OfferSnapshot{
			SnapshotTime:     snapshotTime,
			OfferID:          offerID,
			AccountID:        raw.AccountID,
			UserID:           raw.UserID,
			TokenID:          raw.TokenID,
			CurrencyID:       raw.CurrencyID,
			Side:             int16(raw.Side),
			PriceType:        int16(raw.PriceType),
			Price:            price,
			Premium:          floatDefault(raw.Premium),
			LastQuantity:     floatDefault(raw.LastQuantity),
			Quantity:         floatDefault(raw.Quantity),
			FrozenQuantity:   floatDefault(raw.FrozenQuantity),
			ExecutedQuantity: floatDefault(raw.ExecutedQuantity),
			MinAmount:        floatDefault(raw.MinAmount),
			MaxAmount:        floatDefault(raw.MaxAmount),
			Status:           int16(raw.Status),
			IsOnline:         raw.IsOnline,
			Remark:           strPtr(raw.Remark),
			LastLogoutAt:     n.timestampPtr(offerID, "lastLogoutTime", raw.LastLogoutTime),
			Version:          raw.Version,
			AuthStatus:       int16(raw.AuthStatus),
			UserType:         strPtr(raw.UserType),
			PaymentPeriod:    int16(raw.PaymentPeriod),
			UserMaskID:       strPtr(raw.UserMaskID),
			RawJSON:          mustJSON(raw),
		},
		User: models.ExternalUser{
			UserID:       raw.UserID,
			AccountID:    raw.AccountID,
			NickName:     raw.NickName,
			Blocked:      parseYN(raw.Blocked),
			MakerContact: raw.MakerContact,
			LastSeenAt:   snapshotTime,
			RawJSON:      mustJSON(map[string]string{"userId": raw.UserID, "nickName": raw.NickName, "blocked": raw.Blocked}),
		},
	}

	seen := map[string]struct{}{}
	for _, methodID := range raw.Payments {
		methodID = strings.TrimSpace(methodID)
		if methodID == "" {
			continue
		}
		if _, ok := seen[methodID]; ok {
			continue
		}
		seen[methodID] = struct{}{}
		rs.Methods = append(rs.Methods, models.PaymentMethod{
			MethodID:   methodID,
			Name:       n.methodName(methodID),
			LastSeenAt: snapshotTime,
		})
		rs.Payments = append(rs.Payments, models.OfferPayment{
			SnapshotTime: snapshotTime,
			OfferID:      offerID,
			MethodID:     methodID,
		})
	}

	if prefs := raw.TradingPreferenceSet; prefs != nil {
		rs.Preferences = &models.TradingPreferences{
			SnapshotTime:           snapshotTime,
			OfferID:                offerID,
			HasUnPostAd:            prefs.HasUnPostAd != 0,
			IsKyc:                  prefs.IsKyc != 0,
			IsEmail:                prefs.IsEmail != 0,
			IsMobile:               prefs.IsMobile != 0,
			HasRegisterTime:        prefs.HasRegisterTime != 0,
			RegisterTimeThreshold:  intDefault(prefs.RegisterTimeThreshold),
			OrderFinishNumberDay30: intDefault(prefs.OrderFinishNumberDay30),
			CompleteRateDay30:      floatDefault(prefs.CompleteRateDay30),
			NationalLimit:          strPtr(prefs.NationalLimit),
		}
	}

	if sym := raw.SymbolInfo; sym != nil && strings.TrimSpace(sym.ID) != "" {
		rs.Symbol = &models.SymbolInfo{
			SymbolID:              sym.ID,
			TokenID:               sym.TokenID,
			CurrencyID:            sym.CurrencyID,
			Status:                int16(sym.Status),
			LowerLimitAlarm:       sym.LowerLimitAlarm,
			UpperLimitAlarm:       sym.UpperLimitAlarm,
			ItemDownRange:         decimalDefault(sym.ItemDownRange),
			ItemUpRange:           decimalDefault(sym.ItemUpRange),
			CurrencyMinQuote:      decimalDefault(sym.CurrencyMinQuote),
			CurrencyMaxQuote:      decimalDefault(sym.CurrencyMaxQuote),
			CurrencyLowerMaxQuote: decimalDefault(sym.CurrencyLowerMaxQuote),
			TokenMinQuote:         decimalDefault(sym.TokenMinQuote),
			TokenMaxQuote:         decimalDefault(sym.TokenMaxQuote),
			KycCurrencyLimit:      decimalDefault(sym.KycCurrencyLimit),
			BuyFeeRate:            decimalDefault(sym.BuyFeeRate),
			SellFeeRate:           decimalDefault(sym.SellFeeRate),
			OrderAutoCancelMinute: int16(sym.OrderAutoCancelMinute),
			OrderFinishMinute:     int16(sym.OrderFinishMinute),
			LastSeenAt:            snapshotTime,
		}
	}

	// Two asset stubs per record; the upsert deduplicates across records.
	rs.Assets = []models.Asset{
		{
			AssetID:    raw.TokenID,
			Scale:      numberDefault(raw.TokenScale),
			Sequence:   numberDefault(raw.TokenSequence),
			LastSeenAt: snapshotTime,
		},
		{
			AssetID:    raw.CurrencyID,
			Scale:      numberDefault(raw.CurrencyScale),
			Sequence:   numberDefault(raw.CurrencySequence),
			LastSeenAt: snapshotTime,
		},
	}

	return rs, nil
}

func (n *Normalizer) methodName(methodID string) string {
	if name, ok := n.Methods[methodID]; ok && strings.TrimSpace(name) != "" {
		return name
	}
	// Placeholder until a canonical lookup table covers the id.
	return "method-" + methodID
}

// timestampPtr parses either a base-10 string of unix seconds or an
// ISO-8601 string. Unparseable values resolve to absent with a warning
// rather than failing the record.
func (n *Normalizer) timestampPtr(offerID, field, value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if sec, err := strconv.ParseInt(value, 10, 64); err == nil {
		t := time.Unix(sec, 0).UTC()
		return &t
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	if n.Logger != nil {
		n.Logger.Warn("unparseable timestamp",
			zap.String("offer_id", offerID),
			zap.String("field", field),
			zap.String("value", value),
		)
	}
	return nil
}

func floatDefault(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

func intDefault(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return i
}

func numberDefault(value json.Number) int16 {
	if value == "" {
		return 0
	}
	i, err := value.Int64()
	if err != nil {
		return 0
	}
	return int16(i)
}

func decimalDefault(value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseYN(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "Y")
}

func mustJSON(v any) datatypes.JSON {
	payload, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(payload)
}

func strPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
