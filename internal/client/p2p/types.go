package p2p

import "encoding/json"

// RawOffer is one nested offer record as returned by the upstream.
// Numeric values arrive as strings; booleans partly as "Y"/"N" codes.
type RawOffer struct {
	ID               string   `json:"id"`
	AccountID        string   `json:"accountId"`
	UserID           string   `json:"userId"`
	NickName         string   `json:"nickName"`
	TokenID          string   `json:"tokenId"`
	CurrencyID       string   `json:"currencyId"`
	Side             int      `json:"side"`
	PriceType        int      `json:"priceType"`
	Price            string   `json:"price"`
	Premium          string   `json:"premium"`
	LastQuantity     string   `json:"lastQuantity"`
	Quantity         string   `json:"quantity"`
	FrozenQuantity   string   `json:"frozenQuantity"`
	ExecutedQuantity string   `json:"executedQuantity"`
	MinAmount        string   `json:"minAmount"`
	MaxAmount        string   `json:"maxAmount"`
	Remark           string   `json:"remark"`
	Status           int      `json:"status"`
	IsOnline         bool     `json:"isOnline"`
	LastLogoutTime   string   `json:"lastLogoutTime"`
	Blocked          string   `json:"blocked"`
	MakerContact     bool     `json:"makerContact"`
	Payments         []string `json:"payments"`
	Version          int      `json:"version"`
	AuthStatus       int      `json:"authStatus"`
	UserType         string   `json:"userType"`
	PaymentPeriod    int      `json:"paymentPeriod"`
	UserMaskID       string   `json:"userMaskId"`

	SymbolInfo           *RawSymbolInfo         `json:"symbolInfo"`
	TradingPreferenceSet *RawTradingPreferences `json:"tradingPreferenceSet"`

	TokenScale       json.Number `json:"tokenScale"`
	CurrencyScale    json.Number `json:"currencyScale"`
	TokenSequence    json.Number `json:"tokenSequence"`
	CurrencySequence json.Number `json:"currencySequence"`
}

type RawSymbolInfo struct {
	ID                    string `json:"id"`
	ExchangeID            string `json:"exchangeId"`
	OrgID                 string `json:"orgId"`
	TokenID               string `json:"tokenId"`
	CurrencyID            string `json:"currencyId"`
	Status                int    `json:"status"`
	LowerLimitAlarm       int    `json:"lowerLimitAlarm"`
	UpperLimitAlarm       int    `json:"upperLimitAlarm"`
	ItemDownRange         string `json:"itemDownRange"`
	ItemUpRange           string `json:"itemUpRange"`
	CurrencyMinQuote      string `json:"currencyMinQuote"`
	CurrencyMaxQuote      string `json:"currencyMaxQuote"`
	CurrencyLowerMaxQuote string `json:"currencyLowerMaxQuote"`
	TokenMinQuote         string `json:"tokenMinQuote"`
	TokenMaxQuote         string `json:"tokenMaxQuote"`
	KycCurrencyLimit      string `json:"kycCurrencyLimit"`
	BuyFeeRate            string `json:"buyFeeRate"`
	SellFeeRate           string `json:"sellFeeRate"`
	OrderAutoCancelMinute int    `json:"orderAutoCancelMinute"`
	OrderFinishMinute     int    `json:"orderFinishMinute"`
}

type RawTradingPreferences struct {
	HasUnPostAd            int    `json:"hasUnPostAd"`
	IsKyc                  int    `json:"isKyc"`
	IsEmail                int    `json:"isEmail"`
	IsMobile               int    `json:"isMobile"`
	HasRegisterTime        int    `json:"hasRegisterTime"`
	RegisterTimeThreshold  string `json:"registerTimeThreshold"`
	OrderFinishNumberDay30 string `json:"orderFinishNumberDay30"`
	CompleteRateDay30      string `json:"completeRateDay30"`
	NationalLimit          string `json:"nationalLimit"`
}
