package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SymbolInfo struct {
	SymbolID              string          `gorm:"primaryKey;type:text;comment:交易对唯一标识"`
	TokenID               string          `gorm:"type:text;index;not null;comment:代币标识"`
	CurrencyID            string          `gorm:"type:text;index;not null;comment:法币标识"`
	Status                int16           `gorm:"comment:交易对状态"`
	LowerLimitAlarm       int             `gorm:"comment:价格下限告警阈值"`
	UpperLimitAlarm       int             `gorm:"comment:价格上限告警阈值"`
	ItemDownRange         decimal.Decimal `gorm:"type:numeric(20,10);comment:报价下浮范围"`
	ItemUpRange           decimal.Decimal `gorm:"type:numeric(20,10);comment:报价上浮范围"`
	CurrencyMinQuote      decimal.Decimal `gorm:"type:numeric(30,10);comment:法币最小报价额"`
	CurrencyMaxQuote      decimal.Decimal `gorm:"type:numeric(30,10);comment:法币最大报价额"`
	CurrencyLowerMaxQuote decimal.Decimal `gorm:"type:numeric(30,10);comment:法币下限最大报价额"`
	TokenMinQuote         decimal.Decimal `gorm:"type:numeric(30,10);comment:代币最小报价量"`
	TokenMaxQuote         decimal.Decimal `gorm:"type:numeric(30,10);comment:代币最大报价量"`
	KycCurrencyLimit      decimal.Decimal `gorm:"type:numeric(30,10);comment:KYC法币限额"`
	BuyFeeRate            decimal.Decimal `gorm:"type:numeric(20,10);comment:买方手续费率"`
	SellFeeRate           decimal.Decimal `gorm:"type:numeric(20,10);comment:卖方手续费率"`
	OrderAutoCancelMinute int16           `gorm:"comment:订单自动取消时间(分钟)"`
	OrderFinishMinute     int16           `gorm:"comment:订单完成时限(分钟)"`
	LastSeenAt            time.Time       `gorm:"type:timestamptz;not null;comment:最近同步时间"`
}

func (SymbolInfo) TableName() string {
	return "symbol_info"
}
