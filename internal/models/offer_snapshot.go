package models

import (
	"time"

	"gorm.io/datatypes"
)

// Side encoding follows the upstream wire value: 0=SELL, 1=BUY.
const (
	SideSell int16 = 0
	SideBuy  int16 = 1
)

type OfferSnapshot struct {
	SnapshotTime     time.Time      `gorm:"primaryKey;type:timestamptz;comment:快照时间"`
	OfferID          string         `gorm:"primaryKey;type:text;comment:报价唯一标识"`
	AccountID        string         `gorm:"type:text;comment:商家账户ID"`
	UserID           string         `gorm:"type:text;index;not null;comment:商家用户ID"`
	TokenID          string         `gorm:"type:text;index;not null;comment:代币标识"`
	CurrencyID       string         `gorm:"type:text;index;not null;comment:法币标识"`
	Side             int16          `gorm:"not null;comment:方向(0=卖 1=买)"`
	PriceType        int16          `gorm:"comment:定价类型(0=固定 1=浮动)"`
	Price            float64        `gorm:"type:numeric;not null;comment:单价"`
	Premium          float64        `gorm:"type:numeric;comment:溢价百分比"`
	LastQuantity     float64        `gorm:"type:numeric;comment:剩余数量"`
	Quantity         float64        `gorm:"type:numeric;comment:总数量"`
	FrozenQuantity   float64        `gorm:"type:numeric;comment:冻结数量"`
	ExecutedQuantity float64        `gorm:"type:numeric;comment:已成交数量"`
	MinAmount        float64        `gorm:"type:numeric;comment:单笔最小金额"`
	MaxAmount        float64        `gorm:"type:numeric;comment:单笔最大金额"`
	Status           int16          `gorm:"comment:报价状态"`
	IsOnline         bool           `gorm:"not null;default:false;comment:商家是否在线"`
	Remark           *string        `gorm:"type:text;comment:报价备注"`
	LastLogoutAt     *time.Time     `gorm:"type:timestamptz;comment:最近下线时间"`
	Version          int            `gorm:"comment:报价版本号"`
	AuthStatus       int16          `gorm:"comment:商家认证状态"`
	UserType         *string        `gorm:"type:text;comment:用户类型"`
	PaymentPeriod    int16          `gorm:"comment:付款时限(分钟)"`
	UserMaskID       *string        `gorm:"type:text;comment:用户掩码ID"`
	RawJSON          datatypes.JSON `gorm:"type:jsonb;not null;comment:原始数据"`
}

func (OfferSnapshot) TableName() string {
	return "offer_snapshots"
}
