package models

import "time"

type OfferPayment struct {
	SnapshotTime time.Time `gorm:"primaryKey;type:timestamptz;comment:快照时间"`
	OfferID      string    `gorm:"primaryKey;type:text;comment:报价唯一标识"`
	MethodID     string    `gorm:"primaryKey;type:text;comment:支付方式标识"`
}

func (OfferPayment) TableName() string {
	return "offer_payments"
}
