package models

import "time"

type PaymentMethod struct {
	MethodID   string    `gorm:"primaryKey;type:text;comment:支付方式唯一标识"`
	Name       string    `gorm:"type:text;not null;comment:支付方式名称"`
	LastSeenAt time.Time `gorm:"type:timestamptz;not null;comment:最近同步时间"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}
