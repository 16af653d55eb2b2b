package models

import "time"

type Asset struct {
	AssetID    string    `gorm:"primaryKey;type:text;comment:资产符号"`
	Scale      int16     `gorm:"comment:小数精度"`
	Sequence   int16     `gorm:"comment:展示顺序"`
	LastSeenAt time.Time `gorm:"type:timestamptz;not null;comment:最近同步时间"`
}

func (Asset) TableName() string {
	return "assets"
}
