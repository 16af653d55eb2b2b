package models

import "time"

type TradingPreferences struct {
	SnapshotTime           time.Time `gorm:"primaryKey;type:timestamptz;comment:快照时间"`
	OfferID                string    `gorm:"primaryKey;type:text;comment:报价唯一标识"`
	HasUnPostAd            bool      `gorm:"not null;default:false;comment:是否要求无下架广告"`
	IsKyc                  bool      `gorm:"not null;default:false;comment:是否要求KYC"`
	IsEmail                bool      `gorm:"not null;default:false;comment:是否要求绑定邮箱"`
	IsMobile               bool      `gorm:"not null;default:false;comment:是否要求绑定手机"`
	HasRegisterTime        bool      `gorm:"not null;default:false;comment:是否限制注册时长"`
	RegisterTimeThreshold  int       `gorm:"comment:注册时长阈值(天)"`
	OrderFinishNumberDay30 int       `gorm:"comment:近30日完成订单数要求"`
	CompleteRateDay30      float64   `gorm:"type:numeric;comment:近30日完成率要求"`
	NationalLimit          *string   `gorm:"type:text;comment:国家地区限制"`
}

func (TradingPreferences) TableName() string {
	return "trading_preferences"
}
