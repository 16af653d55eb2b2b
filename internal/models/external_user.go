package models

import (
	"time"

	"gorm.io/datatypes"
)

type ExternalUser struct {
	UserID       string         `gorm:"primaryKey;type:text;comment:用户唯一标识"`
	AccountID    string         `gorm:"type:text;comment:账户ID"`
	NickName     string         `gorm:"type:text;comment:昵称"`
	Blocked      bool           `gorm:"not null;default:false;comment:是否被封禁"`
	MakerContact bool           `gorm:"not null;default:false;comment:是否支持商家联系"`
	LastSeenAt   time.Time      `gorm:"type:timestamptz;not null;comment:最近同步时间"`
	RawJSON      datatypes.JSON `gorm:"type:jsonb;comment:原始数据"`
}

func (ExternalUser) TableName() string {
	return "external_users"
}
