package models

import (
	"time"
)

// ProfileLedger 用户经验账本，每个用户一条记录
// level 始终由 xp 推导：level = xp/100 + 1
type ProfileLedger struct {
	UserID      string    `gorm:"type:varchar(50);primaryKey" json:"user_id"`
	XP          int       `gorm:"default:0" json:"xp"`
	Level       int       `gorm:"default:1" json:"level"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func (ProfileLedger) TableName() string {
	return "profile_ledgers"
}

// ActivityLogEntry 活动日志，只追加不修改
type ActivityLogEntry struct {
	ID        string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(50);index:idx_activity_user_time" json:"user_id"`
	Type      string    `gorm:"type:varchar(30)" json:"type"`
	Message   string    `gorm:"type:varchar(255)" json:"message"`
	XPGained  int       `json:"xpGained"` // 撤销操作时为负数
	CreatedAt time.Time `gorm:"index:idx_activity_user_time" json:"createdAt"`
}

func (ActivityLogEntry) TableName() string {
	return "activity_log_entries"
}
