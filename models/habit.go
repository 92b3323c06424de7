package models

import (
	"time"
)

// Habit 习惯模型
type Habit struct {
	ID           string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name         string     `gorm:"type:varchar(100)" json:"name"`
	Icon         string     `gorm:"type:varchar(50)" json:"icon"`
	Streak       int        `gorm:"default:0" json:"streak"` // 连续打卡天数
	LastCheckin  *time.Time `json:"lastCheckin,omitempty"`
	UserID       string     `gorm:"type:varchar(50);index" json:"user_id"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastModified time.Time  `json:"lastModified"`
}
