package models

import (
	"time"
)

// Goal 目标模型
type Goal struct {
	ID           string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	Title        string     `gorm:"type:varchar(100)" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	TargetDate   *time.Time `json:"targetDate,omitempty"`
	Progress     int        `gorm:"default:0" json:"progress"` // 0-100
	Deleted      bool       `gorm:"default:false;index" json:"deleted"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	UserID       string     `gorm:"type:varchar(50);index" json:"user_id"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastModified time.Time  `json:"lastModified"`
}
