package models

import (
	"time"
)

// Note 笔记模型（第二大脑）
type Note struct {
	ID           string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	Title        string     `gorm:"type:varchar(100)" json:"title"`
	Content      string     `gorm:"type:text" json:"content"`
	Tags         string     `gorm:"type:varchar(255)" json:"tags"` // 逗号分隔
	Deleted      bool       `gorm:"default:false;index" json:"deleted"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	UserID       string     `gorm:"type:varchar(50);index" json:"user_id"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastModified time.Time  `json:"lastModified"`
}
