package models

import (
	"time"
)

// Task 任务模型
type Task struct {
	ID           string     `gorm:"type:varchar(50);primary_key" json:"id"`
	Title        string     `gorm:"type:varchar(100)" json:"title"`
	IsCompleted  bool       `json:"isCompleted"`
	Notes        string     `gorm:"type:text" json:"notes"`
	Deadline     *time.Time `json:"deadline"`
	PlannedDate  *time.Time `json:"plannedDate,omitempty"`
	Quadrant     string     `gorm:"type:varchar(30)" json:"quadrant"` // 四象限
	UserID       string     `gorm:"type:varchar(50);index" json:"user_id"`
	FocusTime    int        `gorm:"default:0" json:"focusTime"` // 累计专注秒数
	LastModified time.Time  `json:"lastModified"`
}
