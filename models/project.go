package models

import (
	"time"
)

// 项目看板状态
const (
	ProjectStatusProgress = "progress"
	ProjectStatusTodo     = "todo"
	ProjectStatusDone     = "done"
)

// Project 项目模型（看板卡片）
// deleted 为软删除标记，进入回收站后记录仍然保留
type Project struct {
	ID           string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	Title        string     `gorm:"type:varchar(100)" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Status       string     `gorm:"type:varchar(20);default:todo" json:"status"`
	Deleted      bool       `gorm:"default:false;index" json:"deleted"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	UserID       string     `gorm:"type:varchar(50);index" json:"user_id"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastModified time.Time  `json:"lastModified"`
}

// IsValidProjectStatus 校验看板状态取值
func IsValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusProgress, ProjectStatusTodo, ProjectStatusDone:
		return true
	}
	return false
}
