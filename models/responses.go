package models

import "time"

// LedgerResponse 经验账本响应结构体，附带进度条派生值
type LedgerResponse struct {
	XP          int       `json:"xp"`
	Level       int       `json:"level"`
	XPIntoLevel int       `json:"xpIntoLevel"`
	XPRemaining int       `json:"xpRemaining"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// ActivityResponse 活动日志响应结构体
type ActivityResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	XPGained  int       `json:"xpGained"`
	CreatedAt time.Time `json:"createdAt"`
}

// TrashItemResponse 回收站条目，跨实体类型合并展示
type TrashItemResponse struct {
	EntityType string     `json:"entityType"`
	TypeLabel  string     `json:"typeLabel"`
	Icon       string     `json:"icon"`
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	DeletedAt  *time.Time `json:"deletedAt"`
}

// UserResponse 用户响应结构体
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email"`
}
