package models

import (
	"time"
)

// RegisterRequest 注册请求结构体
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest 登录请求结构体
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateTaskRequest 创建任务请求结构体
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Notes       string     `json:"notes"`
	Deadline    *time.Time `json:"deadline"`
	PlannedDate *time.Time `json:"plannedDate"`
	Quadrant    string     `json:"quadrant"`
}

// UpdateTaskRequest 更新任务请求结构体
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Notes       *string    `json:"notes"`
	Deadline    *time.Time `json:"deadline"`
	PlannedDate *time.Time `json:"plannedDate"`
	Quadrant    *string    `json:"quadrant"`
}

// CompleteTaskRequest 任务完成状态切换请求
type CompleteTaskRequest struct {
	IsCompleted bool `json:"isCompleted"`
}

// FocusSessionRequest 专注计时请求结构体
type FocusSessionRequest struct {
	TaskID  string `json:"taskId" binding:"required"`
	Seconds int    `json:"seconds" binding:"required,min=60"`
}

// CreateProjectRequest 创建项目请求结构体
type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// UpdateProjectRequest 更新项目请求结构体
type UpdateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// ProjectStatusRequest 看板拖拽/状态变更请求
type ProjectStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SaveGoalRequest 保存目标请求结构体
type SaveGoalRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	TargetDate  *time.Time `json:"targetDate"`
	Progress    *int       `json:"progress"`
}

// SaveNoteRequest 保存笔记请求结构体（last-write-wins 同步）
type SaveNoteRequest struct {
	ID           string    `json:"id"`
	Title        string    `json:"title" binding:"required"`
	Content      string    `json:"content"`
	Tags         string    `json:"tags"`
	LastModified time.Time `json:"lastModified"`
}

// CreateHabitRequest 创建习惯请求结构体
type CreateHabitRequest struct {
	Name string `json:"name" binding:"required"`
	Icon string `json:"icon"`
}

// WellnessGoalRequest 健康打卡请求结构体
type WellnessGoalRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateTransactionRequest 记账请求结构体
type CreateTransactionRequest struct {
	Type       string    `json:"type" binding:"required,oneof=income expense"`
	AmountCent int64     `json:"amountCent" binding:"required,gt=0"`
	Category   string    `json:"category" binding:"required"`
	Note       string    `json:"note"`
	OccurredAt time.Time `json:"occurredAt" binding:"required"`
}

// TrashItemRef 回收站条目标识
type TrashItemRef struct {
	EntityType string `json:"entityType" binding:"required"`
	ID         string `json:"id" binding:"required"`
}

// PurgeAllRequest 清空回收站请求结构体
type PurgeAllRequest struct {
	Items []TrashItemRef `json:"items" binding:"required"`
}

// BreakdownRequest AI任务拆解请求结构体
type BreakdownRequest struct {
	Title string `json:"title" binding:"required"`
	Notes string `json:"notes"`
}

// NotesChatRequest 笔记问答请求结构体
type NotesChatRequest struct {
	Question string `json:"question" binding:"required"`
}
