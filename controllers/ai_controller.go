package controllers

import (
	"net/http"
	"time"

	"LifeOSGo/config"
	"LifeOSGo/models"
	"LifeOSGo/services"

	"github.com/gin-gonic/gin"
)

// AIController AI辅助功能：任务拆解、周回顾、笔记问答
// 这里只是提示词构造和流式转发，生成能力完全交给外部服务
type AIController struct {
	ai          *services.AIService
	progression *services.ProgressionService
}

func NewAIController(ai *services.AIService, progression *services.ProgressionService) *AIController {
	return &AIController{ai: ai, progression: progression}
}

// 设置流式响应头
func setStreamHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // 禁用 Nginx 缓冲
}

// 把生成流逐块写给客户端
func streamToClient(c *gin.Context, stream <-chan string) {
	for chunk := range stream {
		if _, err := c.Writer.WriteString(chunk); err != nil {
			config.Logger.Warnw("流式写入失败", "error", err)
			return
		}
		c.Writer.Flush()
	}
}

// BreakdownTask 任务拆解，流式返回
func (ac *AIController) BreakdownTask(c *gin.Context) {
	var req models.BreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stream, err := ac.ai.BreakdownTask(c.Request.Context(), req.Title, req.Notes)
	if err != nil {
		config.Logger.Errorw("任务拆解失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "任务拆解失败"})
		return
	}

	setStreamHeaders(c)
	streamToClient(c, stream)
}

// WeeklyReview 根据过去一周的活动日志生成周回顾
func (ac *AIController) WeeklyReview(c *gin.Context) {
	uid := c.GetString("uid")

	weekAgo := time.Now().AddDate(0, 0, -7)
	var entries []models.ActivityLogEntry
	if err := config.DB.Where("user_id = ? AND created_at > ?", uid, weekAgo).
		Order("created_at ASC").Find(&entries).Error; err != nil {
		config.Logger.Errorw("获取活动日志失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取活动日志失败"})
		return
	}

	review, err := ac.ai.WeeklyReview(c.Request.Context(), entries)
	if err != nil {
		config.Logger.Errorw("周回顾生成失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "周回顾生成失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

// NotesChat 基于笔记内容的问答，流式返回
func (ac *AIController) NotesChat(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.NotesChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 回收站中的笔记不参与问答
	var notes []models.Note
	if err := config.DB.Where("user_id = ? AND deleted = ?", uid, false).
		Order("last_modified DESC").Limit(30).Find(&notes).Error; err != nil {
		config.Logger.Errorw("获取笔记失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取笔记失败"})
		return
	}

	stream, err := ac.ai.NotesChat(c.Request.Context(), req.Question, notes)
	if err != nil {
		config.Logger.Errorw("笔记问答失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "笔记问答失败"})
		return
	}

	setStreamHeaders(c)
	streamToClient(c, stream)
}
