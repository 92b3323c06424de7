package controllers

import (
	"net/http"
	"strconv"

	"LifeOSGo/config"
	"LifeOSGo/models"
	"LifeOSGo/services"

	"github.com/gin-gonic/gin"
)

// ProfileController 账本与活动日志
type ProfileController struct {
	progression *services.ProgressionService
}

func NewProfileController(progression *services.ProgressionService) *ProfileController {
	return &ProfileController{progression: progression}
}

// GetLedger 获取经验账本及进度条派生值
func (pc *ProfileController) GetLedger(c *gin.Context) {
	uid := c.GetString("uid")

	ledger, err := pc.progression.Ledger(c.Request.Context(), uid)
	if err != nil {
		config.Logger.Errorw("获取账本失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取账本失败"})
		return
	}

	c.JSON(http.StatusOK, models.LedgerResponse{
		XP:          ledger.XP,
		Level:       ledger.Level,
		XPIntoLevel: services.XPIntoLevel(ledger.XP),
		XPRemaining: services.XPRemaining(ledger.XP),
		LastUpdated: ledger.LastUpdated,
	})
}

// GetActivityLog 获取最近的活动日志
func (pc *ProfileController) GetActivityLog(c *gin.Context) {
	uid := c.GetString("uid")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := pc.progression.ActivityLog(c.Request.Context(), uid, limit)
	if err != nil {
		config.Logger.Errorw("获取活动日志失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取活动日志失败"})
		return
	}

	responses := make([]models.ActivityResponse, len(entries))
	for i, e := range entries {
		responses[i] = models.ActivityResponse{
			ID:        e.ID,
			Type:      e.Type,
			Message:   e.Message,
			XPGained:  e.XPGained,
			CreatedAt: e.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{"activities": responses})
}

// LogMemory 手动记录一条日志（不涉及经验变动以外的业务）
func (pc *ProfileController) LogMemory(c *gin.Context) {
	uid := c.GetString("uid")

	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := pc.progression.Grant(c.Request.Context(), uid, services.XPTaskCapture,
		services.ActionMemoryLog, req.Message)
	if err != nil {
		config.Logger.Errorw("记录日志失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "记录日志失败"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ResetAccount 账号重置，仅限内部接口调用
func (pc *ProfileController) ResetAccount(c *gin.Context) {
	uid := c.Query("uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少uid参数"})
		return
	}

	config.Logger.Infow("内部接口调用：账号重置",
		"uid", uid,
		"sourceIP", c.ClientIP(),
	)

	if err := pc.progression.ResetAccount(c.Request.Context(), uid); err != nil {
		config.Logger.Errorw("账号重置失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "账号重置失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "账号已重置"})
}
