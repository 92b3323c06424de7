package controllers

import (
	"fmt"
	"net/http"
	"time"

	"LifeOSGo/config"
	"LifeOSGo/models"
	"LifeOSGo/services"
	"LifeOSGo/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HabitController 习惯与健康打卡控制器
type HabitController struct {
	progression *services.ProgressionService
}

func NewHabitController(progression *services.ProgressionService) *HabitController {
	return &HabitController{progression: progression}
}

// CreateHabit 创建习惯
func (hc *HabitController) CreateHabit(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit := models.Habit{
		ID:           utils.GenerateID(),
		Name:         req.Name,
		Icon:         req.Icon,
		UserID:       uid,
		CreatedAt:    time.Now(),
		LastModified: time.Now(),
	}
	if err := config.DB.Create(&habit).Error; err != nil {
		config.Logger.Errorw("习惯创建失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "习惯创建失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"habit": habit})
}

// ListHabits 习惯列表
func (hc *HabitController) ListHabits(c *gin.Context) {
	uid := c.GetString("uid")

	var habits []models.Habit
	if err := config.DB.Where("user_id = ?", uid).
		Order("created_at ASC").Find(&habits).Error; err != nil {
		config.Logger.Errorw("获取习惯列表失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取习惯列表失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"habits": habits})
}

// CheckIn 习惯打卡
func (hc *HabitController) CheckIn(c *gin.Context) {
	uid := c.GetString("uid")
	habitID := c.Param("id")

	var habit models.Habit
	if err := config.DB.Where("id = ? AND user_id = ?", habitID, uid).First(&habit).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "习惯不存在"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&habit).Updates(map[string]interface{}{
		"streak":        gorm.Expr("streak + 1"),
		"last_checkin":  now,
		"last_modified": now,
	}).Error; err != nil {
		config.Logger.Errorw("习惯打卡失败", "error", err, "habitId", habitID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "习惯打卡失败"})
		return
	}

	grant, err := hc.progression.Grant(c.Request.Context(), uid, services.XPHabitCheckin,
		services.ActionHabitDone, fmt.Sprintf("习惯「%s」打卡", habit.Name))
	if err != nil {
		config.Logger.Errorw("习惯打卡入账失败", "error", err, "uid", uid, "habitId", habitID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "习惯打卡入账失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"grant": grant})
}

// UndoCheckIn 撤销打卡，扣回对应经验
func (hc *HabitController) UndoCheckIn(c *gin.Context) {
	uid := c.GetString("uid")
	habitID := c.Param("id")

	var habit models.Habit
	if err := config.DB.Where("id = ? AND user_id = ?", habitID, uid).First(&habit).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "习惯不存在"})
		return
	}

	if habit.Streak <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "没有可撤销的打卡"})
		return
	}

	if err := config.DB.Model(&habit).Updates(map[string]interface{}{
		"streak":        gorm.Expr("streak - 1"),
		"last_modified": time.Now(),
	}).Error; err != nil {
		config.Logger.Errorw("撤销打卡失败", "error", err, "habitId", habitID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "撤销打卡失败"})
		return
	}

	grant, err := hc.progression.Grant(c.Request.Context(), uid, -services.XPHabitCheckin,
		services.ActionHabitUndo, fmt.Sprintf("习惯「%s」撤销打卡", habit.Name))
	if err != nil {
		config.Logger.Errorw("撤销打卡入账失败", "error", err, "uid", uid, "habitId", habitID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "撤销打卡入账失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"grant": grant})
}

// CompleteWellnessGoal 健康目标打卡（冥想、喝水等轻量目标）
func (hc *HabitController) CompleteWellnessGoal(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.WellnessGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grant, err := hc.progression.Grant(c.Request.Context(), uid, services.XPWellnessGoal,
		services.ActionWellnessDone, fmt.Sprintf("完成健康目标「%s」", req.Name))
	if err != nil {
		config.Logger.Errorw("健康目标入账失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "健康目标入账失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"grant": grant})
}
