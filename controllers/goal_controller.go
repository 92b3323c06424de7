package controllers

import (
	"errors"
	"net/http"
	"time"

	"LifeOSGo/config"
	"LifeOSGo/models"
	"LifeOSGo/services"
	"LifeOSGo/utils"

	"github.com/gin-gonic/gin"
)

// GoalController 目标控制器
type GoalController struct {
	trash *services.TrashService
}

func NewGoalController(trash *services.TrashService) *GoalController {
	return &GoalController{trash: trash}
}

// CreateGoal 创建目标
func (gc *GoalController) CreateGoal(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.SaveGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal := models.Goal{
		ID:           utils.GenerateID(),
		Title:        req.Title,
		Description:  req.Description,
		TargetDate:   req.TargetDate,
		UserID:       uid,
		CreatedAt:    time.Now(),
		LastModified: time.Now(),
	}
	if req.Progress != nil {
		goal.Progress = *req.Progress
	}
	if err := config.DB.Create(&goal).Error; err != nil {
		config.Logger.Errorw("目标创建失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "目标创建失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// ListGoals 目标列表，不含回收站中的目标
func (gc *GoalController) ListGoals(c *gin.Context) {
	uid := c.GetString("uid")

	var goals []models.Goal
	if err := config.DB.Where("user_id = ? AND deleted = ?", uid, false).
		Order("created_at DESC").Find(&goals).Error; err != nil {
		config.Logger.Errorw("获取目标列表失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取目标列表失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// UpdateGoal 更新目标
func (gc *GoalController) UpdateGoal(c *gin.Context) {
	uid := c.GetString("uid")
	goalID := c.Param("id")

	var req models.SaveGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"title":         req.Title,
		"description":   req.Description,
		"last_modified": time.Now(),
	}
	if req.TargetDate != nil {
		updates["target_date"] = *req.TargetDate
	}
	if req.Progress != nil {
		updates["progress"] = *req.Progress
	}

	res := config.DB.Model(&models.Goal{}).
		Where("id = ? AND user_id = ? AND deleted = ?", goalID, uid, false).
		Updates(updates)
	if res.Error != nil {
		config.Logger.Errorw("目标更新失败", "error", res.Error, "goalId", goalID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "目标更新失败"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "目标不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "目标更新成功"})
}

// DeleteGoal 移入回收站
func (gc *GoalController) DeleteGoal(c *gin.Context) {
	uid := c.GetString("uid")
	goalID := c.Param("id")

	if err := gc.trash.SoftDelete(c.Request.Context(), uid, "goal", goalID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "目标不存在"})
			return
		}
		config.Logger.Errorw("目标删除失败", "error", err, "goalId", goalID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "目标删除失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "目标已移入回收站"})
}
