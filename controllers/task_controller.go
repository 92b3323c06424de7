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

// TaskController 任务控制器
type TaskController struct {
	progression *services.ProgressionService
}

func NewTaskController(progression *services.ProgressionService) *TaskController {
	return &TaskController{progression: progression}
}

// CreateTask 快速记录任务，奖励少量经验
func (tc *TaskController) CreateTask(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := models.Task{
		ID:           utils.GenerateID(),
		Title:        req.Title,
		Notes:        req.Notes,
		Deadline:     req.Deadline,
		PlannedDate:  req.PlannedDate,
		Quadrant:     req.Quadrant,
		UserID:       uid,
		LastModified: time.Now(),
	}
	if err := config.DB.Create(&task).Error; err != nil {
		config.Logger.Errorw("任务创建失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "任务创建失败"})
		return
	}

	grant, err := tc.progression.Grant(c.Request.Context(), uid, services.XPTaskCapture,
		services.ActionTaskCapture, fmt.Sprintf("记录任务「%s」", task.Title))
	if err != nil {
		// 任务已创建，入账失败按整体失败处理
		config.Logger.Errorw("任务记录入账失败", "error", err, "uid", uid, "taskId", task.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "任务记录入账失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task, "grant": grant})
}

// ListTasks 任务列表
func (tc *TaskController) ListTasks(c *gin.Context) {
	uid := c.GetString("uid")

	var tasks []models.Task
	if err := config.DB.Where("user_id = ?", uid).
		Order("last_modified DESC").Find(&tasks).Error; err != nil {
		config.Logger.Errorw("获取任务列表失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取任务列表失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// UpdateTask 更新任务字段
func (tc *TaskController) UpdateTask(c *gin.Context) {
	uid := c.GetString("uid")
	taskID := c.Param("id")

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{"last_modified": time.Now()}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Deadline != nil {
		updates["deadline"] = *req.Deadline
	}
	if req.PlannedDate != nil {
		updates["planned_date"] = *req.PlannedDate
	}
	if req.Quadrant != nil {
		updates["quadrant"] = *req.Quadrant
	}

	res := config.DB.Model(&models.Task{}).
		Where("id = ? AND user_id = ?", taskID, uid).
		Updates(updates)
	if res.Error != nil {
		config.Logger.Errorw("任务更新失败", "error", res.Error, "taskId", taskID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "任务更新失败"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "任务不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "任务更新成功"})
}

// CompleteTask 切换任务完成状态
// 未完成 -> 完成 奖励经验；完成 -> 未完成 撤销同额经验
func (tc *TaskController) CompleteTask(c *gin.Context) {
	uid := c.GetString("uid")
	taskID := c.Param("id")

	var req models.CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task models.Task
	if err := config.DB.Where("id = ? AND user_id = ?", taskID, uid).First(&task).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "任务不存在"})
			return
		}
		config.Logger.Errorw("获取任务失败", "error", err, "taskId", taskID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取任务失败"})
		return
	}

	// 状态未变化时不重复入账
	if task.IsCompleted == req.IsCompleted {
		c.JSON(http.StatusOK, gin.H{"task": task})
		return
	}

	if err := config.DB.Model(&task).Updates(map[string]interface{}{
		"is_completed":  req.IsCompleted,
		"last_modified": time.Now(),
	}).Error; err != nil {
		config.Logger.Errorw("任务状态更新失败", "error", err, "taskId", taskID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "任务状态更新失败"})
		return
	}

	var grant *services.GrantResult
	var err error
	if req.IsCompleted {
		grant, err = tc.progression.Grant(c.Request.Context(), uid, services.XPTaskDone,
			services.ActionTaskDone, fmt.Sprintf("完成任务「%s」", task.Title))
	} else {
		grant, err = tc.progression.Grant(c.Request.Context(), uid, -services.XPTaskDone,
			services.ActionTaskUndo, fmt.Sprintf("任务「%s」撤回完成", task.Title))
	}
	if err != nil {
		config.Logger.Errorw("任务完成入账失败", "error", err, "uid", uid, "taskId", taskID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "任务完成入账失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task, "grant": grant})
}

// FocusSession 记录一次专注计时并奖励经验
func (tc *TaskController) FocusSession(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.FocusSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var task models.Task
	if err := config.DB.Where("id = ? AND user_id = ?", req.TaskID, uid).First(&task).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "任务不存在"})
		return
	}

	if err := config.DB.Model(&task).Updates(map[string]interface{}{
		"focus_time":    gorm.Expr("focus_time + ?", req.Seconds),
		"last_modified": time.Now(),
	}).Error; err != nil {
		config.Logger.Errorw("专注时间更新失败", "error", err, "taskId", req.TaskID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "专注时间更新失败"})
		return
	}

	grant, err := tc.progression.Grant(c.Request.Context(), uid, services.XPFocusSession,
		services.ActionFocusDone, fmt.Sprintf("专注「%s」%d分钟", task.Title, req.Seconds/60))
	if err != nil {
		config.Logger.Errorw("专注入账失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "专注入账失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"grant": grant})
}
