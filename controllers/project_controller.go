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

// ProjectController 项目看板控制器
type ProjectController struct {
	progression *services.ProgressionService
	trash       *services.TrashService
}

func NewProjectController(progression *services.ProgressionService, trash *services.TrashService) *ProjectController {
	return &ProjectController{progression: progression, trash: trash}
}

// CreateProject 创建项目
func (pc *ProjectController) CreateProject(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := models.Project{
		ID:           utils.GenerateID(),
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.ProjectStatusTodo,
		UserID:       uid,
		CreatedAt:    time.Now(),
		LastModified: time.Now(),
	}
	if err := config.DB.Create(&project).Error; err != nil {
		config.Logger.Errorw("项目创建失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "项目创建失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// ListProjects 项目列表，回收站中的项目不出现在这里
func (pc *ProjectController) ListProjects(c *gin.Context) {
	uid := c.GetString("uid")

	var projects []models.Project
	if err := config.DB.Where("user_id = ? AND deleted = ?", uid, false).
		Order("last_modified DESC").Find(&projects).Error; err != nil {
		config.Logger.Errorw("获取项目列表失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取项目列表失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// UpdateProject 更新项目字段
func (pc *ProjectController) UpdateProject(c *gin.Context) {
	uid := c.GetString("uid")
	projectID := c.Param("id")

	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{"last_modified": time.Now()}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	res := config.DB.Model(&models.Project{}).
		Where("id = ? AND user_id = ? AND deleted = ?", projectID, uid, false).
		Updates(updates)
	if res.Error != nil {
		config.Logger.Errorw("项目更新失败", "error", res.Error, "projectId", projectID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "项目更新失败"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "项目不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "项目更新成功"})
}

// UpdateStatus 看板拖拽落点，驱动项目完成经验的状态机
func (pc *ProjectController) UpdateStatus(c *gin.Context) {
	uid := c.GetString("uid")
	projectID := c.Param("id")

	var req models.ProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := pc.progression.ApplyProjectStatus(c.Request.Context(), uid, projectID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的项目状态"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "项目不存在"})
		default:
			config.Logger.Errorw("项目状态变更失败", "error", err, "projectId", projectID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "项目状态变更失败"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteProject 移入回收站
func (pc *ProjectController) DeleteProject(c *gin.Context) {
	uid := c.GetString("uid")
	projectID := c.Param("id")

	if err := pc.trash.SoftDelete(c.Request.Context(), uid, "project", projectID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "项目不存在"})
			return
		}
		config.Logger.Errorw("项目删除失败", "error", err, "projectId", projectID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "项目删除失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "项目已移入回收站"})
}
