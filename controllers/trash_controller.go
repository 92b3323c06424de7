package controllers

import (
	"errors"
	"net/http"

	"LifeOSGo/config"
	"LifeOSGo/models"
	"LifeOSGo/services"

	"github.com/gin-gonic/gin"
)

// TrashController 回收站控制器
type TrashController struct {
	trash *services.TrashService
}

func NewTrashController(trash *services.TrashService) *TrashController {
	return &TrashController{trash: trash}
}

// ListTrash 列出回收站，单个类型查询失败不影响其余类型
func (tc *TrashController) ListTrash(c *gin.Context) {
	uid := c.GetString("uid")

	items, failures := tc.trash.ListTrash(c.Request.Context(), uid)

	resp := gin.H{"items": items}
	if len(failures) > 0 {
		// 部分类型不可用时把失败信息一并返回，前端据此提示
		resp["partialFailures"] = failures
	}
	c.JSON(http.StatusOK, resp)
}

// Restore 从回收站恢复
func (tc *TrashController) Restore(c *gin.Context) {
	uid := c.GetString("uid")
	entityType := c.Param("entityType")
	id := c.Param("id")

	if err := tc.trash.Restore(c.Request.Context(), uid, entityType, id); err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownEntityType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "未知的实体类型"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "记录不存在或已被清除"})
		default:
			config.Logger.Errorw("恢复失败", "error", err, "entityType", entityType, "id", id)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "恢复失败"})
		}
		return
	}

	label, _ := services.EntityTypeLabel(entityType)
	c.JSON(http.StatusOK, gin.H{"message": label + "已恢复"})
}

// Purge 永久删除单条记录，前端需要二次确认
func (tc *TrashController) Purge(c *gin.Context) {
	uid := c.GetString("uid")
	entityType := c.Param("entityType")
	id := c.Param("id")

	if err := tc.trash.Purge(c.Request.Context(), uid, entityType, id); err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownEntityType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "未知的实体类型"})
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "记录不存在"})
		default:
			config.Logger.Errorw("永久删除失败", "error", err, "entityType", entityType, "id", id)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "永久删除失败"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已永久删除"})
}

// PurgeAll 清空回收站，逐条处理并汇总失败条目
func (tc *TrashController) PurgeAll(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.PurgeAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purged, failures := tc.trash.PurgeAll(c.Request.Context(), uid, req.Items)

	resp := gin.H{"purged": purged}
	if len(failures) > 0 {
		resp["failures"] = failures
	}
	c.JSON(http.StatusOK, resp)
}
