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

// NoteController 笔记控制器
type NoteController struct {
	trash *services.TrashService
}

func NewNoteController(trash *services.TrashService) *NoteController {
	return &NoteController{trash: trash}
}

// SaveNote 保存笔记
// 带ID时按 lastModified 做 last-write-wins 更新，旧数据直接忽略
func (nc *NoteController) SaveNote(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.SaveNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ID == "" {
		note := models.Note{
			ID:           utils.GenerateID(),
			Title:        req.Title,
			Content:      req.Content,
			Tags:         req.Tags,
			UserID:       uid,
			CreatedAt:    time.Now(),
			LastModified: time.Now(),
		}
		if err := config.DB.Create(&note).Error; err != nil {
			config.Logger.Errorw("笔记创建失败", "error", err, "uid", uid)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "笔记创建失败"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"note": note})
		return
	}

	var existing models.Note
	if err := config.DB.Where("id = ? AND user_id = ?", req.ID, uid).First(&existing).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "笔记不存在"})
		return
	}

	// 旧数据更晚则忽略本次保存
	if !req.LastModified.IsZero() && !req.LastModified.After(existing.LastModified) {
		c.JSON(http.StatusOK, gin.H{"note": existing, "ignored": true})
		return
	}

	if err := config.DB.Model(&existing).Updates(map[string]interface{}{
		"title":         req.Title,
		"content":       req.Content,
		"tags":          req.Tags,
		"last_modified": time.Now(),
	}).Error; err != nil {
		config.Logger.Errorw("笔记保存失败", "error", err, "noteId", req.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "笔记保存失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"note": existing})
}

// ListNotes 笔记列表，不含回收站中的笔记
func (nc *NoteController) ListNotes(c *gin.Context) {
	uid := c.GetString("uid")

	var notes []models.Note
	if err := config.DB.Where("user_id = ? AND deleted = ?", uid, false).
		Order("last_modified DESC").Find(&notes).Error; err != nil {
		config.Logger.Errorw("获取笔记列表失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取笔记列表失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// DeleteNote 移入回收站
func (nc *NoteController) DeleteNote(c *gin.Context) {
	uid := c.GetString("uid")
	noteID := c.Param("id")

	if err := nc.trash.SoftDelete(c.Request.Context(), uid, "note", noteID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "笔记不存在"})
			return
		}
		config.Logger.Errorw("笔记删除失败", "error", err, "noteId", noteID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "笔记删除失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "笔记已移入回收站"})
}
