package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"LifeOSGo/config"
	"LifeOSGo/models"
	"LifeOSGo/services"
	"LifeOSGo/utils"

	"github.com/gin-gonic/gin"
)

// TransactionController 收支记录控制器
type TransactionController struct {
	progression *services.ProgressionService
}

func NewTransactionController(progression *services.ProgressionService) *TransactionController {
	return &TransactionController{progression: progression}
}

// CreateTransaction 记一笔账并奖励少量经验
func (tc *TransactionController) CreateTransaction(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn := models.Transaction{
		ID:         utils.GenerateID(),
		Type:       req.Type,
		AmountCent: req.AmountCent,
		Category:   req.Category,
		Note:       req.Note,
		OccurredAt: req.OccurredAt,
		UserID:     uid,
		CreatedAt:  time.Now(),
	}
	if err := config.DB.Create(&txn).Error; err != nil {
		config.Logger.Errorw("记账失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "记账失败"})
		return
	}

	grant, err := tc.progression.Grant(c.Request.Context(), uid, services.XPTransactionLog,
		services.ActionTransactionLog, fmt.Sprintf("记录一笔%s", typeLabel(req.Type)))
	if err != nil {
		config.Logger.Errorw("记账入账失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "记账入账失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": txn, "grant": grant})
}

func typeLabel(t string) string {
	if t == models.TransactionIncome {
		return "收入"
	}
	return "支出"
}

// ListTransactions 收支列表，支持时间范围过滤
func (tc *TransactionController) ListTransactions(c *gin.Context) {
	uid := c.GetString("uid")

	query := config.DB.Where("user_id = ?", uid)
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的时间格式"})
			return
		}
		query = query.Where("occurred_at >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的时间格式"})
			return
		}
		query = query.Where("occurred_at < ?", t)
	}

	var txns []models.Transaction
	if err := query.Order("occurred_at DESC").Find(&txns).Error; err != nil {
		config.Logger.Errorw("获取收支列表失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取收支列表失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

// ExportCSV 导出收支记录为CSV
func (tc *TransactionController) ExportCSV(c *gin.Context) {
	uid := c.GetString("uid")

	var txns []models.Transaction
	if err := config.DB.Where("user_id = ?", uid).
		Order("occurred_at ASC").Find(&txns).Error; err != nil {
		config.Logger.Errorw("导出收支记录失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出收支记录失败"})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=transactions_%s.csv",
		time.Now().Format("2006-01-02")))

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write([]string{"日期", "类型", "金额", "分类", "备注"})
	for _, txn := range txns {
		_ = writer.Write([]string{
			txn.OccurredAt.Format("2006-01-02"),
			typeLabel(txn.Type),
			fmt.Sprintf("%.2f", float64(txn.AmountCent)/100),
			txn.Category,
			txn.Note,
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		config.Logger.Errorw("CSV写入失败", "error", err, "uid", uid)
	}
}
