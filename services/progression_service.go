package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"LifeOSGo/models"
	"LifeOSGo/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 各类行为的固定经验值
const (
	XPTaskDone       = 10  // 完成任务
	XPFocusSession   = 25  // 完成专注计时
	XPProjectDone    = 100 // 完成项目
	XPHabitCheckin   = 5   // 习惯打卡
	XPTransactionLog = 2   // 记一笔账
	XPTaskCapture    = 2   // 快速记录任务
	XPWellnessGoal   = 5   // 健康目标
)

// XPPerLevel 每级所需经验值，固定100，无加速曲线
const XPPerLevel = 100

// 活动类型标签
const (
	ActionTaskDone       = "TASK_DONE"
	ActionTaskUndo       = "TASK_UNDO"
	ActionTaskCapture    = "TASK_CAPTURE"
	ActionFocusDone      = "FOCUS_DONE"
	ActionProjectDone    = "PROJECT_DONE"
	ActionProjectUndo    = "PROJECT_UNDO"
	ActionHabitDone      = "HABIT_DONE"
	ActionHabitUndo      = "HABIT_UNDO"
	ActionTransactionLog = "TRANSACTION_LOG"
	ActionWellnessDone   = "WELLNESS_DONE"
	ActionMemoryLog      = "MEMORY_LOG"
)

var validActions = map[string]bool{
	ActionTaskDone:       true,
	ActionTaskUndo:       true,
	ActionTaskCapture:    true,
	ActionFocusDone:      true,
	ActionProjectDone:    true,
	ActionProjectUndo:    true,
	ActionHabitDone:      true,
	ActionHabitUndo:      true,
	ActionTransactionLog: true,
	ActionWellnessDone:   true,
	ActionMemoryLog:      true,
}

// LevelForXP 由经验值推导等级：level = xp/100 + 1
// 所有展示等级的地方必须使用同一个公式
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// XPIntoLevel 当前等级内已获得的经验值，范围 [0, 100]
func XPIntoLevel(xp int) int {
	if xp < 0 {
		return 0
	}
	return xp % XPPerLevel
}

// XPRemaining 距离下一级还差多少经验值，范围 [0, 100]
func XPRemaining(xp int) int {
	return XPPerLevel - XPIntoLevel(xp)
}

// GrantResult 记录一次经验变动后的账本状态
type GrantResult struct {
	XP        int  `json:"xp"`
	Level     int  `json:"level"`
	LeveledUp bool `json:"leveledUp"`
}

// ProgressionService 进度引擎，账本的唯一写入方
// 所有奖励行为（完成任务、专注、项目、习惯等）都经由 Grant 入账
type ProgressionService struct {
	db        *gorm.DB
	logger    *zap.SugaredLogger
	publisher Publisher
}

func NewProgressionService(db *gorm.DB, logger *zap.SugaredLogger, publisher Publisher) *ProgressionService {
	return &ProgressionService{
		db:        db,
		logger:    logger,
		publisher: publisher,
	}
}

// Grant 对用户账本执行一次带符号的经验变动，并追加一条活动日志
// amount 为正表示奖励，为负表示撤销；账本更新与日志写入在同一事务内提交
func (s *ProgressionService) Grant(ctx context.Context, uid string, amount int, actionType, message string) (*GrantResult, error) {
	if uid == "" || amount == 0 {
		return nil, ErrInvalidAmount
	}
	if !validActions[actionType] {
		return nil, ErrUnknownAction
	}

	now := time.Now()
	var result GrantResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 原子递增，避免并发入账丢失增量
		res := tx.Model(&models.ProfileLedger{}).
			Where("user_id = ?", uid).
			Updates(map[string]interface{}{
				"xp":           gorm.Expr("xp + ?", amount),
				"last_updated": now,
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// 首次获得经验时惰性创建账本
			initial := amount
			if initial < 0 {
				initial = 0
			}
			ledger := models.ProfileLedger{
				UserID:      uid,
				XP:          initial,
				Level:       1,
				LastUpdated: now,
			}
			if err := tx.Create(&ledger).Error; err != nil {
				return err
			}
		}

		var ledger models.ProfileLedger
		if err := tx.Where("user_id = ?", uid).First(&ledger).Error; err != nil {
			return err
		}

		// 撤销操作不允许把账本扣成负数，向下取零
		if ledger.XP < 0 {
			s.logger.Warnw("经验值被扣为负数，已归零",
				"uid", uid,
				"xp", ledger.XP,
				"amount", amount,
			)
			if err := tx.Model(&models.ProfileLedger{}).
				Where("user_id = ?", uid).
				Update("xp", 0).Error; err != nil {
				return err
			}
			ledger.XP = 0
		}

		oldLevel := ledger.Level
		newLevel := LevelForXP(ledger.XP)
		if newLevel != oldLevel {
			if err := tx.Model(&models.ProfileLedger{}).
				Where("user_id = ?", uid).
				Update("level", newLevel).Error; err != nil {
				return err
			}
		}

		entry := models.ActivityLogEntry{
			ID:        utils.GenerateID(),
			UserID:    uid,
			Type:      actionType,
			Message:   fmt.Sprintf("%s (%+d XP)", message, amount),
			XPGained:  amount,
			CreatedAt: now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		result = GrantResult{
			XP:        ledger.XP,
			Level:     newLevel,
			LeveledUp: newLevel > oldLevel,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 事务提交后发布事件，发布失败只告警不回滚
	if result.LeveledUp {
		if err := s.publisher.PublishLevelUp(ctx, LevelUpEvent{UID: uid, NewLevel: result.Level}); err != nil {
			s.logger.Warnw("升级事件发布失败", "error", err, "uid", uid, "level", result.Level)
		}
	}
	if err := s.publisher.PublishChange(ctx, uid, TopicLedger); err != nil {
		s.logger.Warnw("账本变更通知发布失败", "error", err, "uid", uid)
	}
	if err := s.publisher.PublishChange(ctx, uid, TopicActivity); err != nil {
		s.logger.Warnw("活动日志变更通知发布失败", "error", err, "uid", uid)
	}

	return &result, nil
}

// StatusResult 看板状态变更结果
type StatusResult struct {
	OldStatus string       `json:"oldStatus"`
	NewStatus string       `json:"newStatus"`
	XPDelta   int          `json:"xpDelta"`
	Grant     *GrantResult `json:"grant,omitempty"`
}

// ApplyProjectStatus 项目看板状态机
// 非done -> done 奖励 +100；done -> 非done 撤销 -100；其余转换不涉及经验
// 以新旧状态比较为准，done -> done 的重复拖拽不会重复入账
func (s *ProgressionService) ApplyProjectStatus(ctx context.Context, uid, projectID, newStatus string) (*StatusResult, error) {
	if !models.IsValidProjectStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	var project models.Project
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND deleted = ?", projectID, uid, false).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	oldStatus := project.Status
	result := &StatusResult{OldStatus: oldStatus, NewStatus: newStatus}
	if oldStatus == newStatus {
		return result, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ? AND user_id = ?", projectID, uid).
		Updates(map[string]interface{}{
			"status":        newStatus,
			"last_modified": time.Now(),
		}).Error; err != nil {
		return nil, err
	}

	switch {
	case oldStatus != models.ProjectStatusDone && newStatus == models.ProjectStatusDone:
		result.XPDelta = XPProjectDone
		grant, err := s.Grant(ctx, uid, XPProjectDone, ActionProjectDone,
			fmt.Sprintf("完成项目「%s」", project.Title))
		if err != nil {
			return nil, err
		}
		result.Grant = grant
	case oldStatus == models.ProjectStatusDone && newStatus != models.ProjectStatusDone:
		result.XPDelta = -XPProjectDone
		grant, err := s.Grant(ctx, uid, -XPProjectDone, ActionProjectUndo,
			fmt.Sprintf("项目「%s」撤回完成", project.Title))
		if err != nil {
			return nil, err
		}
		result.Grant = grant
	}

	return result, nil
}

// Ledger 读取账本，不存在时返回初始状态（不落库）
func (s *ProgressionService) Ledger(ctx context.Context, uid string) (*models.ProfileLedger, error) {
	var ledger models.ProfileLedger
	err := s.db.WithContext(ctx).Where("user_id = ?", uid).First(&ledger).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.ProfileLedger{UserID: uid, XP: 0, Level: 1}, nil
		}
		return nil, err
	}
	return &ledger, nil
}

// ActivityLog 按时间倒序返回最近的活动日志
func (s *ProgressionService) ActivityLog(ctx context.Context, uid string, limit int) ([]models.ActivityLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	var entries []models.ActivityLogEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ?", uid).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ResetAccount 账号重置：账本归零回到1级，活动日志清空
func (s *ProgressionService) ResetAccount(ctx context.Context, uid string) error {
	if uid == "" {
		return ErrInvalidAmount
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ProfileLedger{}).
			Where("user_id = ?", uid).
			Updates(map[string]interface{}{
				"xp":           0,
				"level":        1,
				"last_updated": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		return tx.Where("user_id = ?", uid).Delete(&models.ActivityLogEntry{}).Error
	})
}
