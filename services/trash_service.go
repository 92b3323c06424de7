package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"LifeOSGo/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EntityKind 参与回收站生命周期的实体类型注册项
// 新增类型只需在 entityKinds 中追加一条
type EntityKind struct {
	Type  string
	Label string
	Icon  string
	Model func() interface{}
}

var entityKinds = []EntityKind{
	{Type: "project", Label: "项目", Icon: "kanban", Model: func() interface{} { return &models.Project{} }},
	{Type: "goal", Label: "目标", Icon: "target", Model: func() interface{} { return &models.Goal{} }},
	{Type: "note", Label: "笔记", Icon: "note", Model: func() interface{} { return &models.Note{} }},
}

func kindFor(entityType string) (EntityKind, error) {
	for _, k := range entityKinds {
		if k.Type == entityType {
			return k, nil
		}
	}
	return EntityKind{}, ErrUnknownEntityType
}

// KindFailure 回收站扇出查询中单个类型的失败记录
type KindFailure struct {
	EntityType string `json:"entityType"`
	Error      string `json:"error"`
}

// ItemFailure 批量清空中单个条目的失败记录
type ItemFailure struct {
	EntityType string `json:"entityType"`
	ID         string `json:"id"`
	Error      string `json:"error"`
}

// TrashService 软删除生命周期管理器
// 项目/目标/笔记共享同一套 删除->回收站->恢复/清除 流程
type TrashService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewTrashService(db *gorm.DB, logger *zap.SugaredLogger) *TrashService {
	return &TrashService{db: db, logger: logger}
}

// SoftDelete 标记删除，记录保留在原表中
// 幂等：对已删除实体再次调用只会刷新 deleted_at
func (s *TrashService) SoftDelete(ctx context.Context, uid, entityType, id string) error {
	kind, err := kindFor(entityType)
	if err != nil {
		return err
	}

	now := time.Now()
	res := s.db.WithContext(ctx).Model(kind.Model()).
		Where("id = ? AND user_id = ?", id, uid).
		Updates(map[string]interface{}{
			"deleted":    true,
			"deleted_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Infow("实体移入回收站", "entityType", entityType, "id", id, "uid", uid)
	return nil
}

// Restore 从回收站恢复，清空 deleted_at
// 对未删除实体调用是无害的空操作；实体已被清除则返回 ErrNotFound
func (s *TrashService) Restore(ctx context.Context, uid, entityType, id string) error {
	kind, err := kindFor(entityType)
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(kind.Model()).
		Where("id = ? AND user_id = ?", id, uid).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}

	return s.db.WithContext(ctx).Model(kind.Model()).
		Where("id = ? AND user_id = ?", id, uid).
		Updates(map[string]interface{}{
			"deleted":    false,
			"deleted_at": nil,
		}).Error
}

// Purge 永久删除，不可恢复，调用方需要先获得用户确认
func (s *TrashService) Purge(ctx context.Context, uid, entityType, id string) error {
	kind, err := kindFor(entityType)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, uid).
		Delete(kind.Model())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Infow("实体已永久删除", "entityType", entityType, "id", id, "uid", uid)
	return nil
}

// PurgeAll 批量清空回收站
// 单条失败不会中断后续处理，失败条目汇总返回
func (s *TrashService) PurgeAll(ctx context.Context, uid string, items []models.TrashItemRef) (purged int, failures []ItemFailure) {
	for _, item := range items {
		if err := s.Purge(ctx, uid, item.EntityType, item.ID); err != nil {
			failures = append(failures, ItemFailure{
				EntityType: item.EntityType,
				ID:         item.ID,
				Error:      err.Error(),
			})
			continue
		}
		purged++
	}
	if len(failures) > 0 {
		s.logger.Warnw("清空回收站部分失败",
			"uid", uid,
			"purged", purged,
			"failed", len(failures),
		)
	}
	return purged, failures
}

// listTrash 扫描结果的公共列
type trashRow struct {
	ID        string
	Title     string
	DeletedAt *time.Time
}

// ListTrash 跨所有注册类型的扇出查询，按删除时间倒序合并
// 某一类型查询失败（如索引缺失）只记录失败项，不影响其余类型的列出
func (s *TrashService) ListTrash(ctx context.Context, uid string) ([]models.TrashItemResponse, []KindFailure) {
	var items []models.TrashItemResponse
	var failures []KindFailure

	for _, kind := range entityKinds {
		var rows []trashRow
		query := s.db.WithContext(ctx).Model(kind.Model()).
			Select("id, title, deleted_at").
			Where("user_id = ? AND deleted = ?", uid, true)
		if err := query.Scan(&rows).Error; err != nil {
			s.logger.Errorw("回收站查询失败", "entityType", kind.Type, "error", err, "uid", uid)
			failures = append(failures, KindFailure{EntityType: kind.Type, Error: err.Error()})
			continue
		}
		for _, row := range rows {
			items = append(items, models.TrashItemResponse{
				EntityType: kind.Type,
				TypeLabel:  kind.Label,
				Icon:       kind.Icon,
				ID:         row.ID,
				Title:      row.Title,
				DeletedAt:  row.DeletedAt,
			})
		}
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i].DeletedAt, items[j].DeletedAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})

	return items, failures
}

// EntityTypeLabel 实体类型的展示名
func EntityTypeLabel(entityType string) (string, error) {
	kind, err := kindFor(entityType)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownEntityType, entityType)
	}
	return kind.Label, nil
}
