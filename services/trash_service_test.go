package services

import (
	"context"
	"testing"
	"time"

	"LifeOSGo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEntities(t *testing.T, svc *TrashService) {
	t.Helper()

	require.NoError(t, svc.db.Create(&models.Project{
		ID: "p1", Title: "搭建博客", Status: models.ProjectStatusProgress, UserID: "u1",
	}).Error)
	require.NoError(t, svc.db.Create(&models.Goal{
		ID: "g1", Title: "读完12本书", UserID: "u1",
	}).Error)
	require.NoError(t, svc.db.Create(&models.Note{
		ID: "n1", Title: "读书笔记", Content: "...", UserID: "u1",
	}).Error)
}

func TestSoftDeletePartition(t *testing.T) {
	svc, db := newTestTrash(t)
	ctx := context.Background()
	seedEntities(t, svc)

	require.NoError(t, svc.SoftDelete(ctx, "u1", "project", "p1"))

	// 正常列表不再包含
	var normal []models.Project
	require.NoError(t, db.Where("user_id = ? AND deleted = ?", "u1", false).Find(&normal).Error)
	assert.Empty(t, normal)

	// 回收站恰好包含这一条
	items, failures := svc.ListTrash(ctx, "u1")
	assert.Empty(t, failures)
	require.Len(t, items, 1)
	assert.Equal(t, "project", items[0].EntityType)
	assert.Equal(t, "项目", items[0].TypeLabel)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, "搭建博客", items[0].Title)
	require.NotNil(t, items[0].DeletedAt)
}

func TestSoftDeleteIdempotent(t *testing.T) {
	svc, _ := newTestTrash(t)
	ctx := context.Background()
	seedEntities(t, svc)

	require.NoError(t, svc.SoftDelete(ctx, "u1", "note", "n1"))
	// 重复删除不报错，实体保持已删除状态
	require.NoError(t, svc.SoftDelete(ctx, "u1", "note", "n1"))

	items, _ := svc.ListTrash(ctx, "u1")
	require.Len(t, items, 1)
}

func TestSoftDeleteUnknownType(t *testing.T) {
	svc, _ := newTestTrash(t)
	ctx := context.Background()

	err := svc.SoftDelete(ctx, "u1", "wish", "w1")
	assert.ErrorIs(t, err, ErrUnknownEntityType)

	err = svc.SoftDelete(ctx, "u1", "project", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestoreRoundTrip(t *testing.T) {
	svc, db := newTestTrash(t)
	ctx := context.Background()
	seedEntities(t, svc)

	require.NoError(t, svc.SoftDelete(ctx, "u1", "project", "p1"))
	require.NoError(t, svc.Restore(ctx, "u1", "project", "p1"))

	var project models.Project
	require.NoError(t, db.Where("id = ?", "p1").First(&project).Error)
	assert.False(t, project.Deleted)
	assert.Nil(t, project.DeletedAt)
	// 软删除往返不触碰业务字段
	assert.Equal(t, models.ProjectStatusProgress, project.Status)

	// 重新出现在正常列表，回收站为空
	items, _ := svc.ListTrash(ctx, "u1")
	assert.Empty(t, items)
}

func TestRestoreOnNotDeletedIsNoop(t *testing.T) {
	svc, db := newTestTrash(t)
	ctx := context.Background()
	seedEntities(t, svc)

	require.NoError(t, svc.Restore(ctx, "u1", "goal", "g1"))

	var goal models.Goal
	require.NoError(t, db.Where("id = ?", "g1").First(&goal).Error)
	assert.False(t, goal.Deleted)
}

func TestPurgeIrreversible(t *testing.T) {
	svc, db := newTestTrash(t)
	ctx := context.Background()
	seedEntities(t, svc)

	require.NoError(t, svc.SoftDelete(ctx, "u1", "note", "n1"))
	require.NoError(t, svc.Purge(ctx, "u1", "note", "n1"))

	// 两个视图都不再出现
	var count int64
	require.NoError(t, db.Model(&models.Note{}).Where("id = ?", "n1").Count(&count).Error)
	assert.Zero(t, count)

	items, _ := svc.ListTrash(ctx, "u1")
	assert.Empty(t, items)

	// 清除后恢复失败，数据不会复活
	err := svc.Restore(ctx, "u1", "note", "n1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPurgeAllPartialFailure(t *testing.T) {
	svc, db := newTestTrash(t)
	ctx := context.Background()
	seedEntities(t, svc)

	require.NoError(t, svc.SoftDelete(ctx, "u1", "project", "p1"))
	require.NoError(t, svc.SoftDelete(ctx, "u1", "goal", "g1"))

	items := []models.TrashItemRef{
		{EntityType: "project", ID: "p1"},
		{EntityType: "wish", ID: "w1"},     // 未知类型
		{EntityType: "note", ID: "ghost"},  // 不存在
		{EntityType: "goal", ID: "g1"},
	}

	purged, failures := svc.PurgeAll(ctx, "u1", items)
	assert.Equal(t, 2, purged)
	require.Len(t, failures, 2)
	assert.Equal(t, "wish", failures[0].EntityType)
	assert.Equal(t, "ghost", failures[1].ID)

	// 单条失败不影响其余条目被清除
	var count int64
	require.NoError(t, db.Model(&models.Project{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Goal{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListTrashMergesAndSorts(t *testing.T) {
	svc, db := newTestTrash(t)
	ctx := context.Background()
	seedEntities(t, svc)

	require.NoError(t, svc.SoftDelete(ctx, "u1", "project", "p1"))
	require.NoError(t, svc.SoftDelete(ctx, "u1", "goal", "g1"))
	require.NoError(t, svc.SoftDelete(ctx, "u1", "note", "n1"))

	// 设置确定的删除时间，保证排序可断言
	base := time.Now()
	require.NoError(t, db.Model(&models.Project{}).Where("id = ?", "p1").
		Update("deleted_at", base.Add(-2*time.Hour)).Error)
	require.NoError(t, db.Model(&models.Goal{}).Where("id = ?", "g1").
		Update("deleted_at", base.Add(-1*time.Hour)).Error)
	require.NoError(t, db.Model(&models.Note{}).Where("id = ?", "n1").
		Update("deleted_at", base).Error)

	items, failures := svc.ListTrash(ctx, "u1")
	assert.Empty(t, failures)
	require.Len(t, items, 3)
	// 删除时间倒序：笔记、目标、项目
	assert.Equal(t, "note", items[0].EntityType)
	assert.Equal(t, "goal", items[1].EntityType)
	assert.Equal(t, "project", items[2].EntityType)
	assert.Equal(t, "笔记", items[0].TypeLabel)
}

func TestListTrashDegradesPerKind(t *testing.T) {
	svc, db := newTestTrash(t)
	ctx := context.Background()
	seedEntities(t, svc)

	require.NoError(t, svc.SoftDelete(ctx, "u1", "project", "p1"))
	require.NoError(t, svc.SoftDelete(ctx, "u1", "note", "n1"))

	// 某一类型的表不可用时，其余类型仍然正常列出
	require.NoError(t, db.Migrator().DropTable(&models.Note{}))

	items, failures := svc.ListTrash(ctx, "u1")
	require.Len(t, failures, 1)
	assert.Equal(t, "note", failures[0].EntityType)
	require.Len(t, items, 1)
	assert.Equal(t, "project", items[0].EntityType)
}

func TestListTrashScopedByUser(t *testing.T) {
	svc, db := newTestTrash(t)
	ctx := context.Background()
	seedEntities(t, svc)

	require.NoError(t, db.Create(&models.Project{
		ID: "p2", Title: "别人的项目", Status: models.ProjectStatusTodo, UserID: "u2",
	}).Error)
	require.NoError(t, svc.SoftDelete(ctx, "u1", "project", "p1"))
	require.NoError(t, svc.SoftDelete(ctx, "u2", "project", "p2"))

	items, _ := svc.ListTrash(ctx, "u1")
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
}

func TestSoftDeleteWrongUser(t *testing.T) {
	svc, _ := newTestTrash(t)
	ctx := context.Background()
	seedEntities(t, svc)

	// 其他用户无法删除不属于自己的实体
	err := svc.SoftDelete(ctx, "u2", "project", "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}
