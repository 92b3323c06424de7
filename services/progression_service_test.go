package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"LifeOSGo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{1, 1},
		{99, 1},
		{100, 2},
		{199, 2},
		{200, 3},
		{250, 3},
		{999, 10},
		{1000, 11},
		{-5, 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.level, LevelForXP(c.xp), "xp=%d", c.xp)
	}
}

func TestXPIntoLevelAndRemaining(t *testing.T) {
	assert.Equal(t, 0, XPIntoLevel(0))
	assert.Equal(t, 100, XPRemaining(0))
	assert.Equal(t, 99, XPIntoLevel(99))
	assert.Equal(t, 1, XPRemaining(99))
	assert.Equal(t, 0, XPIntoLevel(100))
	assert.Equal(t, 100, XPRemaining(100))
	assert.Equal(t, 50, XPIntoLevel(250))
	assert.Equal(t, 50, XPRemaining(250))
	assert.Equal(t, 0, XPIntoLevel(-10))
}

func TestGrantCreatesLedgerLazily(t *testing.T) {
	svc, _, db := newTestProgression(t)
	ctx := context.Background()

	result, err := svc.Grant(ctx, "u1", XPTaskDone, ActionTaskDone, "完成任务「写周报」")
	require.NoError(t, err)
	assert.Equal(t, 10, result.XP)
	assert.Equal(t, 1, result.Level)
	assert.False(t, result.LeveledUp)

	var ledger models.ProfileLedger
	require.NoError(t, db.Where("user_id = ?", "u1").First(&ledger).Error)
	assert.Equal(t, 10, ledger.XP)
	assert.Equal(t, 1, ledger.Level)
}

func TestGrantAccumulates(t *testing.T) {
	svc, _, _ := newTestProgression(t)
	ctx := context.Background()

	amounts := []int{XPTaskDone, XPFocusSession, XPHabitCheckin, XPTransactionLog, XPTaskCapture}
	actions := []string{ActionTaskDone, ActionFocusDone, ActionHabitDone, ActionTransactionLog, ActionTaskCapture}

	total := 0
	for i, amount := range amounts {
		result, err := svc.Grant(ctx, "u1", amount, actions[i], "测试")
		require.NoError(t, err)
		total += amount
		assert.Equal(t, total, result.XP)
		assert.Equal(t, LevelForXP(total), result.Level)
	}
	assert.Equal(t, 44, total)
}

func TestGrantUndoSymmetry(t *testing.T) {
	svc, _, _ := newTestProgression(t)
	ctx := context.Background()

	before, err := svc.Grant(ctx, "u1", 50, ActionMemoryLog, "初始")
	require.NoError(t, err)

	_, err = svc.Grant(ctx, "u1", XPTaskDone, ActionTaskDone, "完成任务")
	require.NoError(t, err)
	after, err := svc.Grant(ctx, "u1", -XPTaskDone, ActionTaskUndo, "撤回完成")
	require.NoError(t, err)

	assert.Equal(t, before.XP, after.XP)
	assert.Equal(t, before.Level, after.Level)
}

func TestGrantLevelUpFiresOnce(t *testing.T) {
	svc, pub, db := newTestProgression(t)
	ctx := context.Background()

	seedLedger(t, db, "u1", 95)

	// 跨过一个100的门槛，升级事件恰好发一次
	result, err := svc.Grant(ctx, "u1", XPTaskDone, ActionTaskDone, "完成任务")
	require.NoError(t, err)
	assert.Equal(t, 105, result.XP)
	assert.Equal(t, 2, result.Level)
	assert.True(t, result.LeveledUp)
	require.Len(t, pub.levelUps, 1)
	assert.Equal(t, 2, pub.levelUps[0].NewLevel)
	assert.Equal(t, "u1", pub.levelUps[0].UID)

	// 撤销后降级，不触发升级事件
	result, err = svc.Grant(ctx, "u1", -XPTaskDone, ActionTaskUndo, "撤回完成")
	require.NoError(t, err)
	assert.Equal(t, 95, result.XP)
	assert.Equal(t, 1, result.Level)
	assert.False(t, result.LeveledUp)
	assert.Len(t, pub.levelUps, 1)
}

func TestGrantDoubleBoundaryJump(t *testing.T) {
	svc, pub, _ := newTestProgression(t)
	ctx := context.Background()

	// 一次跨过两个门槛：等级直接跳到正确终值，事件只发一次
	result, err := svc.Grant(ctx, "u1", 250, ActionMemoryLog, "导入历史数据")
	require.NoError(t, err)
	assert.Equal(t, 250, result.XP)
	assert.Equal(t, 3, result.Level)
	assert.True(t, result.LeveledUp)
	require.Len(t, pub.levelUps, 1)
	assert.Equal(t, 3, pub.levelUps[0].NewLevel)
}

func TestGrantNoLevelUpBelowThreshold(t *testing.T) {
	svc, pub, _ := newTestProgression(t)
	ctx := context.Background()

	_, err := svc.Grant(ctx, "u1", XPTransactionLog, ActionTransactionLog, "记账")
	require.NoError(t, err)
	assert.Empty(t, pub.levelUps)
}

func TestGrantClampsAtZero(t *testing.T) {
	svc, _, _ := newTestProgression(t)
	ctx := context.Background()

	_, err := svc.Grant(ctx, "u1", XPHabitCheckin, ActionHabitDone, "打卡")
	require.NoError(t, err)

	// 扣除量超过账本余额，向下取零而不是变成负数
	result, err := svc.Grant(ctx, "u1", -XPTaskDone, ActionTaskUndo, "撤回")
	require.NoError(t, err)
	assert.Equal(t, 0, result.XP)
	assert.Equal(t, 1, result.Level)
}

func TestGrantFirstGrantNegative(t *testing.T) {
	svc, _, db := newTestProgression(t)
	ctx := context.Background()

	result, err := svc.Grant(ctx, "u1", -XPTaskDone, ActionTaskUndo, "撤回")
	require.NoError(t, err)
	assert.Equal(t, 0, result.XP)
	assert.Equal(t, 1, result.Level)

	var ledger models.ProfileLedger
	require.NoError(t, db.Where("user_id = ?", "u1").First(&ledger).Error)
	assert.Equal(t, 0, ledger.XP)
}

func TestGrantValidation(t *testing.T) {
	svc, _, db := newTestProgression(t)
	ctx := context.Background()

	_, err := svc.Grant(ctx, "u1", 0, ActionTaskDone, "零增量")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Grant(ctx, "", XPTaskDone, ActionTaskDone, "缺少用户")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Grant(ctx, "u1", XPTaskDone, "NOT_A_TAG", "未知类型")
	assert.ErrorIs(t, err, ErrUnknownAction)

	// 校验失败时不产生任何写入
	var count int64
	require.NoError(t, db.Model(&models.ActivityLogEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGrantAppendsActivityEntry(t *testing.T) {
	svc, _, db := newTestProgression(t)
	ctx := context.Background()

	_, err := svc.Grant(ctx, "u1", XPTaskDone, ActionTaskDone, "完成任务「写周报」")
	require.NoError(t, err)

	var entries []models.ActivityLogEntry
	require.NoError(t, db.Where("user_id = ?", "u1").Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionTaskDone, entries[0].Type)
	assert.Equal(t, XPTaskDone, entries[0].XPGained)
	assert.Equal(t, "完成任务「写周报」 (+10 XP)", entries[0].Message)

	_, err = svc.Grant(ctx, "u1", -XPTaskDone, ActionTaskUndo, "任务「写周报」撤回完成")
	require.NoError(t, err)

	require.NoError(t, db.Where("user_id = ? AND type = ?", "u1", ActionTaskUndo).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, -XPTaskDone, entries[0].XPGained)
	assert.Contains(t, entries[0].Message, "(-10 XP)")
}

func TestGrantRollsBackOnLogFailure(t *testing.T) {
	svc, _, db := newTestProgression(t)
	ctx := context.Background()

	seedLedger(t, db, "u1", 50)

	// 日志表不可用时整个事务回滚，账本不变
	require.NoError(t, db.Migrator().DropTable(&models.ActivityLogEntry{}))

	_, err := svc.Grant(ctx, "u1", XPTaskDone, ActionTaskDone, "完成任务")
	require.Error(t, err)

	var ledger models.ProfileLedger
	require.NoError(t, db.Where("user_id = ?", "u1").First(&ledger).Error)
	assert.Equal(t, 50, ledger.XP)
	assert.Equal(t, 1, ledger.Level)
}

func TestApplyProjectStatusGrantsOnDone(t *testing.T) {
	svc, pub, db := newTestProgression(t)
	ctx := context.Background()

	project := models.Project{
		ID:     "p1",
		Title:  "搭建博客",
		Status: models.ProjectStatusTodo,
		UserID: "u1",
	}
	require.NoError(t, db.Create(&project).Error)

	result, err := svc.ApplyProjectStatus(ctx, "u1", "p1", models.ProjectStatusDone)
	require.NoError(t, err)
	assert.Equal(t, XPProjectDone, result.XPDelta)
	require.NotNil(t, result.Grant)
	assert.Equal(t, 100, result.Grant.XP)
	assert.Equal(t, 2, result.Grant.Level)
	assert.True(t, result.Grant.LeveledUp)
	assert.Len(t, pub.levelUps, 1)
}

func TestApplyProjectStatusIdempotent(t *testing.T) {
	svc, _, db := newTestProgression(t)
	ctx := context.Background()

	project := models.Project{
		ID:     "p1",
		Title:  "搭建博客",
		Status: models.ProjectStatusProgress,
		UserID: "u1",
	}
	require.NoError(t, db.Create(&project).Error)

	// progress -> done: +100
	result, err := svc.ApplyProjectStatus(ctx, "u1", "p1", models.ProjectStatusDone)
	require.NoError(t, err)
	assert.Equal(t, XPProjectDone, result.XPDelta)

	// done -> done: 重复拖拽不再入账
	result, err = svc.ApplyProjectStatus(ctx, "u1", "p1", models.ProjectStatusDone)
	require.NoError(t, err)
	assert.Zero(t, result.XPDelta)
	assert.Nil(t, result.Grant)

	// done -> todo: -100
	result, err = svc.ApplyProjectStatus(ctx, "u1", "p1", models.ProjectStatusTodo)
	require.NoError(t, err)
	assert.Equal(t, -XPProjectDone, result.XPDelta)

	// todo -> done: 再次完成重新入账
	result, err = svc.ApplyProjectStatus(ctx, "u1", "p1", models.ProjectStatusDone)
	require.NoError(t, err)
	assert.Equal(t, XPProjectDone, result.XPDelta)

	// 净效果 +100
	ledger, err := svc.Ledger(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 100, ledger.XP)
}

func TestApplyProjectStatusNoXPBetweenNonDone(t *testing.T) {
	svc, _, db := newTestProgression(t)
	ctx := context.Background()

	project := models.Project{
		ID:     "p1",
		Title:  "搭建博客",
		Status: models.ProjectStatusTodo,
		UserID: "u1",
	}
	require.NoError(t, db.Create(&project).Error)

	result, err := svc.ApplyProjectStatus(ctx, "u1", "p1", models.ProjectStatusProgress)
	require.NoError(t, err)
	assert.Zero(t, result.XPDelta)

	ledger, err := svc.Ledger(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, ledger.XP)
}

func TestApplyProjectStatusValidation(t *testing.T) {
	svc, _, _ := newTestProgression(t)
	ctx := context.Background()

	_, err := svc.ApplyProjectStatus(ctx, "u1", "p1", "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.ApplyProjectStatus(ctx, "u1", "missing", models.ProjectStatusDone)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLedgerDefaultsWhenAbsent(t *testing.T) {
	svc, _, _ := newTestProgression(t)
	ctx := context.Background()

	ledger, err := svc.Ledger(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, ledger.XP)
	assert.Equal(t, 1, ledger.Level)
}

func TestActivityLogOrderAndLimit(t *testing.T) {
	svc, _, db := newTestProgression(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		entry := models.ActivityLogEntry{
			ID:        string(rune('a' + i)),
			UserID:    "u1",
			Type:      ActionTaskDone,
			XPGained:  10,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&entry).Error)
	}

	entries, err := svc.ActivityLog(ctx, "u1", 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// 按时间倒序
	assert.True(t, entries[0].CreatedAt.After(entries[1].CreatedAt))
	assert.True(t, entries[1].CreatedAt.After(entries[2].CreatedAt))
}

func TestActivityLogLimitClamp(t *testing.T) {
	svc, _, db := newTestProgression(t)
	ctx := context.Background()

	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 205; i++ {
		entry := models.ActivityLogEntry{
			ID:        fmt.Sprintf("e%03d", i),
			UserID:    "u1",
			Type:      ActionTaskDone,
			XPGained:  10,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&entry).Error)
	}

	// 超出上限的请求压到上限，而不是退回默认值
	entries, err := svc.ActivityLog(ctx, "u1", 201)
	require.NoError(t, err)
	assert.Len(t, entries, 200)

	// 上限以内的请求原样生效
	entries, err = svc.ActivityLog(ctx, "u1", 150)
	require.NoError(t, err)
	assert.Len(t, entries, 150)

	// 非法值退回默认值50
	entries, err = svc.ActivityLog(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 50)
}

func TestResetAccount(t *testing.T) {
	svc, _, db := newTestProgression(t)
	ctx := context.Background()

	_, err := svc.Grant(ctx, "u1", 250, ActionMemoryLog, "导入")
	require.NoError(t, err)

	require.NoError(t, svc.ResetAccount(ctx, "u1"))

	ledger, err := svc.Ledger(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, ledger.XP)
	assert.Equal(t, 1, ledger.Level)

	var count int64
	require.NoError(t, db.Model(&models.ActivityLogEntry{}).Where("user_id = ?", "u1").Count(&count).Error)
	assert.Zero(t, count)
}
