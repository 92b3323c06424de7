package services

import (
	"context"
	"path/filepath"
	"testing"

	"LifeOSGo/config"
	"LifeOSGo/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateDB(db))
	return db
}

// recordingPublisher 收集发布的事件，替代Redis
type recordingPublisher struct {
	levelUps []LevelUpEvent
	changes  []string
}

func (p *recordingPublisher) PublishLevelUp(ctx context.Context, event LevelUpEvent) error {
	p.levelUps = append(p.levelUps, event)
	return nil
}

func (p *recordingPublisher) PublishChange(ctx context.Context, uid, topic string) error {
	p.changes = append(p.changes, uid+":"+topic)
	return nil
}

func newTestProgression(t *testing.T) (*ProgressionService, *recordingPublisher, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	pub := &recordingPublisher{}
	svc := NewProgressionService(db, zap.NewNop().Sugar(), pub)
	return svc, pub, db
}

func newTestTrash(t *testing.T) (*TrashService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	return NewTrashService(db, zap.NewNop().Sugar()), db
}

func seedLedger(t *testing.T, db *gorm.DB, uid string, xp int) {
	t.Helper()

	ledger := models.ProfileLedger{UserID: uid, XP: xp, Level: LevelForXP(xp)}
	require.NoError(t, db.Create(&ledger).Error)
}
