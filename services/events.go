package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// LevelUpEvent 升级事件，由进度引擎发出，UI层订阅后播放庆祝动画
// 引擎本身不关心展示，只负责发布
type LevelUpEvent struct {
	UID      string `json:"uid"`
	NewLevel int    `json:"newLevel"`
}

// 订阅主题
const (
	TopicLedger   = "ledger"
	TopicActivity = "activity"
)

// Publisher 事件发布接口，测试时可替换为内存实现
type Publisher interface {
	PublishLevelUp(ctx context.Context, event LevelUpEvent) error
	PublishChange(ctx context.Context, uid, topic string) error
}

// RedisPublisher 基于Redis Pub/Sub的事件发布器
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// LevelUpChannel 升级事件频道名
func LevelUpChannel(uid string) string {
	return fmt.Sprintf("levelup:%s", uid)
}

// ChangeChannel 数据变更通知频道名
func ChangeChannel(uid, topic string) string {
	return fmt.Sprintf("changes:%s:%s", uid, topic)
}

func (p *RedisPublisher) PublishLevelUp(ctx context.Context, event LevelUpEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, LevelUpChannel(event.UID), payload).Err()
}

func (p *RedisPublisher) PublishChange(ctx context.Context, uid, topic string) error {
	return p.client.Publish(ctx, ChangeChannel(uid, topic), "1").Err()
}

// NopPublisher 空实现，Redis不可用时降级使用
type NopPublisher struct{}

func (NopPublisher) PublishLevelUp(ctx context.Context, event LevelUpEvent) error { return nil }
func (NopPublisher) PublishChange(ctx context.Context, uid, topic string) error   { return nil }
