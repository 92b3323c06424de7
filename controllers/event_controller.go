package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"LifeOSGo/config"
	"LifeOSGo/services"

	"github.com/gin-gonic/gin"
)

// EventController 实时订阅端点
// 数据变更通过 Redis Pub/Sub 通知，客户端以 SSE 订阅，收到通知后重新拉取快照
type EventController struct {
	progression *services.ProgressionService
}

func NewEventController(progression *services.ProgressionService) *EventController {
	return &EventController{progression: progression}
}

// writeSSE 写一条SSE事件
func writeSSE(c *gin.Context, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}

// SubscribeLedger 订阅账本变化：先推一次当前快照，之后每次变更都推新快照
// 升级事件也走这条连接下发，前端据此播放庆祝动画
func (ec *EventController) SubscribeLedger(c *gin.Context) {
	uid := c.GetString("uid")
	ctx := c.Request.Context()

	// 初始快照在流式响应头写出之前读取，失败时还能返回正常的错误状态码
	ledger, err := ec.progression.Ledger(ctx, uid)
	if err != nil {
		config.Logger.Errorw("获取账本失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取账本失败"})
		return
	}

	setStreamHeaders(c)

	pubsub := config.RedisClient.Subscribe(ctx,
		services.ChangeChannel(uid, services.TopicLedger),
		services.LevelUpChannel(uid),
	)
	defer pubsub.Close()

	if err := writeSSE(c, "ledger", ledger); err != nil {
		return
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg.Channel == services.LevelUpChannel(uid) {
				var event services.LevelUpEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err == nil {
					if err := writeSSE(c, "levelup", event); err != nil {
						return
					}
				}
				continue
			}
			ledger, err := ec.progression.Ledger(ctx, uid)
			if err != nil {
				config.Logger.Errorw("获取账本失败", "error", err, "uid", uid)
				continue
			}
			if err := writeSSE(c, "ledger", ledger); err != nil {
				return
			}
		}
	}
}

// SubscribeActivity 订阅活动日志变化
func (ec *EventController) SubscribeActivity(c *gin.Context) {
	uid := c.GetString("uid")
	ctx := c.Request.Context()

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	// 初始快照先于流式响应头读取，失败时返回正常的错误状态码
	entries, err := ec.progression.ActivityLog(ctx, uid, limit)
	if err != nil {
		config.Logger.Errorw("获取活动日志失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取活动日志失败"})
		return
	}

	setStreamHeaders(c)

	pubsub := config.RedisClient.Subscribe(ctx,
		services.ChangeChannel(uid, services.TopicActivity))
	defer pubsub.Close()

	push := func() error {
		entries, err := ec.progression.ActivityLog(ctx, uid, limit)
		if err != nil {
			config.Logger.Errorw("获取活动日志失败", "error", err, "uid", uid)
			return nil
		}
		return writeSSE(c, "activity", entries)
	}

	if err := writeSSE(c, "activity", entries); err != nil {
		return
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			if err := push(); err != nil {
				return
			}
		}
	}
}
