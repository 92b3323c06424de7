package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"LifeOSGo/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// AIService 对外只暴露"提示词进、文本出"的黑盒生成能力
// 任务拆解、周报、笔记问答都是在这层拼提示词
type AIService struct {
	client *DeepseekClient
	wg     sync.WaitGroup
}

func NewAIService(client *DeepseekClient) *AIService {
	return &AIService{
		client: client,
	}
}

// Wait 等待所有未完成的流式生成结束，优雅关闭时调用
func (s *AIService) Wait() {
	s.wg.Wait()
}

// GenerateText 一次性生成，提示词进、完整文本出
func (s *AIService) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userPrompt)},
		},
	}

	resp, err := s.client.DsChat.GenerateContent(ctx, messages, llms.WithTemperature(0.7))
	if err != nil {
		return "", fmt.Errorf("生成内容失败: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("生成内容为空")
	}
	return resp.Choices[0].Content, nil
}

// GenerateTextStream 流式生成，逐块写入返回的channel
func (s *AIService) GenerateTextStream(ctx context.Context, systemPrompt, userPrompt string) (<-chan string, error) {
	outputChan := make(chan string)

	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userPrompt)},
		},
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(outputChan)

		options := []llms.CallOption{
			llms.WithTemperature(0.7),
			llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				// 客户端断开后没人再收channel，必须跟随ctx退出，否则goroutine泄漏
				select {
				case outputChan <- string(chunk):
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}),
		}

		if _, err := s.client.DsChat.GenerateContent(ctx, messages, options...); err != nil {
			select {
			case outputChan <- fmt.Sprintf("生成内容时出错: %v", err):
			case <-ctx.Done():
			}
		}
	}()

	return outputChan, nil
}

const breakdownPrompt = `你是一位任务规划助手。用户会给出一个任务的标题和备注，你需要：
1.把任务拆解为3到8个可执行的子任务，按先后顺序排列
2.每个子任务标题控制在15字内
3.禁用markdown格式

最后，用[[JSON_START]]和[[JSON_END]]包裹结构化结果。

字段说明：
- subtasks: 子任务数组
- title: 子任务标题（15字内）
- order: 序号，从1开始`

// BreakdownTask 任务拆解，流式返回
func (s *AIService) BreakdownTask(ctx context.Context, title, notes string) (<-chan string, error) {
	userPrompt := fmt.Sprintf("任务：%s", title)
	if notes != "" {
		userPrompt += fmt.Sprintf("\n备注：%s", notes)
	}
	return s.GenerateTextStream(ctx, breakdownPrompt, userPrompt)
}

const weeklyReviewPrompt = `你是一位个人成长教练。下面是用户过去一周的活动日志（含经验值变动），请生成一份周回顾：
1.先总结本周完成了什么，数据说话
2.指出做得好的地方和可以改进的地方
3.给出下周的一条具体建议
4.语气温和，禁用markdown格式，400字以内`

// WeeklyReview 根据活动日志生成周回顾
func (s *AIService) WeeklyReview(ctx context.Context, entries []models.ActivityLogEntry) (string, error) {
	if len(entries) == 0 {
		return "本周还没有任何活动记录，先去完成一个任务吧。", nil
	}

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s %s %s\n",
			e.CreatedAt.Format("01-02 15:04"), e.Type, e.Message))
	}
	return s.GenerateText(ctx, weeklyReviewPrompt, sb.String())
}

const notesChatPrompt = `你是用户的"第二大脑"助手。下面提供了用户的笔记内容作为上下文，请只根据这些笔记回答问题：
1.答案必须能从笔记中找到依据，找不到就直说不知道
2.引用笔记时给出笔记标题
3.禁用markdown格式`

// NotesChat 基于笔记内容的问答，笔记全文作为上下文塞入提示词
func (s *AIService) NotesChat(ctx context.Context, question string, notes []models.Note) (<-chan string, error) {
	var sb strings.Builder
	for _, n := range notes {
		content := n.Content
		// 单条笔记截断，避免提示词超长
		if len(content) > 2000 {
			content = content[:2000]
		}
		sb.WriteString(fmt.Sprintf("《%s》（%s）\n%s\n---\n",
			n.Title, n.LastModified.Format(time.DateOnly), content))
	}
	userPrompt := fmt.Sprintf("笔记内容：\n%s\n问题：%s", sb.String(), question)
	return s.GenerateTextStream(ctx, notesChatPrompt, userPrompt)
}
