package services

import "errors"

// 服务层哨兵错误，controller 据此映射HTTP状态码
var (
	// ErrInvalidAmount 经验值增量非法（为零或用户ID缺失）
	ErrInvalidAmount = errors.New("无效的经验值增量")
	// ErrUnknownAction 未知的活动类型
	ErrUnknownAction = errors.New("未知的活动类型")
	// ErrUnknownEntityType 未注册的实体类型
	ErrUnknownEntityType = errors.New("未知的实体类型")
	// ErrNotFound 目标记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrInvalidStatus 非法的项目状态
	ErrInvalidStatus = errors.New("无效的项目状态")
)
