package models

import (
	"time"
)

// 收支类型
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction 收支记录模型
type Transaction struct {
	ID         string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	Type       string    `gorm:"type:varchar(10)" json:"type"` // income / expense
	AmountCent int64     `json:"amountCent"`                   // 金额，单位分，避免浮点误差
	Category   string    `gorm:"type:varchar(50)" json:"category"`
	Note       string    `gorm:"type:varchar(255)" json:"note"`
	OccurredAt time.Time `gorm:"index" json:"occurredAt"`
	UserID     string    `gorm:"type:varchar(50);index" json:"user_id"`
	CreatedAt  time.Time `json:"createdAt"`
}
