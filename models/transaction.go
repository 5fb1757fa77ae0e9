package models

import (
	"time"
)

// Transaction 交易记录
// direction 独立于类别的 type 存储，聚合时以 direction 为准；
// txn_date 为记账日期（UTC 零点），与 created_at（插入时间）区分。
type Transaction struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"userId" gorm:"index;not null"`
	CategoryID  uint      `json:"categoryId" gorm:"index;not null"`
	Direction   string    `json:"direction" gorm:"size:10;not null;index"`
	Amount      Money     `json:"amount" gorm:"type:decimal(12,2);not null"`
	TxnDate     time.Time `json:"txnDate" gorm:"type:date;not null;index"`
	Description string    `json:"description" gorm:"size:255"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// MonthKey 返回记账日期所在的 UTC 日历月，格式 YYYY-MM
func (t *Transaction) MonthKey() string {
	return t.TxnDate.UTC().Format("2006-01")
}
