package models

import (
	"time"
)

// 类别/交易方向
const (
	DirectionIncome  = "INCOME"
	DirectionExpense = "EXPENSE"
)

// ValidDirection 校验方向取值
func ValidDirection(s string) bool {
	return s == DirectionIncome || s == DirectionExpense
}

// Category 收支类别，按用户隔离
// 唯一性约束：(user_id, name, type)
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:uniq_category_user_name_type"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex:uniq_category_user_name_type"`
	Type      string    `json:"type" gorm:"size:10;not null;uniqueIndex:uniq_category_user_name_type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName 设置表名
func (Category) TableName() string {
	return "categories"
}

// DefaultCategory 注册时种子类别
type DefaultCategory struct {
	Name string
	Type string
}

// DefaultCategories 新用户的默认类别集合
func DefaultCategories() []DefaultCategory {
	return []DefaultCategory{
		{Name: "Salary", Type: DirectionIncome},
		{Name: "Bonus", Type: DirectionIncome},
		{Name: "Food", Type: DirectionExpense},
		{Name: "Transport", Type: DirectionExpense},
		{Name: "Bills", Type: DirectionExpense},
		{Name: "Shopping", Type: DirectionExpense},
	}
}
