// Package store 定义核心逻辑依赖的存储适配器契约及其实现。
// 所有读写都以 (id, user_id) 为作用域，未命中与无权访问不可区分。
package store

import (
	"time"

	"fintrack/models"
)

// DateRange 日期范围，按日历日闭区间解释：
// From 为当天 00:00:00（含），To 为当天整天（含），查询时转换为 < To+1天，
// 避免对带时间分量的时间戳使用字面 <= 导致漏掉当天晚些录入的记录。
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsZero 是否未设置任何边界
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// ToExclusive 返回排他上界（To + 1 天），未设置时为 nil
func (r DateRange) ToExclusive() *time.Time {
	if r.To == nil {
		return nil
	}
	t := r.To.Add(24 * time.Hour)
	return &t
}

// Contains 判断记账日期是否落在范围内
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if upper := r.ToExclusive(); upper != nil && !t.Before(*upper) {
		return false
	}
	return true
}

// CategorySum 按类别聚合结果
type CategorySum struct {
	CategoryID uint         `gorm:"column:category_id"`
	Total      models.Money `gorm:"column:total"`
}

// TransactionStore 交易与类别的存储契约
// 查找类未命中返回 (nil, nil)；条件更新/删除返回受影响行数，由调用方判定 NotFound。
type TransactionStore interface {
	FindCategory(id, userID uint) (*models.Category, error)
	FindCategoryByName(userID uint, name, categoryType string) (*models.Category, error)
	ListCategories(userID uint) ([]models.Category, error)
	ListCategoriesByIDs(userID uint, ids []uint) ([]models.Category, error)
	CreateCategory(cat *models.Category) error

	// FindTransactions 批量拉取用于应用侧聚合，不保证顺序
	FindTransactions(userID uint, r DateRange, direction string) ([]models.Transaction, error)
	// SumByDirection 按方向聚合总额与笔数
	SumByDirection(userID uint, direction string, r DateRange) (models.Money, int64, error)
	// SumByCategory 按类别聚合某一方向的总额
	SumByCategory(userID uint, direction string, r DateRange) ([]CategorySum, error)
	// FetchPage 按 (txn_date desc, created_at desc, id desc) 全序取一页，
	// after 为排他游标；游标指向的行被删除后仍可续读
	FetchPage(userID uint, limit int, after *Cursor) ([]models.Transaction, error)

	CreateTransaction(txn *models.Transaction) error
	FindTransaction(id, userID uint) (*models.Transaction, error)
	UpdateTransaction(id, userID uint, updates map[string]interface{}) (int64, error)
	DeleteTransaction(id, userID uint) (int64, error)
}

// UserStore 用户存储契约（认证协作方使用）
type UserStore interface {
	FindUserByID(id uint) (*models.User, error)
	FindUserByUsername(username string) (*models.User, error)
	CreateUser(user *models.User) error
}
