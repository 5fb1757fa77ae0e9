package store

import (
	"errors"

	"fintrack/models"

	"gorm.io/gorm"
)

// GormStore 基于 gorm 的存储实现
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 gorm 存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ TransactionStore = (*GormStore)(nil)
var _ UserStore = (*GormStore)(nil)

// applyDateRange 统一的日期范围过滤：>= from 且 < to+1天
func applyDateRange(q *gorm.DB, r DateRange) *gorm.DB {
	if r.From != nil {
		q = q.Where("txn_date >= ?", *r.From)
	}
	if upper := r.ToExclusive(); upper != nil {
		q = q.Where("txn_date < ?", *upper)
	}
	return q
}

// FindCategory 按 (id, user_id) 查找类别
func (s *GormStore) FindCategory(id, userID uint) (*models.Category, error) {
	var cat models.Category
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// FindCategoryByName 按 (user_id, name, type) 查找类别
func (s *GormStore) FindCategoryByName(userID uint, name, categoryType string) (*models.Category, error) {
	var cat models.Category
	err := s.db.Where("user_id = ? AND name = ? AND type = ?", userID, name, categoryType).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// ListCategories 用户的全部类别，按 (type, name) 排序
func (s *GormStore) ListCategories(userID uint) ([]models.Category, error) {
	var list []models.Category
	err := s.db.Where("user_id = ?", userID).
		Order("type ASC, name ASC").
		Find(&list).Error
	return list, err
}

// ListCategoriesByIDs 按 id 集合取类别标签，仍限定所有者
func (s *GormStore) ListCategoriesByIDs(userID uint, ids []uint) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []models.Category
	err := s.db.Where("user_id = ? AND id IN ?", userID, ids).Find(&list).Error
	return list, err
}

// CreateCategory 新建类别
func (s *GormStore) CreateCategory(cat *models.Category) error {
	return s.db.Create(cat).Error
}

// FindTransactions 批量拉取交易用于应用侧聚合
func (s *GormStore) FindTransactions(userID uint, r DateRange, direction string) ([]models.Transaction, error) {
	q := s.db.Where("user_id = ?", userID)
	q = applyDateRange(q, r)
	if direction != "" {
		q = q.Where("direction = ?", direction)
	}
	var txns []models.Transaction
	err := q.Find(&txns).Error
	return txns, err
}

// SumByDirection 某一方向的总额与笔数
func (s *GormStore) SumByDirection(userID uint, direction string, r DateRange) (models.Money, int64, error) {
	q := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND direction = ?", userID, direction)
	q = applyDateRange(q, r)

	var row struct {
		Total models.Money `gorm:"column:total"`
		Count int64        `gorm:"column:count"`
	}
	err := q.Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").Scan(&row).Error
	if err != nil {
		return models.ZeroMoney(), 0, err
	}
	return row.Total, row.Count, nil
}

// SumByCategory 某一方向按类别聚合总额
func (s *GormStore) SumByCategory(userID uint, direction string, r DateRange) ([]CategorySum, error) {
	q := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND direction = ?", userID, direction)
	q = applyDateRange(q, r)

	var rows []CategorySum
	err := q.Select("category_id, SUM(amount) AS total").
		Group("category_id").
		Scan(&rows).Error
	return rows, err
}

// FetchPage 按全序取一页，after 为排他游标。
// 游标比较使用复合排序键而非行偏移，游标行被删除后依然能正确续读。
func (s *GormStore) FetchPage(userID uint, limit int, after *Cursor) ([]models.Transaction, error) {
	q := s.db.Where("user_id = ?", userID)
	if after != nil {
		q = q.Where(
			"(txn_date < ?) OR (txn_date = ? AND created_at < ?) OR (txn_date = ? AND created_at = ? AND id < ?)",
			after.TxnDate,
			after.TxnDate, after.CreatedAt,
			after.TxnDate, after.CreatedAt, after.ID,
		)
	}
	var txns []models.Transaction
	err := q.Preload("Category").
		Order("txn_date DESC, created_at DESC, id DESC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

// CreateTransaction 新建交易
func (s *GormStore) CreateTransaction(txn *models.Transaction) error {
	return s.db.Create(txn).Error
}

// FindTransaction 按 (id, user_id) 查找交易，附带类别标签
func (s *GormStore) FindTransaction(id, userID uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// UpdateTransaction 按所有权条件更新，返回受影响行数
func (s *GormStore) UpdateTransaction(id, userID uint, updates map[string]interface{}) (int64, error) {
	res := s.db.Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// DeleteTransaction 按所有权条件删除（物理删除），返回受影响行数
func (s *GormStore) DeleteTransaction(id, userID uint) (int64, error) {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Transaction{})
	return res.RowsAffected, res.Error
}

// FindUserByID 按 id 查找用户
func (s *GormStore) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByUsername 按用户名或邮箱查找用户
func (s *GormStore) FindUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ? OR email = ?", username, username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser 新建用户
func (s *GormStore) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}
