package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"fintrack/models"
)

// MemoryStore 内存实现，供服务层测试替换真实存储使用。
// 行为与 GormStore 保持一致：作用域、排序、受影响行数语义完全相同。
type MemoryStore struct {
	mu sync.RWMutex

	users        map[uint]*models.User
	categories   map[uint]*models.Category
	transactions map[uint]*models.Transaction

	nextUserID     uint
	nextCategoryID uint
	nextTxnID      uint
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:          make(map[uint]*models.User),
		categories:     make(map[uint]*models.Category),
		transactions:   make(map[uint]*models.Transaction),
		nextUserID:     1,
		nextCategoryID: 1,
		nextTxnID:      1,
	}
}

var _ TransactionStore = (*MemoryStore)(nil)
var _ UserStore = (*MemoryStore)(nil)

func copyCategory(c *models.Category) *models.Category {
	cp := *c
	return &cp
}

func copyTransaction(t *models.Transaction) *models.Transaction {
	cp := *t
	cp.Category = nil
	return &cp
}

// FindCategory 按 (id, user_id) 查找类别
func (s *MemoryStore) FindCategory(id, userID uint) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cat, ok := s.categories[id]
	if !ok || cat.UserID != userID {
		return nil, nil
	}
	return copyCategory(cat), nil
}

// FindCategoryByName 按 (user_id, name, type) 查找类别
func (s *MemoryStore) FindCategoryByName(userID uint, name, categoryType string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, cat := range s.categories {
		if cat.UserID == userID && cat.Name == name && cat.Type == categoryType {
			return copyCategory(cat), nil
		}
	}
	return nil, nil
}

// ListCategories 用户全部类别，按 (type, name) 排序
func (s *MemoryStore) ListCategories(userID uint) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []models.Category
	for _, cat := range s.categories {
		if cat.UserID == userID {
			list = append(list, *copyCategory(cat))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Type != list[j].Type {
			return list[i].Type < list[j].Type
		}
		return strings.Compare(list[i].Name, list[j].Name) < 0
	})
	return list, nil
}

// ListCategoriesByIDs 按 id 集合取类别，限定所有者
func (s *MemoryStore) ListCategoriesByIDs(userID uint, ids []uint) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []models.Category
	for _, id := range ids {
		if cat, ok := s.categories[id]; ok && cat.UserID == userID {
			list = append(list, *copyCategory(cat))
		}
	}
	return list, nil
}

// CreateCategory 新建类别
func (s *MemoryStore) CreateCategory(cat *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat.ID = s.nextCategoryID
	s.nextCategoryID++
	now := time.Now().UTC()
	cat.CreatedAt = now
	cat.UpdatedAt = now
	s.categories[cat.ID] = copyCategory(cat)
	return nil
}

// FindTransactions 批量拉取交易
func (s *MemoryStore) FindTransactions(userID uint, r DateRange, direction string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []models.Transaction
	for _, txn := range s.transactions {
		if txn.UserID != userID {
			continue
		}
		if direction != "" && txn.Direction != direction {
			continue
		}
		if !r.Contains(txn.TxnDate) {
			continue
		}
		list = append(list, *copyTransaction(txn))
	}
	return list, nil
}

// SumByDirection 按方向聚合总额与笔数
func (s *MemoryStore) SumByDirection(userID uint, direction string, r DateRange) (models.Money, int64, error) {
	txns, _ := s.FindTransactions(userID, r, direction)
	total := models.ZeroMoney()
	for i := range txns {
		total = total.Add(txns[i].Amount)
	}
	return total, int64(len(txns)), nil
}

// SumByCategory 按类别聚合总额
func (s *MemoryStore) SumByCategory(userID uint, direction string, r DateRange) ([]CategorySum, error) {
	txns, _ := s.FindTransactions(userID, r, direction)
	totals := make(map[uint]models.Money)
	for i := range txns {
		totals[txns[i].CategoryID] = totals[txns[i].CategoryID].Add(txns[i].Amount)
	}
	var rows []CategorySum
	for id, total := range totals {
		rows = append(rows, CategorySum{CategoryID: id, Total: total})
	}
	return rows, nil
}

// FetchPage 按全序取一页
func (s *MemoryStore) FetchPage(userID uint, limit int, after *Cursor) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []models.Transaction
	for _, txn := range s.transactions {
		if txn.UserID != userID {
			continue
		}
		if after != nil && !CursorFor(txn).After(*after) {
			continue
		}
		cp := *copyTransaction(txn)
		if cat, ok := s.categories[txn.CategoryID]; ok {
			cp.Category = copyCategory(cat)
		}
		list = append(list, cp)
	}
	sort.Slice(list, func(i, j int) bool {
		// (txn_date desc, created_at desc, id desc)
		return CursorFor(&list[j]).After(CursorFor(&list[i]))
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// CreateTransaction 新建交易
func (s *MemoryStore) CreateTransaction(txn *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn.ID = s.nextTxnID
	s.nextTxnID++
	now := time.Now().UTC()
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = now
	}
	txn.UpdatedAt = now
	s.transactions[txn.ID] = copyTransaction(txn)
	return nil
}

// FindTransaction 按 (id, user_id) 查找交易
func (s *MemoryStore) FindTransaction(id, userID uint) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, ok := s.transactions[id]
	if !ok || txn.UserID != userID {
		return nil, nil
	}
	cp := copyTransaction(txn)
	if cat, ok := s.categories[txn.CategoryID]; ok {
		cp.Category = copyCategory(cat)
	}
	return cp, nil
}

// UpdateTransaction 条件更新，返回受影响行数
func (s *MemoryStore) UpdateTransaction(id, userID uint, updates map[string]interface{}) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[id]
	if !ok || txn.UserID != userID {
		return 0, nil
	}
	for col, val := range updates {
		switch col {
		case "category_id":
			txn.CategoryID = val.(uint)
		case "direction":
			txn.Direction = val.(string)
		case "amount":
			txn.Amount = val.(models.Money)
		case "txn_date":
			txn.TxnDate = val.(time.Time)
		case "description":
			txn.Description = val.(string)
		}
	}
	txn.UpdatedAt = time.Now().UTC()
	return 1, nil
}

// DeleteTransaction 条件删除，返回受影响行数
func (s *MemoryStore) DeleteTransaction(id, userID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[id]
	if !ok || txn.UserID != userID {
		return 0, nil
	}
	delete(s.transactions, id)
	return 1, nil
}

// FindUserByID 按 id 查找用户
func (s *MemoryStore) FindUserByID(id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

// FindUserByUsername 按用户名或邮箱查找用户
func (s *MemoryStore) FindUserByUsername(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username || (user.Email != "" && user.Email == username) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

// CreateUser 新建用户
func (s *MemoryStore) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextUserID
	s.nextUserID++
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	s.users[user.ID] = &cp
	return nil
}
