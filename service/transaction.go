package service

import (
	"time"

	"fintrack/models"
	"fintrack/store"
)

// 分页参数边界
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// TransactionService 交易 CRUD 与分页，存储通过构造函数注入
type TransactionService struct {
	store store.TransactionStore
}

// NewTransactionService 创建交易服务
func NewTransactionService(st store.TransactionStore) *TransactionService {
	return &TransactionService{store: st}
}

// CreateTransactionInput 创建交易的入参
type CreateTransactionInput struct {
	CategoryID  uint
	Direction   string
	Amount      string
	TxnDate     string
	Description string
}

// UpdateTransactionInput 更新交易的入参，nil 字段表示不修改
type UpdateTransactionInput struct {
	CategoryID  *uint
	Direction   *string
	Amount      *string
	TxnDate     *string
	Description *string
}

// Page 一页交易
type Page struct {
	Transactions []models.Transaction
	Take         int
	NextCursor   *string
	HasNextPage  bool
}

// parseTxnDate 解析记账日期，UTC 日历日零点
func parseTxnDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, invalidField("txnDate", "日期格式错误，应为: 2006-01-02")
	}
	return t.UTC(), nil
}

// Create 创建交易。全部校验通过后才写库，首个违规字段即返回。
func (s *TransactionService) Create(userID uint, in CreateTransactionInput) (*models.Transaction, error) {
	if in.CategoryID == 0 {
		return nil, invalidField("categoryId", "类别不能为空")
	}
	cat, err := s.store.FindCategory(in.CategoryID, userID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, invalidField("categoryId", "无效的类别")
	}
	if !models.ValidDirection(in.Direction) {
		return nil, invalidField("direction", "方向必须是 INCOME 或 EXPENSE")
	}
	amount, err := models.ParseMoney(in.Amount)
	if err != nil {
		return nil, invalidField("amount", models.ErrInvalidAmount.Error())
	}
	txnDate, err := parseTxnDate(in.TxnDate)
	if err != nil {
		return nil, err
	}

	txn := models.Transaction{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Direction:   in.Direction,
		Amount:      amount,
		TxnDate:     txnDate,
		Description: in.Description,
	}
	if err := s.store.CreateTransaction(&txn); err != nil {
		return nil, err
	}
	txn.Category = cat
	return &txn, nil
}

// Get 获取单条交易
func (s *TransactionService) Get(id, userID uint) (*models.Transaction, error) {
	txn, err := s.store.FindTransaction(id, userID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrNotFound
	}
	return txn, nil
}

// Update 部分更新：只有提供的字段会被修改，每个字段按创建时的规则校验。
// 更新以 (id, user_id) 为条件原子执行，0 行受影响视为 NotFound。
func (s *TransactionService) Update(id, userID uint, in UpdateTransactionInput) (*models.Transaction, error) {
	updates := make(map[string]interface{})

	if in.CategoryID != nil {
		cat, err := s.store.FindCategory(*in.CategoryID, userID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, invalidField("categoryId", "无效的类别")
		}
		updates["category_id"] = *in.CategoryID
	}
	if in.Direction != nil {
		if !models.ValidDirection(*in.Direction) {
			return nil, invalidField("direction", "方向必须是 INCOME 或 EXPENSE")
		}
		updates["direction"] = *in.Direction
	}
	if in.Amount != nil {
		amount, err := models.ParseMoney(*in.Amount)
		if err != nil {
			return nil, invalidField("amount", models.ErrInvalidAmount.Error())
		}
		updates["amount"] = amount
	}
	if in.TxnDate != nil {
		txnDate, err := parseTxnDate(*in.TxnDate)
		if err != nil {
			return nil, err
		}
		updates["txn_date"] = txnDate
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}

	if len(updates) == 0 {
		return nil, invalidField("fields", "未提供任何可更新字段")
	}

	affected, err := s.store.UpdateTransaction(id, userID, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(id, userID)
}

// Delete 删除交易，0 行受影响视为 NotFound
func (s *TransactionService) Delete(id, userID uint) error {
	affected, err := s.store.DeleteTransaction(id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPage 游标分页。多取一行探测下一页，nextCursor 仅在确有下一页时返回。
func (s *TransactionService) ListPage(userID uint, take int, cursorToken string) (*Page, error) {
	if take <= 0 {
		take = DefaultPageSize
	}
	if take > MaxPageSize {
		take = MaxPageSize
	}

	var after *store.Cursor
	if cursorToken != "" {
		c, err := store.DecodeCursor(cursorToken)
		if err != nil {
			return nil, invalidField("cursor", "无效的分页游标")
		}
		after = c
	}

	rows, err := s.store.FetchPage(userID, take+1, after)
	if err != nil {
		return nil, err
	}

	page := &Page{Take: take, HasNextPage: len(rows) > take}
	if page.HasNextPage {
		rows = rows[:take]
	}
	page.Transactions = rows
	if page.HasNextPage && len(rows) > 0 {
		token := store.CursorFor(&rows[len(rows)-1]).Encode()
		page.NextCursor = &token
	}
	return page, nil
}

// ListCategories 用户全部类别，按 (type, name) 排序
func (s *TransactionService) ListCategories(userID uint) ([]models.Category, error) {
	return s.store.ListCategories(userID)
}

// CreateCategory 新建类别，(user_id, name, type) 不可重复
func (s *TransactionService) CreateCategory(userID uint, name, categoryType string) (*models.Category, error) {
	if name == "" {
		return nil, invalidField("name", "类别名称不能为空")
	}
	if !models.ValidDirection(categoryType) {
		return nil, invalidField("type", "类型必须是 INCOME 或 EXPENSE")
	}
	existing, err := s.store.FindCategoryByName(userID, name, categoryType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, invalidField("name", "同名类别已存在")
	}
	cat := models.Category{UserID: userID, Name: name, Type: categoryType}
	if err := s.store.CreateCategory(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}
