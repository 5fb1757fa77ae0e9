package api

import (
	"strconv"

	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// TransactionHandler 交易记录处理器
type TransactionHandler struct {
	svc     *service.TransactionService
	reports *service.ReportService
}

// NewTransactionHandler 创建交易记录处理器
func NewTransactionHandler(svc *service.TransactionService, reports *service.ReportService) *TransactionHandler {
	return &TransactionHandler{svc: svc, reports: reports}
}

// CreateTransactionRequest 创建交易请求
type CreateTransactionRequest struct {
	CategoryID  uint   `json:"categoryId" binding:"required" example:"1"`
	Direction   string `json:"direction" binding:"required" example:"EXPENSE"`
	Amount      string `json:"amount" binding:"required" example:"12.50"`
	TxnDate     string `json:"txnDate" binding:"required" example:"2026-01-03"`
	Description string `json:"description" example:"午餐"`
}

// UpdateTransactionRequest 更新交易请求，省略的字段保持不变
type UpdateTransactionRequest struct {
	CategoryID  *uint   `json:"categoryId" example:"1"`
	Direction   *string `json:"direction" example:"EXPENSE"`
	Amount      *string `json:"amount" example:"12.50"`
	TxnDate     *string `json:"txnDate" example:"2026-01-03"`
	Description *string `json:"description" example:"午餐"`
}

// TransactionListRequest 交易列表请求（游标分页）
type TransactionListRequest struct {
	Take   int    `form:"take" example:"20"`
	Cursor string `form:"cursor"`
}

// Create 创建交易记录
// @Summary 创建交易记录
// @Description 创建一条新的收入或支出记录
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	txn, err := h.svc.Create(userID, service.CreateTransactionInput{
		CategoryID:  req.CategoryID,
		Direction:   req.Direction,
		Amount:      req.Amount,
		TxnDate:     req.TxnDate,
		Description: req.Description,
	})
	if err != nil {
		ServiceError(c, err, "创建交易失败")
		return
	}

	SuccessWithMessage(c, "创建成功", txn)
}

// List 获取交易记录列表
// @Summary 获取交易记录列表
// @Description 按 (记账日期, 创建时间, ID) 降序游标分页获取当前用户的交易记录
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param take query int false "每页数量" default(20)
// @Param cursor query string false "上一页返回的游标"
// @Success 200 {object} Response{data=CursorPageResponse{list=[]models.Transaction}} "获取成功"
// @Failure 400 {object} Response "游标非法"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	page, err := h.svc.ListPage(userID, req.Take, req.Cursor)
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}

	Success(c, CursorPageResponse{
		Take:        page.Take,
		HasNextPage: page.HasNextPage,
		NextCursor:  page.NextCursor,
		List:        page.Transactions,
	})
}

// Get 获取单条交易记录
// @Summary 获取单条交易记录
// @Description 根据ID获取交易记录详情
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易记录ID"
// @Success 200 {object} Response{data=models.Transaction} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	txn, err := h.svc.Get(uint(id), userID)
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}

	Success(c, txn)
}

// Update 更新交易记录
// @Summary 更新交易记录
// @Description 部分更新指定的交易记录，省略的字段保持不变
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易记录ID"
// @Param request body UpdateTransactionRequest true "交易信息"
// @Success 200 {object} Response{data=models.Transaction} "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	txn, err := h.svc.Update(uint(id), userID, service.UpdateTransactionInput{
		CategoryID:  req.CategoryID,
		Direction:   req.Direction,
		Amount:      req.Amount,
		TxnDate:     req.TxnDate,
		Description: req.Description,
	})
	if err != nil {
		ServiceError(c, err, "更新交易失败")
		return
	}

	SuccessWithMessage(c, "更新成功", txn)
}

// Delete 删除交易记录
// @Summary 删除交易记录
// @Description 物理删除指定的交易记录
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "交易记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	if err := h.svc.Delete(uint(id), userID); err != nil {
		ServiceError(c, err, "删除交易失败")
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// Summary 类别汇总
// @Summary 按类别汇总
// @Description 按类别汇总某一方向在日期范围内的总额，用于饼图
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param direction query string false "方向 INCOME/EXPENSE" default(EXPENSE)
// @Param from query string false "开始日期 (2026-01-01)"
// @Param to query string false "结束日期 (2026-01-31)，含当天"
// @Success 200 {object} Response{data=service.CategorySummaryResult} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/transactions/summary [get]
func (h *TransactionHandler) Summary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	direction := c.DefaultQuery("direction", models.DirectionExpense)
	if !models.ValidDirection(direction) {
		BadRequest(c, "方向必须是 INCOME 或 EXPENSE")
		return
	}

	r, info, err := service.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		ServiceError(c, err, "参数错误")
		return
	}

	result, err := h.reports.CategorySummary(userID, direction, r, info)
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}

	Success(c, result)
}
