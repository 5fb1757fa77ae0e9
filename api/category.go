package api

import (
	"fintrack/middleware"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 类别处理器
type CategoryHandler struct {
	svc *service.TransactionService
}

// NewCategoryHandler 创建类别处理器
func NewCategoryHandler(svc *service.TransactionService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// CreateCategoryRequest 创建类别请求
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=50" example:"Food"`
	Type string `json:"type" binding:"required" example:"EXPENSE"`
}

// List 获取类别列表
// @Summary 获取类别列表
// @Description 获取当前用户的全部收支类别，按 (类型, 名称) 排序
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	categories, err := h.svc.ListCategories(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, categories)
}

// Create 创建类别
// @Summary 创建类别
// @Description 创建一个新的收支类别，同一用户下 (名称, 类型) 不可重复
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	cat, err := h.svc.CreateCategory(userID, req.Name, req.Type)
	if err != nil {
		ServiceError(c, err, "创建类别失败")
		return
	}

	SuccessWithMessage(c, "创建成功", cat)
}
