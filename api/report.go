package api

import (
	"strconv"

	"fintrack/middleware"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler 报表处理器
type ReportHandler struct {
	svc *service.ReportService
}

// NewReportHandler 创建报表处理器
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// BalanceSheet 收支总览
// @Summary 收支总览
// @Description 日期范围内的收支总览与按月明细，无交易的月份不出现
// @Tags 报表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param from query string false "开始日期 (2026-01-01)"
// @Param to query string false "结束日期 (2026-01-31)，含当天"
// @Success 200 {object} Response{data=service.BalanceSheetResult} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/reports/balance-sheet [get]
func (h *ReportHandler) BalanceSheet(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	r, info, err := service.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		ServiceError(c, err, "参数错误")
		return
	}

	result, err := h.svc.BalanceSheet(userID, r, info)
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}

	Success(c, result)
}

// Trends 趋势报表
// @Summary 趋势报表
// @Description 最近 N 个月的稠密月度序列，含累计净值，无交易的月份补零
// @Tags 报表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param months query int false "月份数，1-60" default(12)
// @Success 200 {object} Response{data=service.TrendsResult} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/reports/trends [get]
func (h *ReportHandler) Trends(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	// 非数字静默回落到默认值，与越界收敛的处理一致
	months, _ := strconv.Atoi(c.Query("months"))
	months = service.ClampTrendMonths(months)

	result, err := h.svc.TrendSeries(userID, months)
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}

	Success(c, result)
}

// Metrics 仪表盘指标
// @Summary 仪表盘指标
// @Description 日期范围内的收入、支出、净现金流与交易笔数
// @Tags 报表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param from query string false "开始日期 (2026-01-01)"
// @Param to query string false "结束日期 (2026-01-31)，含当天"
// @Success 200 {object} Response{data=service.MetricsResult} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/dashboard/metrics [get]
func (h *ReportHandler) Metrics(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	r, info, err := service.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		ServiceError(c, err, "参数错误")
		return
	}

	result, err := h.svc.Metrics(userID, r, info)
	if err != nil {
		ServiceError(c, err, "查询失败")
		return
	}

	Success(c, result)
}
