package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"sort"
	"time"

	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"
	"fintrack/store"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	store store.TransactionStore
}

// NewExportHandler 创建导出处理器
func NewExportHandler(st store.TransactionStore) *ExportHandler {
	return &ExportHandler{store: st}
}

var exportHeaders = []string{"ID", "日期", "方向", "类别", "金额", "描述", "创建时间"}

// loadExportRows 拉取范围内交易并关联类别名，按日期倒序
func (h *ExportHandler) loadExportRows(userID uint, r store.DateRange) ([]models.Transaction, map[uint]string, error) {
	txns, err := h.store.FindTransactions(userID, r, "")
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].TxnDate.Equal(txns[j].TxnDate) {
			return txns[i].TxnDate.After(txns[j].TxnDate)
		}
		return txns[i].ID > txns[j].ID
	})

	cats, err := h.store.ListCategories(userID)
	if err != nil {
		return nil, nil, err
	}
	names := make(map[uint]string, len(cats))
	for _, cat := range cats {
		names[cat.ID] = cat.Name
	}
	return txns, names, nil
}

func exportRow(txn *models.Transaction, names map[uint]string) []string {
	name := names[txn.CategoryID]
	if name == "" {
		name = "Unknown"
	}
	return []string{
		fmt.Sprintf("%d", txn.ID),
		txn.TxnDate.Format("2006-01-02"),
		txn.Direction,
		name,
		txn.Amount.String(),
		txn.Description,
		txn.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ExportCSV 导出交易记录为 CSV
// @Summary 导出交易记录为 CSV
// @Description 根据日期范围导出当前用户的交易记录为 CSV 文件
// @Tags 导出
// @Accept json
// @Produce text/csv
// @Security BearerAuth
// @Param from query string false "开始日期 (2026-01-01)"
// @Param to query string false "结束日期 (2026-01-31)，含当天"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	r, _, err := service.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		ServiceError(c, err, "参数错误")
		return
	}

	txns, names, err := h.loadExportRows(userID, r)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	buf := new(bytes.Buffer)
	// BOM 保证 Excel 打开时中文不乱码
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}
	for i := range txns {
		if err := writer.Write(exportRow(&txns[i], names)); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("transactions_%s.csv", time.Now().UTC().Format("20060102"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出交易记录为 Excel
// @Summary 导出交易记录为 Excel
// @Description 根据日期范围导出当前用户的交易记录为 xlsx 文件
// @Tags 导出
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param from query string false "开始日期 (2026-01-01)"
// @Param to query string false "结束日期 (2026-01-31)，含当天"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	r, _, err := service.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		ServiceError(c, err, "参数错误")
		return
	}

	txns, names, err := h.loadExportRows(userID, r)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	for rowIdx := range txns {
		row := exportRow(&txns[rowIdx], names)
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}

	filename := fmt.Sprintf("transactions_%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
