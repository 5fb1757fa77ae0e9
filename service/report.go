package service

import (
	"sort"
	"time"

	"fintrack/models"
	"fintrack/store"
)

// 趋势月份数边界
const (
	DefaultTrendMonths = 12
	MaxTrendMonths     = 60
)

// ReportService 聚合报表引擎。所有操作都是对一次性读出的数据做无状态计算，
// 金额累加全部经过 Money，不走浮点。
type ReportService struct {
	store store.TransactionStore
}

// NewReportService 创建报表服务
func NewReportService(st store.TransactionStore) *ReportService {
	return &ReportService{store: st}
}

// RangeInfo 回显给调用方的日期范围，未传的边界为 null
type RangeInfo struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// ParseDateRange 解析 from/to 查询参数（均可选，格式 2006-01-02，UTC 日历日）
func ParseDateRange(fromStr, toStr string) (store.DateRange, RangeInfo, error) {
	var r store.DateRange
	var info RangeInfo
	if fromStr != "" {
		t, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return r, info, invalidField("from", "日期格式错误，应为: 2006-01-02")
		}
		t = t.UTC()
		r.From = &t
		info.From = &fromStr
	}
	if toStr != "" {
		t, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return r, info, invalidField("to", "日期格式错误，应为: 2006-01-02")
		}
		t = t.UTC()
		r.To = &t
		info.To = &toStr
	}
	return r, info, nil
}

// SummaryItem 某方向上单个类别的合计
type SummaryItem struct {
	CategoryID   uint         `json:"categoryId"`
	CategoryName string       `json:"categoryName"`
	CategoryType string       `json:"categoryType"`
	Total        models.Money `json:"total"`
}

// CategorySummaryResult 类别汇总（饼图）
type CategorySummaryResult struct {
	Direction  string        `json:"direction"`
	Range      RangeInfo     `json:"range"`
	Items      []SummaryItem `json:"items"`
	GrandTotal models.Money  `json:"grandTotal"`
}

// CategorySummary 按类别汇总某一方向的总额。
// 聚合在存储侧完成，标签关联仍限定所有者；排序为总额降序，
// 总额相同时按类别 id 升序，保证输出确定。
func (s *ReportService) CategorySummary(userID uint, direction string, r store.DateRange, info RangeInfo) (*CategorySummaryResult, error) {
	rows, err := s.store.SumByCategory(userID, direction, r)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.CategoryID)
	}
	cats, err := s.store.ListCategoriesByIDs(userID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Category, len(cats))
	for _, cat := range cats {
		byID[cat.ID] = cat
	}

	items := make([]SummaryItem, 0, len(rows))
	grandTotal := models.ZeroMoney()
	for _, row := range rows {
		item := SummaryItem{
			CategoryID:   row.CategoryID,
			CategoryName: "Unknown",
			Total:        row.Total,
		}
		if cat, ok := byID[row.CategoryID]; ok {
			item.CategoryName = cat.Name
			item.CategoryType = cat.Type
		}
		items = append(items, item)
		grandTotal = grandTotal.Add(row.Total)
	}

	sort.Slice(items, func(i, j int) bool {
		if c := items[i].Total.Cmp(items[j].Total); c != 0 {
			return c > 0
		}
		return items[i].CategoryID < items[j].CategoryID
	})

	return &CategorySummaryResult{
		Direction:  direction,
		Range:      info,
		Items:      items,
		GrandTotal: grandTotal,
	}, nil
}

// MonthBucket 单个日历月的收支
type MonthBucket struct {
	Month   string       `json:"month"`
	Income  models.Money `json:"income"`
	Expense models.Money `json:"expense"`
	Net     models.Money `json:"net"`
}

// MonthlyBreakdown 把交易折叠进 UTC 日历月桶。
// 稀疏输出：只有至少命中一笔交易的月份才会出现，按月份键升序
// （YYYY-MM 的字典序即时间序）。
func MonthlyBreakdown(txns []models.Transaction) []MonthBucket {
	byMonth := make(map[string]*MonthBucket)
	for i := range txns {
		key := txns[i].MonthKey()
		bucket, ok := byMonth[key]
		if !ok {
			bucket = &MonthBucket{Month: key}
			byMonth[key] = bucket
		}
		if txns[i].Direction == models.DirectionIncome {
			bucket.Income = bucket.Income.Add(txns[i].Amount)
		} else {
			bucket.Expense = bucket.Expense.Add(txns[i].Amount)
		}
	}

	monthly := make([]MonthBucket, 0, len(byMonth))
	for _, bucket := range byMonth {
		bucket.Net = bucket.Income.Sub(bucket.Expense)
		monthly = append(monthly, *bucket)
	}
	sort.Slice(monthly, func(i, j int) bool {
		return monthly[i].Month < monthly[j].Month
	})
	return monthly
}

// Totals 方向聚合结果
type Totals struct {
	TotalIncome  models.Money `json:"totalIncome"`
	TotalExpense models.Money `json:"totalExpense"`
	NetCashflow  models.Money `json:"netCashflow"`
	TxCount      int64        `json:"txCount"`
}

// directionTotals 两次存储侧聚合拼出总览
func (s *ReportService) directionTotals(userID uint, r store.DateRange) (Totals, error) {
	income, incomeCount, err := s.store.SumByDirection(userID, models.DirectionIncome, r)
	if err != nil {
		return Totals{}, err
	}
	expense, expenseCount, err := s.store.SumByDirection(userID, models.DirectionExpense, r)
	if err != nil {
		return Totals{}, err
	}
	return Totals{
		TotalIncome:  income,
		TotalExpense: expense,
		NetCashflow:  income.Sub(expense),
		TxCount:      incomeCount + expenseCount,
	}, nil
}

// BalanceSheetResult 资产负债视图：总览 + 稀疏月度明细
type BalanceSheetResult struct {
	Range   RangeInfo     `json:"range"`
	Totals  Totals        `json:"totals"`
	Monthly []MonthBucket `json:"monthly"`
}

// BalanceSheet 总览来自存储侧聚合，月度明细来自批量拉取后的应用侧折叠。
// 两次读取在并发写入下不保证互相一致，这里的数据是人工录入的个人账目，可以接受。
func (s *ReportService) BalanceSheet(userID uint, r store.DateRange, info RangeInfo) (*BalanceSheetResult, error) {
	totals, err := s.directionTotals(userID, r)
	if err != nil {
		return nil, err
	}
	txns, err := s.store.FindTransactions(userID, r, "")
	if err != nil {
		return nil, err
	}
	return &BalanceSheetResult{
		Range:   info,
		Totals:  totals,
		Monthly: MonthlyBreakdown(txns),
	}, nil
}

// TrendPoint 趋势序列中的一个月
type TrendPoint struct {
	Month    string       `json:"month"`
	Income   models.Money `json:"income"`
	Expense  models.Money `json:"expense"`
	Net      models.Money `json:"net"`
	NetWorth models.Money `json:"netWorth"`
	TxCount  int64        `json:"txCount"`
}

// TrendsResult 趋势报表
type TrendsResult struct {
	Months    int          `json:"months"`
	StartDate string       `json:"startDate"`
	Data      []TrendPoint `json:"data"`
}

// ClampTrendMonths 月份数收敛到 [1, 60]，未传取 12
func ClampTrendMonths(months int) int {
	if months <= 0 {
		return DefaultTrendMonths
	}
	if months > MaxTrendMonths {
		return MaxTrendMonths
	}
	return months
}

// TrendStartMonth 趋势起点：当前月往前 months-1 个月的月初（UTC）
func TrendStartMonth(now time.Time, months int) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month()-time.Month(months-1), 1, 0, 0, 0, 0, time.UTC)
}

// BuildTrendSeries 构造稠密月度序列：[start, 当前月] 内每个月都出现，
// 无交易的月份为零值，这一点与稀疏的月度明细不同，图表需要定长序列。
// netWorth 是对月净额的显式折叠累加，累加器从 0 起步（相对趋势而非真实净资产）。
// 起点之前的交易（时钟/时区偏差落在边界外）静默丢弃。
func BuildTrendSeries(txns []models.Transaction, months int, now time.Time) []TrendPoint {
	months = ClampTrendMonths(months)
	start := TrendStartMonth(now, months)

	data := make([]TrendPoint, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		data[i] = TrendPoint{Month: key}
		index[key] = i
	}

	for i := range txns {
		pos, ok := index[txns[i].MonthKey()]
		if !ok {
			continue
		}
		if txns[i].Direction == models.DirectionIncome {
			data[pos].Income = data[pos].Income.Add(txns[i].Amount)
		} else {
			data[pos].Expense = data[pos].Expense.Add(txns[i].Amount)
		}
		data[pos].TxCount++
	}

	cumulative := models.ZeroMoney()
	for i := range data {
		data[i].Net = data[i].Income.Sub(data[i].Expense)
		cumulative = cumulative.Add(data[i].Net)
		data[i].NetWorth = cumulative
	}
	return data
}

// TrendSeries 最近 N 个月的收支趋势
func (s *ReportService) TrendSeries(userID uint, months int) (*TrendsResult, error) {
	months = ClampTrendMonths(months)
	now := time.Now().UTC()
	start := TrendStartMonth(now, months)

	txns, err := s.store.FindTransactions(userID, store.DateRange{From: &start}, "")
	if err != nil {
		return nil, err
	}

	return &TrendsResult{
		Months:    months,
		StartDate: start.Format("2006-01-02"),
		Data:      BuildTrendSeries(txns, months, now),
	}, nil
}

// MetricsResult 仪表盘指标
type MetricsResult struct {
	Range   RangeInfo `json:"range"`
	Metrics Totals    `json:"metrics"`
}

// Metrics 两个方向聚合，不做类别/月度细分
func (s *ReportService) Metrics(userID uint, r store.DateRange, info RangeInfo) (*MetricsResult, error) {
	totals, err := s.directionTotals(userID, r)
	if err != nil {
		return nil, err
	}
	return &MetricsResult{Range: info, Metrics: totals}, nil
}
