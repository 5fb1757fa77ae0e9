package service

import (
	"testing"
	"time"

	"fintrack/models"
	"fintrack/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustMoney(t *testing.T, s string) models.Money {
	t.Helper()
	m, err := models.ParseMoney(s)
	require.NoError(t, err)
	return m
}

// seedReportData 铺底：一个用户、两个类别和三笔交易（§8 场景）
func seedReportData(t *testing.T) (*store.MemoryStore, uint, uint, uint) {
	t.Helper()
	st := store.NewMemoryStore()

	salary := models.Category{UserID: 1, Name: "Salary", Type: models.DirectionIncome}
	require.NoError(t, st.CreateCategory(&salary))
	food := models.Category{UserID: 1, Name: "Food", Type: models.DirectionExpense}
	require.NoError(t, st.CreateCategory(&food))

	txns := []models.Transaction{
		{UserID: 1, CategoryID: salary.ID, Direction: models.DirectionIncome, Amount: mustMoney(t, "1000.00"), TxnDate: date(2026, 1, 1)},
		{UserID: 1, CategoryID: food.ID, Direction: models.DirectionExpense, Amount: mustMoney(t, "12.50"), TxnDate: date(2026, 1, 3)},
		{UserID: 1, CategoryID: food.ID, Direction: models.DirectionExpense, Amount: mustMoney(t, "2.20"), TxnDate: date(2026, 1, 3)},
	}
	for i := range txns {
		require.NoError(t, st.CreateTransaction(&txns[i]))
	}
	return st, 1, salary.ID, food.ID
}

func TestMetrics(t *testing.T) {
	st, userID, _, _ := seedReportData(t)
	svc := NewReportService(st)

	r, info, err := ParseDateRange("2026-01-01", "2026-01-31")
	require.NoError(t, err)

	result, err := svc.Metrics(userID, r, info)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", result.Metrics.TotalIncome.String())
	assert.Equal(t, "14.70", result.Metrics.TotalExpense.String())
	assert.Equal(t, "985.30", result.Metrics.NetCashflow.String())
	assert.Equal(t, int64(3), result.Metrics.TxCount)
}

func TestCategorySummary(t *testing.T) {
	st, userID, _, foodID := seedReportData(t)
	svc := NewReportService(st)

	result, err := svc.CategorySummary(userID, models.DirectionExpense, store.DateRange{}, RangeInfo{})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, foodID, result.Items[0].CategoryID)
	assert.Equal(t, "Food", result.Items[0].CategoryName)
	assert.Equal(t, models.DirectionExpense, result.Items[0].CategoryType)
	assert.Equal(t, "14.70", result.Items[0].Total.String())
	assert.Equal(t, "14.70", result.GrandTotal.String())
}

func TestCategorySummary_ItemsSumEqualsGrandTotal(t *testing.T) {
	st := store.NewMemoryStore()
	var catIDs []uint
	for _, name := range []string{"Food", "Transport", "Bills", "Shopping"} {
		cat := models.Category{UserID: 1, Name: name, Type: models.DirectionExpense}
		require.NoError(t, st.CreateCategory(&cat))
		catIDs = append(catIDs, cat.ID)
	}
	amounts := []string{"0.10", "0.20", "99.99", "1234.56", "0.01", "7.77"}
	for i, a := range amounts {
		txn := models.Transaction{
			UserID:     1,
			CategoryID: catIDs[i%len(catIDs)],
			Direction:  models.DirectionExpense,
			Amount:     mustMoney(t, a),
			TxnDate:    date(2026, 3, 1+i),
		}
		require.NoError(t, st.CreateTransaction(&txn))
	}

	svc := NewReportService(st)
	result, err := svc.CategorySummary(1, models.DirectionExpense, store.DateRange{}, RangeInfo{})
	require.NoError(t, err)

	// 分项合计与总计必须十进制精确相等
	sum := models.ZeroMoney()
	for _, item := range result.Items {
		sum = sum.Add(item.Total)
	}
	assert.Equal(t, result.GrandTotal.String(), sum.String())

	// 总额降序
	for i := 1; i < len(result.Items); i++ {
		assert.LessOrEqual(t, result.Items[i].Total.Cmp(result.Items[i-1].Total), 0)
	}
}

func TestCategorySummary_Empty(t *testing.T) {
	svc := NewReportService(store.NewMemoryStore())

	result, err := svc.CategorySummary(1, models.DirectionExpense, store.DateRange{}, RangeInfo{})
	require.NoError(t, err)

	// 无命中交易不是错误：items 为空数组，总计为 "0.00"
	assert.NotNil(t, result.Items)
	assert.Len(t, result.Items, 0)
	assert.Equal(t, "0.00", result.GrandTotal.String())
}

func TestCategorySummary_EndDateInclusive(t *testing.T) {
	st, userID, _, _ := seedReportData(t)
	svc := NewReportService(st)

	// from 与 to 是同一天，当天的两笔支出必须命中（闭区间到当天结束）
	r, info, err := ParseDateRange("2026-01-03", "2026-01-03")
	require.NoError(t, err)

	result, err := svc.CategorySummary(userID, models.DirectionExpense, r, info)
	require.NoError(t, err)
	assert.Equal(t, "14.70", result.GrandTotal.String())
}

func TestBalanceSheet(t *testing.T) {
	st, userID, _, _ := seedReportData(t)
	svc := NewReportService(st)

	result, err := svc.BalanceSheet(userID, store.DateRange{}, RangeInfo{})
	require.NoError(t, err)

	assert.Equal(t, "1000.00", result.Totals.TotalIncome.String())
	assert.Equal(t, "985.30", result.Totals.NetCashflow.String())

	// 稀疏输出：只有 2026-01 一个月
	require.Len(t, result.Monthly, 1)
	assert.Equal(t, "2026-01", result.Monthly[0].Month)
	assert.Equal(t, "1000.00", result.Monthly[0].Income.String())
	assert.Equal(t, "14.70", result.Monthly[0].Expense.String())
	assert.Equal(t, "985.30", result.Monthly[0].Net.String())
}

func TestMonthlyBreakdown_SparseAndSorted(t *testing.T) {
	txns := []models.Transaction{
		{Direction: models.DirectionExpense, Amount: mustMoney(t, "5.00"), TxnDate: date(2026, 3, 10)},
		{Direction: models.DirectionIncome, Amount: mustMoney(t, "100.00"), TxnDate: date(2026, 1, 5)},
		{Direction: models.DirectionExpense, Amount: mustMoney(t, "1.50"), TxnDate: date(2026, 1, 20)},
	}

	monthly := MonthlyBreakdown(txns)

	// 2026-02 没有交易，不出现；输出按月份键升序
	require.Len(t, monthly, 2)
	assert.Equal(t, "2026-01", monthly[0].Month)
	assert.Equal(t, "98.50", monthly[0].Net.String())
	assert.Equal(t, "2026-03", monthly[1].Month)
	assert.Equal(t, "-5.00", monthly[1].Net.String())
}

func TestBuildTrendSeries_DenseWithNetWorth(t *testing.T) {
	now := date(2026, 3, 15)
	txns := []models.Transaction{
		{Direction: models.DirectionIncome, Amount: mustMoney(t, "1000.00"), TxnDate: date(2026, 1, 1)},
		{Direction: models.DirectionExpense, Amount: mustMoney(t, "200.00"), TxnDate: date(2026, 3, 2)},
	}

	data := BuildTrendSeries(txns, 3, now)

	// 稠密序列：没有交易的 2026-02 也出现，值为零
	require.Len(t, data, 3)
	assert.Equal(t, "2026-01", data[0].Month)
	assert.Equal(t, "2026-02", data[1].Month)
	assert.Equal(t, "2026-03", data[2].Month)

	assert.Equal(t, "1000.00", data[0].Net.String())
	assert.Equal(t, "0.00", data[1].Net.String())
	assert.Equal(t, "-200.00", data[2].Net.String())

	// netWorth 为月净额的累计折叠
	assert.Equal(t, "1000.00", data[0].NetWorth.String())
	assert.Equal(t, "1000.00", data[1].NetWorth.String())
	assert.Equal(t, "800.00", data[2].NetWorth.String())

	assert.Equal(t, int64(1), data[0].TxCount)
	assert.Equal(t, int64(0), data[1].TxCount)
}

func TestBuildTrendSeries_FixedLengthAndBoundary(t *testing.T) {
	now := date(2026, 3, 15)

	// 无任何交易仍返回固定长度
	data := BuildTrendSeries(nil, 3, now)
	assert.Len(t, data, 3)

	// 起点之前的交易静默丢弃
	early := []models.Transaction{
		{Direction: models.DirectionIncome, Amount: mustMoney(t, "50.00"), TxnDate: date(2025, 12, 31)},
	}
	data = BuildTrendSeries(early, 3, now)
	require.Len(t, data, 3)
	assert.Equal(t, "0.00", data[0].NetWorth.String())

	// 跨年起点计算
	start := TrendStartMonth(date(2026, 1, 10), 3)
	assert.Equal(t, "2025-11-01", start.Format("2006-01-02"))
}

func TestClampTrendMonths(t *testing.T) {
	assert.Equal(t, 12, ClampTrendMonths(0))
	assert.Equal(t, 12, ClampTrendMonths(-5))
	assert.Equal(t, 1, ClampTrendMonths(1))
	assert.Equal(t, 60, ClampTrendMonths(120))
}

func TestParseDateRange(t *testing.T) {
	r, info, err := ParseDateRange("2026-01-01", "2026-01-31")
	require.NoError(t, err)
	require.NotNil(t, r.From)
	require.NotNil(t, r.To)
	assert.Equal(t, "2026-01-01", *info.From)

	// 可选：两端都不传
	r, info, err = ParseDateRange("", "")
	require.NoError(t, err)
	assert.True(t, r.IsZero())
	assert.Nil(t, info.From)
	assert.Nil(t, info.To)

	// 非法格式报告出错字段
	_, _, err = ParseDateRange("01/01/2026", "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "from", ve.Field)
}
