package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	// 合法金额
	m, err := ParseMoney("12.50")
	require.NoError(t, err)
	assert.Equal(t, "12.50", m.String())

	// 一位小数补齐为两位
	m, err = ParseMoney("12.5")
	require.NoError(t, err)
	assert.Equal(t, "12.50", m.String())

	// 整数
	m, err = ParseMoney("1000")
	require.NoError(t, err)
	assert.Equal(t, "1000.00", m.String())

	// 零和负数拒绝
	_, err = ParseMoney("0")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = ParseMoney("-5")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// 超过两位小数拒绝
	_, err = ParseMoney("1.005")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// 不可解析拒绝
	_, err = ParseMoney("abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = ParseMoney("")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMoneyArithmetic(t *testing.T) {
	a, _ := ParseMoney("12.50")
	b, _ := ParseMoney("2.20")

	assert.Equal(t, "14.70", a.Add(b).String())
	assert.Equal(t, "10.30", a.Sub(b).String())

	// 净额：支出取负
	assert.Equal(t, "-12.50", a.NegateIfExpense(DirectionExpense).String())
	assert.Equal(t, "12.50", a.NegateIfExpense(DirectionIncome).String())
}

func TestMoneySumOrderIndependent(t *testing.T) {
	// 大量小额累加，顺序不同结果必须一致（浮点累加做不到这一点）
	parts := []string{"0.10", "0.20", "0.30", "1000000.01", "0.07", "0.13"}

	forward := ZeroMoney()
	for _, s := range parts {
		m, err := ParseMoney(s)
		require.NoError(t, err)
		forward = forward.Add(m)
	}

	backward := ZeroMoney()
	for i := len(parts) - 1; i >= 0; i-- {
		m, _ := ParseMoney(parts[i])
		backward = backward.Add(m)
	}

	assert.Equal(t, forward.String(), backward.String())
	assert.Equal(t, "1000000.81", forward.String())
}

func TestMoneyJSON(t *testing.T) {
	m, _ := ParseMoney("12.5")
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"12.50"`, string(data))

	// 反序列化兼容字符串与数字
	var fromString Money
	require.NoError(t, json.Unmarshal([]byte(`"99.99"`), &fromString))
	assert.Equal(t, "99.99", fromString.String())

	var fromNumber Money
	require.NoError(t, json.Unmarshal([]byte(`99.99`), &fromNumber))
	assert.Equal(t, "99.99", fromNumber.String())
}

func TestMoneySQLRoundTrip(t *testing.T) {
	m, _ := ParseMoney("985.30")
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "985.30", v)

	// MySQL 驱动返回 []byte
	var scanned Money
	require.NoError(t, scanned.Scan([]byte("985.30")))
	assert.Equal(t, "985.30", scanned.String())

	require.NoError(t, scanned.Scan("0.00"))
	assert.True(t, scanned.IsZero())
}
