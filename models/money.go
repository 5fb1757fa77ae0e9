package models

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount 金额非法：无法解析、非正数或小数位超过两位
var ErrInvalidAmount = errors.New("金额必须是大于 0 且最多两位小数的数字")

// Money 金额值类型，内部为十进制定点数，对外始终序列化为两位小数的字符串。
// 所有金额累加必须经过 Money，禁止使用 float64，保证求和结果与顺序无关且精确。
type Money struct {
	d decimal.Decimal
}

// ZeroMoney 零金额
func ZeroMoney() Money {
	return Money{}
}

// ParseMoney 解析用户输入的金额字符串
// 规则：必须可解析为十进制数、必须大于 0、小数位不得超过两位
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return Money{}, ErrInvalidAmount
	}
	// 超过两位小数直接拒绝，避免落库时被静默舍入
	if d.Exponent() < -2 {
		return Money{}, ErrInvalidAmount
	}
	return Money{d: d}, nil
}

// Add 加法
func (m Money) Add(other Money) Money {
	return Money{d: m.d.Add(other.d)}
}

// Sub 减法
func (m Money) Sub(other Money) Money {
	return Money{d: m.d.Sub(other.d)}
}

// NegateIfExpense 支出方向取负，用于净额计算
func (m Money) NegateIfExpense(direction string) Money {
	if direction == DirectionExpense {
		return Money{d: m.d.Neg()}
	}
	return m
}

// Cmp 比较，返回 -1/0/1
func (m Money) Cmp(other Money) int {
	return m.d.Cmp(other.d)
}

// IsZero 是否为零
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// String 固定两位小数的字符串表示
func (m Money) String() string {
	return m.d.StringFixed(2)
}

// MarshalJSON 序列化为两位小数字符串，如 "12.50"
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.d.StringFixed(2) + `"`), nil
}

// UnmarshalJSON 兼容字符串与数字两种形式
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ErrInvalidAmount
	}
	m.d = d
	return nil
}

// Value 实现 driver.Valuer，落库为 DECIMAL 字面量
func (m Money) Value() (driver.Value, error) {
	return m.d.StringFixed(2), nil
}

// Scan 实现 sql.Scanner，从 DECIMAL 列读取
func (m *Money) Scan(value interface{}) error {
	if value == nil {
		m.d = decimal.Decimal{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return fmt.Errorf("无法解析金额 %q: %w", string(v), err)
		}
		m.d = d
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("无法解析金额 %q: %w", v, err)
		}
		m.d = d
	case int64:
		m.d = decimal.NewFromInt(v)
	case float64:
		// 个别驱动会把 DECIMAL 映射为 float64，这里立即转回定点数
		m.d = decimal.NewFromFloat(v)
	default:
		return fmt.Errorf("不支持的金额类型 %T", value)
	}
	return nil
}
