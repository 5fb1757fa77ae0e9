package store

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"fintrack/models"
)

// ErrInvalidCursor 游标无法解析
var ErrInvalidCursor = errors.New("无效的分页游标")

// Cursor 分页游标，携带 (txn_date, created_at, id) 完整排序键。
// 续读通过复合键比较完成，不要求游标指向的行仍然存在。
type Cursor struct {
	TxnDate   time.Time
	CreatedAt time.Time
	ID        uint
}

// CursorFor 取某条交易的游标
func CursorFor(t *models.Transaction) Cursor {
	return Cursor{
		TxnDate:   t.TxnDate,
		CreatedAt: t.CreatedAt,
		ID:        t.ID,
	}
}

// Encode 编码为不透明 token
func (c Cursor) Encode() string {
	raw := fmt.Sprintf("%d:%d:%d", c.TxnDate.UTC().Unix(), c.CreatedAt.UTC().UnixNano(), c.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor 解码 token，任何格式问题都返回 ErrInvalidCursor
func DecodeCursor(token string) (*Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	var dateUnix, createdNano int64
	var id uint
	if _, err := fmt.Sscanf(string(raw), "%d:%d:%d", &dateUnix, &createdNano, &id); err != nil {
		return nil, ErrInvalidCursor
	}
	return &Cursor{
		TxnDate:   time.Unix(dateUnix, 0).UTC(),
		CreatedAt: time.Unix(0, createdNano).UTC(),
		ID:        id,
	}, nil
}

// After 判断 c 在 (txn_date desc, created_at desc, id desc) 全序中是否排在 other 之后
func (c Cursor) After(other Cursor) bool {
	if !c.TxnDate.Equal(other.TxnDate) {
		return c.TxnDate.Before(other.TxnDate)
	}
	if !c.CreatedAt.Equal(other.CreatedAt) {
		return c.CreatedAt.Before(other.CreatedAt)
	}
	return c.ID < other.ID
}
