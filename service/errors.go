package service

import "errors"

// ValidationError 参数校验错误，Field 标记第一个出错的字段。
// 任何校验都在写库之前完成，不存在部分写入。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// invalidField 构造字段校验错误
func invalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ErrNotFound 记录不存在或不属于调用者。
// 两种情况响应完全一致，避免向调用方泄露记录是否存在。
var ErrNotFound = errors.New("记录不存在")
