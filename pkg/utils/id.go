package utils

import "github.com/google/uuid"

// NewID 生成 36 位 uuid 主键
func NewID() string { return uuid.NewString() }

// IsValidID 语法校验：批量操作先分拣合法/非法 id，再碰数据库
func IsValidID(s string) bool {
	if s == "" {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
