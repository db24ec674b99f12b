package repo

import (
	"strings"

	"gorm.io/gorm"
)

// scoped privileged=true 走 Unscoped 全量投影（含软删行）
func scoped(db *gorm.DB, privileged bool) *gorm.DB {
	if privileged {
		return db.Unscoped()
	}
	return db
}

// paginate limit<=0 是"不分页"哨兵
func paginate(db *gorm.DB, offset, limit int) *gorm.DB {
	if limit > 0 {
		return db.Offset(offset).Limit(limit)
	}
	return db
}

// isDupKey 不依赖 gorm.ErrDuplicatedKey，避免驱动差异导致误判
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
