package repository

import "gorm.io/gorm"

// applyPagination 给查询追加 LIMIT/OFFSET。页码从 1 起算，
// 非法页码就地修正，pageSize<=0 视为不分页
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
