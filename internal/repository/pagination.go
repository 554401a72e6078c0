package repository

import "gorm.io/gorm"

// applyPagination 给列表查询套上 page/page_size 偏移。
// 商城列表页从 1 开始计页，非法页码按第一页处理；
// pageSize 不合法时不分页，交由调用方兜底。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}
