package service

// totalPages 计算总页数，空结果也算一页
func totalPages(total int64, pageSize int) int64 {
	pages := (total + int64(pageSize) - 1) / int64(pageSize)
	if pages < 1 {
		pages = 1
	}
	return pages
}

// clampPage 把页码收敛到合法区间
// 非法或过小取第一页，超出末页取末页，空结果固定第一页
func clampPage(page int, total int64, pageSize int) int {
	if page < 1 {
		return 1
	}
	pages := totalPages(total, pageSize)
	if int64(page) > pages {
		return int(pages)
	}
	return page
}
