package dto

// SearchPostRequest 搜索请求参数
type SearchPostRequest struct {
	Q        string `form:"q"`
	AuthorID *int64 `form:"author_id"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// SearchPostInfo 搜索结果中的帖子信息
type SearchPostInfo struct {
	PostInfo
	Highlight map[string][]string `json:"highlight,omitempty"`
}

// SearchPostData 搜索结果
type SearchPostData struct {
	Posts      []SearchPostInfo `json:"posts"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int64            `json:"total_pages"`
}
