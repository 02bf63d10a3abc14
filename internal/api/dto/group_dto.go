package dto

// GroupCreateRequest 创建群组请求（管理员）
type GroupCreateRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=200"`
	Slug        string `json:"slug" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"omitempty"`
}

// GroupInfo 群组信息
type GroupInfo struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}
