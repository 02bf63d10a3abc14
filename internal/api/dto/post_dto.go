package dto

import "time"

// PostForm 发布/编辑帖子的表单输入（multipart/form-data）
// 图片文件单独走 FormFile，不在这里绑定
type PostForm struct {
	Text    string `form:"text" json:"text"`
	GroupID *int64 `form:"group" json:"group"`
}

// PostFormView 发布/编辑表单的渲染描述
// Errors 非空表示校验失败，按字段给出提示
type PostFormView struct {
	Text    string            `json:"text"`
	GroupID *int64            `json:"group"`
	Image   *string           `json:"image,omitempty"`
	Groups  []GroupInfo       `json:"groups"` // 可选群组列表，供下拉框渲染
	Errors  map[string]string `json:"errors,omitempty"`
}

// PostInfo 帖子详情
type PostInfo struct {
	ID         int64     `json:"id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	GroupID    *int64    `json:"group_id"`
	GroupSlug  *string   `json:"group_slug,omitempty"`
	Text       string    `json:"text"`
	Image      *string   `json:"image,omitempty"`     // 相对路径，如 posts/small.gif
	ImageURL   *string   `json:"image_url,omitempty"` // 完整访问地址
	CreatedAt  time.Time `json:"created_at"`
}

// PostListData 帖子分页数据
type PostListData struct {
	Posts      []PostInfo `json:"posts"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int64      `json:"total_pages"`
}

// GroupFeedData 群组页数据
type GroupFeedData struct {
	Group GroupInfo    `json:"group"`
	Posts PostListData `json:"posts"`
}

// PostDetailData 单帖页数据：帖子本身、评论（正序）、作者其他帖子、空评论表单
type PostDetailData struct {
	Post        PostInfo        `json:"post"`
	Comments    []CommentInfo   `json:"comments"`
	AuthorPosts []PostInfo      `json:"author_posts"`
	Form        CommentFormView `json:"form"`
}
