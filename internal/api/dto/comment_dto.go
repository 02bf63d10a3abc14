package dto

import "time"

// CommentForm 评论表单输入
type CommentForm struct {
	Text string `form:"text" json:"text"`
}

// CommentFormView 评论表单的渲染描述
type CommentFormView struct {
	Text   string            `json:"text"`
	Errors map[string]string `json:"errors,omitempty"`
}

// CommentInfo 评论详情
type CommentInfo struct {
	ID        int64     `json:"id"`
	PostID    *int64    `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"user_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentCreated 评论创建结果，AuthorUsername 是帖子作者（重定向回单帖页用）
type CommentCreated struct {
	Comment        CommentInfo `json:"comment"`
	PostID         int64       `json:"post_id"`
	AuthorUsername string      `json:"author_username"`
}
