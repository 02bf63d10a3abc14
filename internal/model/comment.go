package model

import "time"

// Comment 评论模型
// PostID 在表结构里允许为空，但所有创建路径都会填上帖子
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:评论ID" json:"id"`
	UserID    int64     `gorm:"not null;index:idx_comments_user_id;comment:评论作者ID" json:"user_id"`
	PostID    *int64    `gorm:"index:idx_comments_post_id;comment:被评论帖子ID" json:"post_id"`
	Text      string    `gorm:"type:text;not null;comment:评论内容" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_comments_created_at;comment:评论时间" json:"created_at"`

	// 关联关系
	User User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Post *Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
