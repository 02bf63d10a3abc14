package model

import "time"

// Post 帖子模型
// CreatedAt 创建后不再变化，编辑帖子只允许修改正文、群组和图片
type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:帖子标识" json:"id"`
	AuthorID  int64     `gorm:"not null;index:idx_posts_author_id;comment:作者ID" json:"author_id"`
	GroupID   *int64    `gorm:"index:idx_posts_group_id;comment:所属群组ID，可为空" json:"group_id"`
	Text      string    `gorm:"type:text;not null;comment:帖子正文" json:"text"`
	Image     *string   `gorm:"size:500;comment:图片相对路径，如 posts/small.gif" json:"image"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_posts_created_at;comment:发布时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Author   User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Group    *Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}
