package model

// Group 群组模型，帖子可以挂在某个群组下
type Group struct {
	ID          int64  `gorm:"primaryKey;autoIncrement;comment:群组标识" json:"id"`
	Title       string `gorm:"size:200;not null;comment:群组标题" json:"title"`
	Slug        string `gorm:"size:200;not null;uniqueIndex;comment:群组短链" json:"slug"`
	Description string `gorm:"type:text;comment:群组描述" json:"description"`

	// 关联关系
	Posts []Post `gorm:"foreignKey:GroupID" json:"posts,omitempty"`
}

func (Group) TableName() string {
	return "groups"
}
