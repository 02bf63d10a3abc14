package model

import "time"

// Follow 关注关系模型，UserID 关注 AuthorID
// 唯一索引 + CHECK 约束在存储层兜底：同一对用户只有一行，且不允许自己关注自己
type Follow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:关注关系id" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_unique_follow;index:idx_follows_user_id;check:chk_follows_no_self,user_id <> author_id;comment:粉丝用户id" json:"user_id"`
	AuthorID  int64     `gorm:"not null;uniqueIndex:idx_unique_follow;index:idx_follows_author_id;comment:被关注作者id" json:"author_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:关注时间" json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
