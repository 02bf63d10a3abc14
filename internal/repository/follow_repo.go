package repository

import (
	"yatube-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// CreateIfAbsent 幂等创建关注关系
// 依赖 (user_id, author_id) 唯一索引，重复插入走 ON CONFLICT DO NOTHING，
// 并发下的重复关注由存储层消解，不加任何应用层锁。
// 返回是否真的插入了新行。
func (r *FollowRepository) CreateIfAbsent(userID, authorID int64) (bool, error) {
	follow := &model.Follow{
		UserID:   userID,
		AuthorID: authorID,
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
		DoNothing: true,
	}).Create(follow)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 删除关注关系，不存在时静默返回 false
func (r *FollowRepository) Delete(userID, authorID int64) (bool, error) {
	result := r.db.Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&model.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查关注关系是否存在
func (r *FollowRepository) Exists(userID, authorID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// GetFollowingIDs 用户关注的作者 ID 列表
func (r *FollowRepository) GetFollowingIDs(userID int64) ([]int64, error) {
	var authorIDs []int64
	err := r.db.Model(&model.Follow{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("author_id", &authorIDs).Error
	return authorIDs, err
}

// GetFollowerIDs 作者的粉丝 ID 列表
func (r *FollowRepository) GetFollowerIDs(authorID int64) ([]int64, error) {
	var userIDs []int64
	err := r.db.Model(&model.Follow{}).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

// CountAll 关注关系总行数
func (r *FollowRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Count(&count).Error
	return count, err
}
