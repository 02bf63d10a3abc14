package repository

import (
	"yatube-go/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID 根据 ID 查询用户
func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名查询用户
func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("user_name = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

// ExistsByUsername 检查用户名是否已存在
func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("user_name = ?", username).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByIDs 批量查询用户
func (r *UserRepository) GetByIDs(ids []int64) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// IncrementFollowCount 关注数 +1
func (r *UserRepository) IncrementFollowCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("follow_count", gorm.Expr("follow_count + 1")).Error
}

// DecrementFollowCount 关注数 -1（不低于 0）
func (r *UserRepository) DecrementFollowCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ? AND follow_count > 0", id).
		UpdateColumn("follow_count", gorm.Expr("follow_count - 1")).Error
}

// IncrementFollowerCount 粉丝数 +1
func (r *UserRepository) IncrementFollowerCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		UpdateColumn("follower_count", gorm.Expr("follower_count + 1")).Error
}

// DecrementFollowerCount 粉丝数 -1（不低于 0）
func (r *UserRepository) DecrementFollowerCount(id int64) error {
	return r.db.Model(&model.User{}).Where("id = ? AND follower_count > 0", id).
		UpdateColumn("follower_count", gorm.Expr("follower_count - 1")).Error
}

// DeleteCascade 删除用户并显式级联：
// 先删用户发表的评论和用户帖子下的评论，再删用户的帖子，
// 再删双向关注关系，最后删用户本身。全部在一个事务里完成。
// 返回被删除帖子的 ID 列表，供调用方通知搜索索引。
func (r *UserRepository) DeleteCascade(id int64) ([]int64, error) {
	var postIDs []int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{}).Where("author_id = ?", id).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR author_id = ?", id, id).
			Delete(&model.Follow{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return postIDs, nil
}
