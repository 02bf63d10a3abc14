package repository

import (
	"yatube-go/internal/model"

	"gorm.io/gorm"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create 创建群组
func (r *GroupRepository) Create(group *model.Group) error {
	return r.db.Create(group).Error
}

// GetByID 根据 ID 查询群组
func (r *GroupRepository) GetByID(id int64) (*model.Group, error) {
	var group model.Group
	err := r.db.First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetBySlug 根据短链查询群组
func (r *GroupRepository) GetBySlug(slug string) (*model.Group, error) {
	var group model.Group
	err := r.db.Where("slug = ?", slug).First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// ExistsBySlug 检查短链是否已被占用
func (r *GroupRepository) ExistsBySlug(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Group{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List 查询全部群组
func (r *GroupRepository) List() ([]model.Group, error) {
	var groups []model.Group
	err := r.db.Order("title ASC").Find(&groups).Error
	return groups, err
}

// Delete 删除群组
// 先把挂在该群组下的帖子 group_id 置空（帖子保留），再删群组行，
// 两步在一个事务里完成，不依赖数据库外键的隐式行为。
func (r *GroupRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Post{}).Where("group_id = ?", id).
			Update("group_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Group{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
