package repository

import (
	"strings"

	"yatube-go/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create 创建帖子
func (r *PostRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

// GetByID 根据 ID 查询帖子
func (r *PostRepository) GetByID(id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByIDWithRelations 根据 ID 查询帖子（含作者和群组）
func (r *PostRepository) GetByIDWithRelations(id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.Preload("Author").Preload("Group").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByIDAndAuthor 按帖子 ID + 作者 ID 查询（单帖页和编辑权限校验用）
func (r *PostRepository) GetByIDAndAuthor(postID, authorID int64) (*model.Post, error) {
	var post model.Post
	err := r.db.Preload("Author").Preload("Group").
		Where("id = ? AND author_id = ?", postID, authorID).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Update 更新帖子字段（传入 map，created_at 永不在其中）
func (r *PostRepository) Update(id int64, updates map[string]interface{}) (*model.Post, error) {
	result := r.db.Model(&model.Post{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByIDWithRelations(id)
}

// ListAll 全站帖子，按发布时间倒序分页
func (r *PostRepository) ListAll(skip, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Preload("Author").Preload("Group").
		Order("created_at DESC, id DESC").
		Offset(skip).Limit(limit).
		Find(&posts).Error
	return posts, err
}

// CountAll 全站帖子数
func (r *PostRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Post{}).Count(&count).Error
	return count, err
}

// ListByGroup 群组内帖子，按发布时间倒序分页
func (r *PostRepository) ListByGroup(groupID int64, skip, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Preload("Author").Preload("Group").
		Where("group_id = ?", groupID).
		Order("created_at DESC, id DESC").
		Offset(skip).Limit(limit).
		Find(&posts).Error
	return posts, err
}

// CountByGroup 群组内帖子数
func (r *PostRepository) CountByGroup(groupID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Post{}).Where("group_id = ?", groupID).Count(&count).Error
	return count, err
}

// ListByAuthor 作者的帖子，按发布时间倒序分页
// limit < 0 表示不分页，取全部（单帖页侧栏用）
func (r *PostRepository) ListByAuthor(authorID int64, skip, limit int) ([]model.Post, error) {
	query := r.db.Preload("Group").
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC")
	if limit >= 0 {
		query = query.Offset(skip).Limit(limit)
	}
	var posts []model.Post
	err := query.Find(&posts).Error
	return posts, err
}

// CountByAuthor 作者帖子数
func (r *PostRepository) CountByAuthor(authorID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// ListByFollowed 关注流：userID 关注的作者们的帖子，倒序分页
func (r *PostRepository) ListByFollowed(userID int64, skip, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Preload("Author").Preload("Group").
		Joins("JOIN follows ON follows.author_id = posts.author_id").
		Where("follows.user_id = ?", userID).
		Order("posts.created_at DESC, posts.id DESC").
		Offset(skip).Limit(limit).
		Find(&posts).Error
	return posts, err
}

// CountByFollowed 关注流帖子数
func (r *PostRepository) CountByFollowed(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Post{}).
		Joins("JOIN follows ON follows.author_id = posts.author_id").
		Where("follows.user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// GetByIDsWithRelations 批量查询帖子（搜索结果回表用）
func (r *PostRepository) GetByIDsWithRelations(ids []int64) ([]model.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []model.Post
	err := r.db.Preload("Author").Preload("Group").
		Where("id IN ?", ids).Find(&posts).Error
	return posts, err
}

// SearchByText 正文模糊匹配（ES 不可用时的降级路径）
func (r *PostRepository) SearchByText(q string, authorID *int64, skip, limit int) ([]model.Post, int64, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	query := r.db.Model(&model.Post{}).Where("LOWER(text) LIKE ?", pattern)
	if authorID != nil {
		query = query.Where("author_id = ?", *authorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := query.Preload("Author").Preload("Group").
		Order("created_at DESC, id DESC").
		Offset(skip).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
