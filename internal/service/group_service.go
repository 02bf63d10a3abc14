package service

import (
	"errors"

	"yatube-go/internal/api/dto"
	"yatube-go/internal/model"
	"yatube-go/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrGroupNotFound   = errors.New("群组不存在")
	ErrGroupSlugExists = errors.New("群组短链已被占用")
)

type GroupService struct {
	groupRepo *repository.GroupRepository
}

func NewGroupService(groupRepo *repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// Create 创建群组
func (s *GroupService) Create(req *dto.GroupCreateRequest) (*dto.GroupInfo, error) {
	exists, err := s.groupRepo.ExistsBySlug(req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrGroupSlugExists
	}

	group := &model.Group{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}

	info := toGroupInfo(group)
	return &info, nil
}

// Delete 删除群组，挂在组下的帖子保留、仅清掉群组引用
func (s *GroupService) Delete(slug string) error {
	group, err := s.groupRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}

	if err := s.groupRepo.Delete(group.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	return nil
}

// List 查询全部群组（发布表单下拉框用）
func (s *GroupService) List() ([]dto.GroupInfo, error) {
	groups, err := s.groupRepo.List()
	if err != nil {
		return nil, err
	}

	infos := make([]dto.GroupInfo, 0, len(groups))
	for i := range groups {
		infos = append(infos, toGroupInfo(&groups[i]))
	}
	return infos, nil
}

func toGroupInfo(group *model.Group) dto.GroupInfo {
	return dto.GroupInfo{
		ID:          group.ID,
		Title:       group.Title,
		Slug:        group.Slug,
		Description: group.Description,
	}
}
