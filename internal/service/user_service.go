package service

import (
	"errors"

	"yatube-go/internal/api/dto"
	infraKafka "yatube-go/internal/infra/kafka"
	"yatube-go/internal/repository"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetByUsername 按用户名取公开信息
func (s *UserService) GetByUsername(username string) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserInfo(user), nil
}

// GetRole 取用户角色，供管理接口鉴权
func (s *UserService) GetRole(userID int64) (string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return user.UserRole, nil
}

// Delete 删除用户，连带清掉其帖子、评论和关注关系
// 每篇被删帖子都会广播删除事件，让搜索索引同步下线
func (s *UserService) Delete(userID int64) error {
	postIDs, err := s.userRepo.DeleteCascade(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	for _, postID := range postIDs {
		publishPostEvent(infraKafka.PostEventDeleted, postID, userID)
	}
	return nil
}
