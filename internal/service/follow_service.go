package service

import (
	"errors"

	"yatube-go/internal/repository"

	"gorm.io/gorm"
)

type FollowService struct {
	followRepo *repository.FollowRepository
	userRepo   *repository.UserRepository
}

func NewFollowService(followRepo *repository.FollowRepository, userRepo *repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow 关注作者，幂等
// 关注自己直接忽略；重复关注不报错也不重复计数
func (s *FollowService) Follow(userID int64, username string) error {
	author, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if author.ID == userID {
		return nil
	}

	created, err := s.followRepo.CreateIfAbsent(userID, author.ID)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	if err := s.userRepo.IncrementFollowCount(userID); err != nil {
		return err
	}
	return s.userRepo.IncrementFollowerCount(author.ID)
}

// Unfollow 取消关注，幂等
// 没关注过时静默返回
func (s *FollowService) Unfollow(userID int64, username string) error {
	author, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	deleted, err := s.followRepo.Delete(userID, author.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return nil
	}

	if err := s.userRepo.DecrementFollowCount(userID); err != nil {
		return err
	}
	return s.userRepo.DecrementFollowerCount(author.ID)
}

// IsFollowing 当前用户是否已关注该作者
func (s *FollowService) IsFollowing(userID, authorID int64) (bool, error) {
	return s.followRepo.Exists(userID, authorID)
}
