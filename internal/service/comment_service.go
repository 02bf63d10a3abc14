package service

import (
	"errors"
	"strings"

	"yatube-go/internal/api/dto"
	"yatube-go/internal/model"
	"yatube-go/internal/repository"

	"gorm.io/gorm"
)

type CommentService struct {
	commentRepo *repository.CommentRepository
	postRepo    *repository.PostRepository
	userRepo    *repository.UserRepository
}

func NewCommentService(
	commentRepo *repository.CommentRepository,
	postRepo *repository.PostRepository,
	userRepo *repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// Add 给帖子加评论
// 帖子只按 id 解析，路径里的作者名不参与校验；
// 返回里带上帖子真实作者的用户名，供上层跳回单帖页。
func (s *CommentService) Add(userID, postID int64, req *dto.CommentForm) (*dto.CommentCreated, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrTextRequired
	}

	post, err := s.postRepo.GetByIDWithRelations(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comment := &model.Comment{
		UserID: userID,
		PostID: &post.ID,
		Text:   req.Text,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err == nil {
		comment.User = *user
	}

	return &dto.CommentCreated{
		Comment:        toCommentInfo(comment),
		PostID:         post.ID,
		AuthorUsername: post.Author.UserName,
	}, nil
}
