package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"yatube-go/internal/api/dto"
	"yatube-go/internal/config"
	infraKafka "yatube-go/internal/infra/kafka"
	infraMinio "yatube-go/internal/infra/minio"
	"yatube-go/internal/model"
	"yatube-go/internal/repository"
	"yatube-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound  = errors.New("帖子不存在")
	ErrNotPostAuthor = errors.New("只有作者本人可以编辑帖子")
	ErrTextRequired  = errors.New("正文不能为空")
)

// ImageUpload 待上传的帖子图片
type ImageUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Reader      io.Reader
}

type PostService struct {
	postRepo    *repository.PostRepository
	userRepo    *repository.UserRepository
	groupRepo   *repository.GroupRepository
	commentRepo *repository.CommentRepository
	followRepo  *repository.FollowRepository
}

func NewPostService(
	postRepo *repository.PostRepository,
	userRepo *repository.UserRepository,
	groupRepo *repository.GroupRepository,
	commentRepo *repository.CommentRepository,
	followRepo *repository.FollowRepository,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		userRepo:    userRepo,
		groupRepo:   groupRepo,
		commentRepo: commentRepo,
		followRepo:  followRepo,
	}
}

// Feed 全站信息流，按发布时间倒序分页
// 页码越界收敛到最近的合法页，不报错
func (s *PostService) Feed(page, pageSize int) (*dto.PostListData, error) {
	total, err := s.postRepo.CountAll()
	if err != nil {
		return nil, err
	}

	page = clampPage(page, total, pageSize)
	skip := (page - 1) * pageSize

	posts, err := s.postRepo.ListAll(skip, pageSize)
	if err != nil {
		return nil, err
	}

	return buildPostListData(posts, total, page, pageSize), nil
}

// GroupFeed 群组信息流
// 先把候选集截到 window 条再分页，与首页共用分页收敛规则
func (s *PostService) GroupFeed(slug string, page, pageSize, window int) (*dto.GroupFeedData, error) {
	group, err := s.groupRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	total, err := s.postRepo.CountByGroup(group.ID)
	if err != nil {
		return nil, err
	}
	if window > 0 && total > int64(window) {
		total = int64(window)
	}

	page = clampPage(page, total, pageSize)
	skip := (page - 1) * pageSize

	limit := pageSize
	if remain := total - int64(skip); remain < int64(limit) {
		limit = int(remain)
	}
	if limit < 0 {
		limit = 0
	}

	var posts []model.Post
	if limit > 0 {
		posts, err = s.postRepo.ListByGroup(group.ID, skip, limit)
		if err != nil {
			return nil, err
		}
	}

	return &dto.GroupFeedData{
		Group: toGroupInfo(group),
		Posts: *buildPostListData(posts, total, page, pageSize),
	}, nil
}

// Profile 作者主页：作者帖子分页 + 关注关系
// currentUserID <= 0 视为匿名访问，Following 恒为 false
func (s *PostService) Profile(username string, currentUserID int64, page, pageSize int) (*dto.ProfileData, error) {
	author, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	total, err := s.postRepo.CountByAuthor(author.ID)
	if err != nil {
		return nil, err
	}

	page = clampPage(page, total, pageSize)
	skip := (page - 1) * pageSize

	posts, err := s.postRepo.ListByAuthor(author.ID, skip, pageSize)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Author = *author
	}

	following := false
	if currentUserID > 0 {
		following, err = s.followRepo.Exists(currentUserID, author.ID)
		if err != nil {
			return nil, err
		}
	}

	follows, err := s.listUserBriefs(s.followRepo.GetFollowingIDs, author.ID)
	if err != nil {
		return nil, err
	}
	followers, err := s.listUserBriefs(s.followRepo.GetFollowerIDs, author.ID)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileData{
		Author:    *toUserInfo(author),
		Following: following,
		Follows:   follows,
		Followers: followers,
		Posts:     *buildPostListData(posts, total, page, pageSize),
	}, nil
}

// PostDetail 单帖页：帖子 + 评论（正序）+ 作者全部帖子 + 空评论表单
// 帖子必须属于路径里的作者，否则按不存在处理
func (s *PostService) PostDetail(username string, postID int64) (*dto.PostDetailData, error) {
	author, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	post, err := s.postRepo.GetByIDAndAuthor(postID, author.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(post.ID)
	if err != nil {
		return nil, err
	}

	authorPosts, err := s.postRepo.ListByAuthor(author.ID, 0, -1)
	if err != nil {
		return nil, err
	}
	for i := range authorPosts {
		authorPosts[i].Author = *author
	}

	commentInfos := make([]dto.CommentInfo, 0, len(comments))
	for i := range comments {
		commentInfos = append(commentInfos, toCommentInfo(&comments[i]))
	}

	postInfos := make([]dto.PostInfo, 0, len(authorPosts))
	for i := range authorPosts {
		postInfos = append(postInfos, toPostInfo(&authorPosts[i]))
	}

	return &dto.PostDetailData{
		Post:        toPostInfo(post),
		Comments:    commentInfos,
		AuthorPosts: postInfos,
		Form:        dto.CommentFormView{},
	}, nil
}

// Create 发布帖子
// 正文必填；群组可选但必须存在；图片可选，先传 MinIO 再落库
func (s *PostService) Create(authorID int64, req *dto.PostForm, image *ImageUpload) (*dto.PostInfo, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrTextRequired
	}

	if req.GroupID != nil {
		if _, err := s.groupRepo.GetByID(*req.GroupID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGroupNotFound
			}
			return nil, err
		}
	}

	var imagePath *string
	if image != nil {
		path, err := s.uploadImage(image)
		if err != nil {
			return nil, err
		}
		imagePath = &path
	}

	post := &model.Post{
		AuthorID: authorID,
		GroupID:  req.GroupID,
		Text:     req.Text,
		Image:    imagePath,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}

	publishPostEvent(infraKafka.PostEventCreated, post.ID, post.AuthorID)

	created, err := s.postRepo.GetByIDWithRelations(post.ID)
	if err != nil {
		return nil, err
	}
	info := toPostInfo(created)
	return &info, nil
}

// Edit 编辑帖子
// 帖子按 (id, 路径作者名) 解析；登录用户与路径作者不一致时返回
// ErrNotPostAuthor，由上层静默跳回单帖页。正文/群组/图片可改，
// 群组可以清空，id 和发布时间保持不变。
func (s *PostService) Edit(postID int64, pathUsername string, currentUserID int64, req *dto.PostForm, image *ImageUpload) (*dto.PostInfo, error) {
	pathAuthor, err := s.userRepo.GetByUsername(pathUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	post, err := s.postRepo.GetByIDAndAuthor(postID, pathAuthor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if currentUserID != pathAuthor.ID {
		return nil, ErrNotPostAuthor
	}

	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrTextRequired
	}

	if req.GroupID != nil {
		if _, err := s.groupRepo.GetByID(*req.GroupID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGroupNotFound
			}
			return nil, err
		}
	}

	updates := map[string]interface{}{
		"text":     req.Text,
		"group_id": req.GroupID,
	}

	if image != nil {
		path, err := s.uploadImage(image)
		if err != nil {
			return nil, err
		}
		updates["image"] = path
	}

	updated, err := s.postRepo.Update(post.ID, updates)
	if err != nil {
		return nil, err
	}

	publishPostEvent(infraKafka.PostEventUpdated, post.ID, post.AuthorID)

	info := toPostInfo(updated)
	return &info, nil
}

// FollowedFeed 关注流：当前用户关注的作者们的帖子
// 没有关注任何人时返回空页，不报错
func (s *PostService) FollowedFeed(userID int64, page, pageSize int) (*dto.PostListData, error) {
	total, err := s.postRepo.CountByFollowed(userID)
	if err != nil {
		return nil, err
	}

	page = clampPage(page, total, pageSize)
	skip := (page - 1) * pageSize

	posts, err := s.postRepo.ListByFollowed(userID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	return buildPostListData(posts, total, page, pageSize), nil
}

// mediaObjectName 图片在媒体 Bucket 里的对象名，也是落库的相对路径
// 如 posts/small.gif
func mediaObjectName(filename string) string {
	return config.GetFeed().MediaPrefix + "/" + filename
}

// uploadImage 把图片存进媒体 Bucket，返回相对路径
func (s *PostService) uploadImage(image *ImageUpload) (string, error) {
	objectName := mediaObjectName(image.Filename)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	bucket := config.GetMinIO().Bucket
	if _, err := infraMinio.UploadFile(ctx, bucket, objectName, image.Reader, image.Size, image.ContentType); err != nil {
		return "", err
	}
	return objectName, nil
}

// publishPostEvent 尽力通知帖子变更事件，失败只记日志不影响主流程
func publishPostEvent(eventType string, postID, authorID int64) {
	topic := config.GetKafka().Topics["post_events"]
	if topic == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := &infraKafka.PostEvent{
		Type:       eventType,
		PostID:     postID,
		AuthorID:   authorID,
		OccurredAt: time.Now().Unix(),
	}
	if err := infraKafka.SendPostEvent(ctx, topic, event); err != nil {
		logger.Warn("Publish post event failed",
			zap.Int64("post_id", postID),
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}

func (s *PostService) listUserBriefs(fetch func(int64) ([]int64, error), id int64) ([]dto.UserBrief, error) {
	ids, err := fetch(id)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}

	userMap := make(map[int64]*model.User, len(users))
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	// 按原始顺序输出
	briefs := make([]dto.UserBrief, 0, len(ids))
	for _, uid := range ids {
		if u, ok := userMap[uid]; ok {
			briefs = append(briefs, toUserBrief(u))
		}
	}
	return briefs, nil
}

func buildPostListData(posts []model.Post, total int64, page, pageSize int) *dto.PostListData {
	items := make([]dto.PostInfo, 0, len(posts))
	for i := range posts {
		items = append(items, toPostInfo(&posts[i]))
	}

	return &dto.PostListData{
		Posts:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}
}

func toPostInfo(post *model.Post) dto.PostInfo {
	info := dto.PostInfo{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		GroupID:   post.GroupID,
		Text:      post.Text,
		Image:     post.Image,
		CreatedAt: post.CreatedAt,
	}
	if post.Author.ID != 0 {
		info.AuthorName = post.Author.UserName
	}
	if post.Group != nil && post.Group.ID != 0 {
		info.GroupSlug = &post.Group.Slug
	}
	if post.Image != nil {
		cfg := config.GetMinIO()
		url := infraMinio.GetPublicURL(cfg.Endpoint, cfg.UseSSL, cfg.Bucket, *post.Image)
		info.ImageURL = &url
	}
	return info
}

func toCommentInfo(c *model.Comment) dto.CommentInfo {
	info := dto.CommentInfo{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
	if c.User.ID != 0 {
		info.Username = c.User.UserName
	}
	return info
}
