package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"yatube-go/internal/api/dto"
	"yatube-go/internal/config"
	infraES "yatube-go/internal/infra/elasticsearch"
	infraKafka "yatube-go/internal/infra/kafka"
	"yatube-go/internal/model"
	"yatube-go/internal/repository"
	"yatube-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SearchService struct {
	postRepo *repository.PostRepository
}

func NewSearchService(postRepo *repository.PostRepository) *SearchService {
	return &SearchService{postRepo: postRepo}
}

// SearchPosts 搜索帖子（ES 优先，失败则降级到 DB）
func (s *SearchService) SearchPosts(req *dto.SearchPostRequest) (*dto.SearchPostData, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = config.GetFeed().PageSize
	}

	data, err := s.searchFromES(req)
	if err != nil {
		logger.Warn("ES search failed, fallback to DB", zap.Error(err))
		return s.searchFromDB(req)
	}
	return data, nil
}

func (s *SearchService) searchFromES(req *dto.SearchPostRequest) (*dto.SearchPostData, error) {
	indexName := postsIndexName()

	query := s.buildESQuery(req)
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := infraES.Search(ctx, indexName, bytes.NewReader(queryJSON))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("ES search error: %s", resp.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
				Highlight map[string][]string `json:"highlight"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&esResp); err != nil {
		return nil, err
	}

	postIDs := make([]int64, 0, len(esResp.Hits.Hits))
	highlights := make(map[int64]map[string][]string)
	for _, h := range esResp.Hits.Hits {
		postIDs = append(postIDs, h.Source.ID)
		if len(h.Highlight) > 0 {
			highlights[h.Source.ID] = h.Highlight
		}
	}

	total := esResp.Hits.Total.Value
	if len(postIDs) == 0 {
		return s.buildSearchData(nil, highlights, total, req.Page, req.PageSize), nil
	}

	posts, err := s.postRepo.GetByIDsWithRelations(postIDs)
	if err != nil {
		return nil, err
	}

	postMap := make(map[int64]*model.Post)
	for i := range posts {
		postMap[posts[i].ID] = &posts[i]
	}

	// 保持 ES 的相关度排序
	ordered := make([]model.Post, 0, len(postIDs))
	for _, id := range postIDs {
		if p, ok := postMap[id]; ok {
			ordered = append(ordered, *p)
		}
	}

	return s.buildSearchData(ordered, highlights, total, req.Page, req.PageSize), nil
}

func (s *SearchService) buildESQuery(req *dto.SearchPostRequest) map[string]interface{} {
	boolQ := map[string]interface{}{
		"filter": []interface{}{},
		"must":   []interface{}{},
	}

	if strings.TrimSpace(req.Q) != "" {
		q := strings.TrimSpace(req.Q)
		boolQ["must"] = append(boolQ["must"].([]interface{}),
			map[string]interface{}{
				"match": map[string]interface{}{
					"text": map[string]interface{}{
						"query":    q,
						"operator": "or",
					},
				},
			},
		)
	}

	if req.AuthorID != nil {
		boolQ["filter"] = append(boolQ["filter"].([]interface{}),
			map[string]interface{}{"term": map[string]interface{}{"author_id": *req.AuthorID}})
	}

	sortConfig := []interface{}{
		map[string]interface{}{"_score": map[string]string{"order": "desc"}},
		map[string]interface{}{"created_at": map[string]string{"order": "desc"}},
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQ,
		},
		"_source": []string{"id"},
		"from":    (req.Page - 1) * req.PageSize,
		"size":    req.PageSize,
		"sort":    sortConfig,
	}

	if strings.TrimSpace(req.Q) != "" {
		query["highlight"] = map[string]interface{}{
			"fields": map[string]interface{}{
				"text": map[string]interface{}{},
			},
			"pre_tags":  []string{"<em>"},
			"post_tags": []string{"</em>"},
		}
	}

	return query
}

func (s *SearchService) searchFromDB(req *dto.SearchPostRequest) (*dto.SearchPostData, error) {
	skip := (req.Page - 1) * req.PageSize

	q := strings.TrimSpace(req.Q)
	posts, total, err := s.postRepo.SearchByText(q, req.AuthorID, skip, req.PageSize)
	if err != nil {
		return nil, err
	}

	return s.buildSearchData(posts, nil, total, req.Page, req.PageSize), nil
}

func (s *SearchService) buildSearchData(posts []model.Post, highlights map[int64]map[string][]string, total int64, page, pageSize int) *dto.SearchPostData {
	items := make([]dto.SearchPostInfo, 0, len(posts))
	for i := range posts {
		items = append(items, dto.SearchPostInfo{
			PostInfo:  toPostInfo(&posts[i]),
			Highlight: highlights[posts[i].ID],
		})
	}

	return &dto.SearchPostData{
		Posts:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}
}

// postDocument ES 里的帖子文档
type postDocument struct {
	ID         int64     `json:"id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	GroupID    *int64    `json:"group_id"`
	GroupSlug  *string   `json:"group_slug"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// SyncPostToES 同步单篇帖子到 ES
func (s *SearchService) SyncPostToES(postID int64) error {
	post, err := s.postRepo.GetByIDWithRelations(postID)
	if err != nil {
		// 事件消费时帖子可能已被删掉，当作删除处理
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.DeletePostFromES(postID)
		}
		return err
	}

	doc := postDocument{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		GroupID:   post.GroupID,
		Text:      post.Text,
		CreatedAt: post.CreatedAt,
	}
	if post.Author.ID != 0 {
		doc.AuthorName = post.Author.UserName
	}
	if post.Group != nil && post.Group.ID != 0 {
		doc.GroupSlug = &post.Group.Slug
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := infraES.Index(ctx, postsIndexName(), strconv.FormatInt(post.ID, 10), bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("ES index error: %s", resp.String())
	}
	return nil
}

// DeletePostFromES 从 ES 删除帖子文档，文档不存在不算错
func (s *SearchService) DeletePostFromES(postID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := infraES.Delete(ctx, postsIndexName(), strconv.FormatInt(postID, 10))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() && resp.StatusCode != 404 {
		return fmt.Errorf("ES delete error: %s", resp.String())
	}
	return nil
}

// HandlePostEvent 处理帖子变更事件（worker 消费 Kafka 时调用）
func (s *SearchService) HandlePostEvent(event *infraKafka.PostEvent) error {
	switch event.Type {
	case infraKafka.PostEventCreated, infraKafka.PostEventUpdated:
		return s.SyncPostToES(event.PostID)
	case infraKafka.PostEventDeleted:
		return s.DeletePostFromES(event.PostID)
	default:
		logger.Warn("Unknown post event type", zap.String("type", event.Type))
		return nil
	}
}

func postsIndexName() string {
	cfg := config.GetElasticsearch()
	indexName := cfg.Index["posts"]
	if indexName == "" {
		indexName = "posts"
	}
	return indexName
}
