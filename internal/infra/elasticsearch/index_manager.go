package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"yatube-go/internal/config"
	"yatube-go/pkg/logger"

	"go.uber.org/zap"
)

// GetPostsIndexMapping 返回 posts 索引的 mapping
func GetPostsIndexMapping() string {
	return `{
		"settings": {
			"number_of_shards": 1,
			"number_of_replicas": 0
		},
		"mappings": {
			"properties": {
				"id": {"type": "long"},
				"author_id": {"type": "long"},
				"author_name": {"type": "keyword"},
				"group_id": {"type": "long"},
				"group_slug": {"type": "keyword"},
				"text": {
					"type": "text",
					"fields": {"keyword": {"type": "keyword", "ignore_above": 256}}
				},
				"created_at": {"type": "date", "format": "strict_date_optional_time||epoch_millis"}
			}
		}
	}`
}

// EnsurePostsIndex 确保 posts 索引存在，不存在则创建
func EnsurePostsIndex(ctx context.Context) error {
	cfg := config.GetElasticsearch()
	indexName := cfg.Index["posts"]
	if indexName == "" {
		indexName = "posts"
	}

	exists, err := IndicesExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	if exists {
		logger.Info("Elasticsearch posts index already exists", zap.String("index", indexName))
		return nil
	}

	body := bytes.NewReader([]byte(GetPostsIndexMapping()))
	resp, err := IndicesCreate(ctx, indexName, body)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("create index failed: %s", resp.String())
	}

	logger.Info("Elasticsearch posts index created", zap.String("index", indexName))
	return nil
}

// InitIndexes 初始化所有索引（启动时调用）
func InitIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return EnsurePostsIndex(ctx)
}
