package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"yatube-go/internal/config"
	"yatube-go/internal/infra/database"
	infraES "yatube-go/internal/infra/elasticsearch"
	infraKafka "yatube-go/internal/infra/kafka"
	"yatube-go/internal/repository"
	"yatube-go/internal/service"
	"yatube-go/pkg/logger"

	"go.uber.org/zap"
)

// 搜索索引同步 worker：消费帖子变更事件，把 Elasticsearch 的
// posts 索引维持在和数据库一致的状态。
func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Fatal("Failed to init elasticsearch", zap.Error(err))
	}
	defer infraES.Close()

	if err := infraES.InitIndexes(); err != nil {
		logger.Fatal("Failed to init elasticsearch indexes", zap.Error(err))
	}

	postRepo := repository.NewPostRepository(database.Get())
	searchService := service.NewSearchService(postRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	topic := cfg.Kafka.Topics["post_events"]
	groupID := "yatube-go-search-sync"

	logger.Info("Search sync worker started",
		zap.String("topic", topic),
		zap.String("group", groupID),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)

	infraKafka.StartPostEventConsumer(ctx, cfg.Kafka.Brokers, topic, groupID, searchService.HandlePostEvent)

	logger.Info("Search sync worker stopped")
}
