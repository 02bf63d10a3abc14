package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	infraRedis "yatube-go/internal/infra/redis"
	"yatube-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pageCachePrefix = "pagecache:"

// cachedPage Redis 里保存的整页响应
type cachedPage struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// bodyCapture 包一层 ResponseWriter，顺手留一份响应体
type bodyCapture struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// PageCache 整页缓存中间件，只缓存 GET 的 200 响应
// Redis 不可用时直接放行，不影响正常请求
func PageCache(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || infraRedis.Client == nil {
			c.Next()
			return
		}

		key := pageCachePrefix + c.Request.RequestURI

		readCtx, cancelRead := context.WithTimeout(c.Request.Context(), time.Second)
		raw, err := infraRedis.Client.Get(readCtx, key).Bytes()
		cancelRead()
		if err == nil {
			var page cachedPage
			if json.Unmarshal(raw, &page) == nil {
				c.Header("Content-Type", page.ContentType)
				c.Data(page.Status, page.ContentType, page.Body)
				c.Abort()
				return
			}
		}

		capture := &bodyCapture{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = capture
		c.Next()

		if capture.Status() != http.StatusOK {
			return
		}

		page := cachedPage{
			Status:      capture.Status(),
			ContentType: capture.Header().Get("Content-Type"),
			Body:        capture.buf.Bytes(),
		}
		encoded, err := json.Marshal(&page)
		if err != nil {
			return
		}

		// 写缓存用独立的超时，不占用请求本身的时间预算，
		// 请求处理再慢响应也能落进缓存
		writeCtx, cancelWrite := context.WithTimeout(context.Background(), time.Second)
		defer cancelWrite()

		if err := infraRedis.Client.Set(writeCtx, key, encoded, ttl).Err(); err != nil {
			logger.Warn("Page cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}
