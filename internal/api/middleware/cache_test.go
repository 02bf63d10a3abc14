package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	infraRedis "yatube-go/internal/infra/redis"
	"yatube-go/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", "console", "stdout", ""); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newCacheTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	infraRedis.Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		infraRedis.Client = nil
	})
	return mr
}

func newCachedRouter(hits *int) *gin.Engine {
	r := gin.New()
	r.GET("/", PageCache(time.Minute), func(c *gin.Context) {
		*hits++
		c.String(http.StatusOK, "page body")
	})
	return r
}

func TestPageCacheServesSecondRequestFromCache(t *testing.T) {
	newCacheTestRedis(t)

	hits := 0
	r := newCachedRouter(&hits)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "page body", w.Body.String())
	}

	// 第二次命中缓存，handler 不再执行
	assert.Equal(t, 1, hits)
}

// 写缓存的超时独立于请求生命周期：请求上下文已经结束的慢请求，
// 产出的响应也要能落进缓存
func TestPageCacheWritesAfterRequestContextDone(t *testing.T) {
	mr := newCacheTestRedis(t)

	hits := 0
	r := newCachedRouter(&hits)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	raw, err := mr.Get("pagecache:/")
	require.NoError(t, err)

	var page cachedPage
	require.NoError(t, json.Unmarshal([]byte(raw), &page))
	assert.Equal(t, http.StatusOK, page.Status)
	assert.Equal(t, "page body", string(page.Body))
}

func TestPageCachePassesThroughWithoutRedis(t *testing.T) {
	infraRedis.Client = nil

	hits := 0
	r := newCachedRouter(&hits)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 2, hits)
}

func TestPageCacheSkipsNonOK(t *testing.T) {
	mr := newCacheTestRedis(t)

	r := gin.New()
	r.GET("/missing", PageCache(time.Minute), func(c *gin.Context) {
		c.String(http.StatusNotFound, "nope")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	_, err := mr.Get("pagecache:/missing")
	assert.Error(t, err)
}
