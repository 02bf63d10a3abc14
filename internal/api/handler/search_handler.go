package handler

import (
	"yatube-go/internal/api/dto"
	"yatube-go/internal/api/response"
	"yatube-go/internal/service"
	"yatube-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchPosts GET /search/（公开）
// 按正文全文检索，q 为空时按时间倒序返回
func (h *SearchHandler) SearchPosts(c *gin.Context) {
	var req dto.SearchPostRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	data, err := h.searchService.SearchPosts(&req)
	if err != nil {
		logger.Error("Search posts failed", zap.Error(err), zap.String("q", req.Q))
		response.InternalError(c, "搜索失败，请稍后重试")
		return
	}

	response.OK(c, "搜索成功", data)
}
