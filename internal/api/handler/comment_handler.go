package handler

import (
	"errors"
	"net/http"

	"yatube-go/internal/api/dto"
	"yatube-go/internal/api/middleware"
	"yatube-go/internal/api/response"
	"yatube-go/internal/service"
	"yatube-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// AddComment POST /:username/:post_id/comment/（需登录）
// 帖子按 id 解析，成功后 302 跳回帖子真实作者的单帖页
func (h *CommentHandler) AddComment(c *gin.Context) {
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	var req dto.CommentForm
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)

	created, err := h.commentService.Add(currentUserID, postID, &req)
	if err != nil {
		if errors.Is(err, service.ErrTextRequired) {
			c.JSON(http.StatusBadRequest, response.Response{
				Success: false,
				Message: "表单校验失败",
				Data: dto.CommentFormView{
					Text:   req.Text,
					Errors: map[string]string{"text": err.Error()},
				},
			})
			return
		}
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		logger.Error("Add comment failed", zap.Error(err))
		response.InternalError(c, "发表评论失败")
		return
	}

	redirectToPost(c, created.AuthorUsername, created.PostID)
}
