package handler

import (
	"errors"
	"net/http"

	"yatube-go/internal/api/middleware"
	"yatube-go/internal/api/response"
	"yatube-go/internal/service"
	"yatube-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FollowHandler struct {
	followService *service.FollowService
}

func NewFollowHandler(followService *service.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// Follow GET /:username/follow/（需登录）
// 幂等：重复关注、关注自己都静默成功，302 跳回作者主页
func (h *FollowHandler) Follow(c *gin.Context) {
	username := c.Param("username")
	currentUserID, _ := middleware.GetCurrentUserID(c)

	if err := h.followService.Follow(currentUserID, username); err != nil {
		handleFollowError(c, err)
		return
	}

	redirectToProfile(c, username)
}

// Unfollow GET /:username/unfollow/（需登录）
// 幂等：没关注过也静默成功
func (h *FollowHandler) Unfollow(c *gin.Context) {
	username := c.Param("username")
	currentUserID, _ := middleware.GetCurrentUserID(c)

	if err := h.followService.Unfollow(currentUserID, username); err != nil {
		handleFollowError(c, err)
		return
	}

	redirectToProfile(c, username)
}

func redirectToProfile(c *gin.Context, username string) {
	c.Redirect(http.StatusFound, "/"+username+"/")
}

func handleFollowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Follow operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
