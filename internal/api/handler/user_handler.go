package handler

import (
	"errors"
	"strconv"

	"yatube-go/internal/api/middleware"
	"yatube-go/internal/api/response"
	"yatube-go/internal/config"
	"yatube-go/internal/service"
	"yatube-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
	postService *service.PostService
}

func NewUserHandler(userService *service.UserService, postService *service.PostService) *UserHandler {
	return &UserHandler{
		userService: userService,
		postService: postService,
	}
}

// Profile GET /:username/（公开）
// 登录访问时 Following 反映当前用户是否已关注该作者
func (h *UserHandler) Profile(c *gin.Context) {
	username := c.Param("username")
	page := parsePage(c)

	currentUserID, _ := middleware.GetCurrentUserID(c)

	data, err := h.postService.Profile(username, currentUserID, page, config.GetFeed().PageSize)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		logger.Error("Get profile failed", zap.Error(err), zap.String("username", username))
		response.InternalError(c, "获取作者主页失败")
		return
	}

	response.OK(c, "获取作者主页成功", data)
}

// DeleteUser DELETE /admin/users/:id（需管理员）
// 连带删除其帖子、评论和关注关系
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	if err := h.userService.Delete(userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		logger.Error("Delete user failed", zap.Error(err), zap.Int64("user_id", userID))
		response.InternalError(c, "删除用户失败")
		return
	}

	response.OK(c, "删除用户成功", nil)
}
