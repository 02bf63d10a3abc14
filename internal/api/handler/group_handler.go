package handler

import (
	"errors"

	"yatube-go/internal/api/dto"
	"yatube-go/internal/api/response"
	"yatube-go/internal/service"
	"yatube-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GroupHandler struct {
	groupService *service.GroupService
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// ListGroups GET /groups/（公开）
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groupService.List()
	if err != nil {
		logger.Error("List groups failed", zap.Error(err))
		response.InternalError(c, "获取群组列表失败")
		return
	}

	response.OK(c, "获取群组列表成功", groups)
}

// CreateGroup POST /admin/groups（需管理员）
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req dto.GroupCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	info, err := h.groupService.Create(&req)
	if err != nil {
		if errors.Is(err, service.ErrGroupSlugExists) {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Error("Create group failed", zap.Error(err))
		response.InternalError(c, "创建群组失败")
		return
	}

	response.Created(c, "创建群组成功", info)
}

// DeleteGroup DELETE /admin/groups/:slug（需管理员）
// 群组下的帖子保留，只是解绑群组
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	slug := c.Param("slug")

	if err := h.groupService.Delete(slug); err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		logger.Error("Delete group failed", zap.Error(err), zap.String("slug", slug))
		response.InternalError(c, "删除群组失败")
		return
	}

	response.OK(c, "删除群组成功", nil)
}
