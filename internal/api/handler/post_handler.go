package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"yatube-go/internal/api/dto"
	"yatube-go/internal/api/middleware"
	"yatube-go/internal/api/response"
	"yatube-go/internal/config"
	"yatube-go/internal/service"
	"yatube-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostHandler struct {
	postService  *service.PostService
	groupService *service.GroupService
}

func NewPostHandler(postService *service.PostService, groupService *service.GroupService) *PostHandler {
	return &PostHandler{
		postService:  postService,
		groupService: groupService,
	}
}

// Index GET /（公开，整页缓存 20 秒）
func (h *PostHandler) Index(c *gin.Context) {
	page := parsePage(c)

	data, err := h.postService.Feed(page, config.GetFeed().PageSize)
	if err != nil {
		logger.Error("Get index feed failed", zap.Error(err))
		response.InternalError(c, "获取首页信息流失败")
		return
	}

	response.OK(c, "获取首页信息流成功", data)
}

// GroupFeed GET /group/:slug/（公开）
func (h *PostHandler) GroupFeed(c *gin.Context) {
	slug := c.Param("slug")
	page := parsePage(c)
	feedCfg := config.GetFeed()

	data, err := h.postService.GroupFeed(slug, page, feedCfg.PageSize, feedCfg.GroupWindow)
	if err != nil {
		handlePostError(c, err)
		return
	}

	response.OK(c, "获取群组信息流成功", data)
}

// NewPostForm GET /new/（需登录）
func (h *PostHandler) NewPostForm(c *gin.Context) {
	groups, err := h.groupService.List()
	if err != nil {
		logger.Error("List groups failed", zap.Error(err))
		response.InternalError(c, "获取群组列表失败")
		return
	}

	response.OK(c, "发布帖子表单", dto.PostFormView{Groups: groups})
}

// CreatePost POST /new/（需登录，multipart）
// 成功后 302 跳回首页
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req dto.PostForm
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	image, cleanup, ok := h.bindImage(c, &req)
	if !ok {
		return
	}
	defer cleanup()

	currentUserID, _ := middleware.GetCurrentUserID(c)

	if _, err := h.postService.Create(currentUserID, &req, image); err != nil {
		if errors.Is(err, service.ErrTextRequired) || errors.Is(err, service.ErrGroupNotFound) {
			h.formInvalid(c, &req, err)
			return
		}
		logger.Error("Create post failed", zap.Error(err))
		response.InternalError(c, "发布帖子失败")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// EditPostForm GET /:username/:post_id/edit/（需登录）
// 非作者访问时静默跳回单帖页
func (h *PostHandler) EditPostForm(c *gin.Context) {
	username := c.Param("username")
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	detail, err := h.postService.PostDetail(username, postID)
	if err != nil {
		handlePostError(c, err)
		return
	}

	currentUserID, _ := middleware.GetCurrentUserID(c)
	if currentUserID != detail.Post.AuthorID {
		redirectToPost(c, username, postID)
		return
	}

	groups, err := h.groupService.List()
	if err != nil {
		logger.Error("List groups failed", zap.Error(err))
		response.InternalError(c, "获取群组列表失败")
		return
	}

	response.OK(c, "编辑帖子表单", dto.PostFormView{
		Text:    detail.Post.Text,
		GroupID: detail.Post.GroupID,
		Image:   detail.Post.Image,
		Groups:  groups,
	})
}

// EditPost POST /:username/:post_id/edit/（需登录，multipart）
// 非作者提交时不报错，静默跳回单帖页；成功后也跳回单帖页
func (h *PostHandler) EditPost(c *gin.Context) {
	username := c.Param("username")
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	var req dto.PostForm
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	image, cleanup, imgOK := h.bindImage(c, &req)
	if !imgOK {
		return
	}
	defer cleanup()

	currentUserID, _ := middleware.GetCurrentUserID(c)

	if _, err := h.postService.Edit(postID, username, currentUserID, &req, image); err != nil {
		if errors.Is(err, service.ErrNotPostAuthor) {
			redirectToPost(c, username, postID)
			return
		}
		if errors.Is(err, service.ErrTextRequired) || errors.Is(err, service.ErrGroupNotFound) {
			h.formInvalid(c, &req, err)
			return
		}
		handlePostError(c, err)
		return
	}

	redirectToPost(c, username, postID)
}

// PostView GET /:username/:post_id/（公开）
func (h *PostHandler) PostView(c *gin.Context) {
	username := c.Param("username")
	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	detail, err := h.postService.PostDetail(username, postID)
	if err != nil {
		handlePostError(c, err)
		return
	}

	response.OK(c, "获取帖子详情成功", detail)
}

// FollowIndex GET /follow/（需登录）
func (h *PostHandler) FollowIndex(c *gin.Context) {
	currentUserID, _ := middleware.GetCurrentUserID(c)
	page := parsePage(c)

	data, err := h.postService.FollowedFeed(currentUserID, page, config.GetFeed().PageSize)
	if err != nil {
		logger.Error("Get followed feed failed", zap.Error(err))
		response.InternalError(c, "获取关注流失败")
		return
	}

	response.OK(c, "获取关注流成功", data)
}

// bindImage 取出可选的图片文件并做格式校验
// 返回的 cleanup 负责关掉已打开的文件；校验失败时已写好响应
func (h *PostHandler) bindImage(c *gin.Context, req *dto.PostForm) (*service.ImageUpload, func(), bool) {
	noop := func() {}

	file, err := c.FormFile("image")
	if err != nil {
		// 没传图片是正常情况
		return nil, noop, true
	}

	allowedFormats := map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true,
		".gif": true, ".webp": true,
	}

	ext := ""
	if idx := strings.LastIndex(file.Filename, "."); idx >= 0 {
		ext = strings.ToLower(file.Filename[idx:])
	}

	if !allowedFormats[ext] {
		h.formInvalid(c, req, errors.New("不支持的图片格式，支持: jpg, jpeg, png, gif, webp"))
		return nil, noop, false
	}

	maxSize := int64(10 * 1024 * 1024) // 10MB
	if file.Size > maxSize || file.Size == 0 {
		h.formInvalid(c, req, errors.New("图片大小无效（不能为空，最大 10MB）"))
		return nil, noop, false
	}

	f, err := file.Open()
	if err != nil {
		response.InternalError(c, "打开上传文件失败")
		return nil, noop, false
	}

	return &service.ImageUpload{
		Filename:    file.Filename,
		Size:        file.Size,
		ContentType: contentTypeOf(file, ext),
		Reader:      f,
	}, func() { f.Close() }, true
}

// formInvalid 表单校验失败：400 + 回显数据和字段错误
func (h *PostHandler) formInvalid(c *gin.Context, req *dto.PostForm, err error) {
	groups, listErr := h.groupService.List()
	if listErr != nil {
		groups = nil
	}

	field := "text"
	if errors.Is(err, service.ErrGroupNotFound) {
		field = "group"
	} else if !errors.Is(err, service.ErrTextRequired) {
		field = "image"
	}

	c.JSON(http.StatusBadRequest, response.Response{
		Success: false,
		Message: "表单校验失败",
		Data: dto.PostFormView{
			Text:    req.Text,
			GroupID: req.GroupID,
			Groups:  groups,
			Errors:  map[string]string{field: err.Error()},
		},
	})
}

func contentTypeOf(file *multipart.FileHeader, ext string) string {
	if ct := file.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	switch ext {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func redirectToPost(c *gin.Context, username string, postID int64) {
	c.Redirect(http.StatusFound, fmt.Sprintf("/%s/%d/", username, postID))
}

// parsePage 解析 page 参数，非法值收敛到第 1 页
func parsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	return page
}

func parsePostID(c *gin.Context) (int64, bool) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "无效的帖子ID")
		return 0, false
	}
	return postID, true
}

func handlePostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Post operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}
