package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"yatube-go/internal/api/handler"
	"yatube-go/internal/api/middleware"
	"yatube-go/internal/api/router"
	"yatube-go/internal/config"
	"yatube-go/internal/model"
	"yatube-go/internal/repository"
	"yatube-go/internal/service"
	"yatube-go/pkg/logger"
	"yatube-go/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const testConfigYAML = `
app:
  name: yatube-go-test
  version: "test"
  mode: test
  port: 0
jwt:
  secret: test-secret-key-for-unit-tests
  expire_hours: 72
feed:
  page_size: 10
  group_window: 10
  cache_ttl: 20
  media_prefix: posts
minio:
  endpoint: localhost:9000
  bucket: yatube-media
log:
  level: error
  format: console
  output: stdout
`

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "yatube-handler-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(testConfigYAML), 0o644); err != nil {
		panic(err)
	}
	if _, err := config.Load(path); err != nil {
		panic(err)
	}
	if err := logger.Init("error", "console", "stdout", ""); err != nil {
		panic(err)
	}

	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testApp struct {
	router *gin.Engine
	db     *gorm.DB

	userRepo *repository.UserRepository
	postRepo *repository.PostRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Post{},
		&model.Comment{},
		&model.Follow{},
	))

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	groupService := service.NewGroupService(groupRepo)
	postService := service.NewPostService(postRepo, userRepo, groupRepo, commentRepo, followRepo)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo)
	followService := service.NewFollowService(followRepo, userRepo)
	searchService := service.NewSearchService(postRepo)

	r := gin.New()
	router.Setup(
		r,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService, postService),
		handler.NewPostHandler(postService, groupService),
		handler.NewCommentHandler(commentService),
		handler.NewFollowHandler(followService),
		handler.NewGroupHandler(groupService),
		handler.NewSearchHandler(searchService),
		middleware.AdminRequired(userService.GetRole),
	)

	return &testApp{
		router:   r,
		db:       db,
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

func (a *testApp) createUser(t *testing.T, username, role string) *model.User {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	user := &model.User{UserName: username, Password: hash, UserRole: role}
	require.NoError(t, a.userRepo.Create(user))
	return user
}

func (a *testApp) authCookie(t *testing.T, userID int64) *http.Cookie {
	t.Helper()

	token, err := utils.GenerateToken(userID)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.AuthCookieName, Value: token}
}

func (a *testApp) do(t *testing.T, method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestIndexPage(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "leo", "user")
	require.NoError(t, app.postRepo.Create(&model.Post{AuthorID: author.ID, Text: "Тестовый текст"}))

	w := app.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Тестовый текст")
}

func TestUnauthenticatedCommentRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "leo", "user")
	post := &model.Post{AuthorID: author.ID, Text: "Тестовый текст"}
	require.NoError(t, app.postRepo.Create(post))

	path := "/leo/" + strconv.FormatInt(post.ID, 10) + "/comment/"
	w := app.do(t, http.MethodPost, path, url.Values{"text": {"коммент"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next="+url.QueryEscape(path), w.Header().Get("Location"))

	var count int64
	require.NoError(t, app.db.Model(&model.Comment{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCommentRedirectsToPostAuthor(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "leo", "user")
	commenter := app.createUser(t, "mike", "user")
	post := &model.Post{AuthorID: author.ID, Text: "Тестовый текст"}
	require.NoError(t, app.postRepo.Create(post))

	postID := strconv.FormatInt(post.ID, 10)

	// 路径里的用户名写错也按帖子真实作者回跳
	w := app.do(t, http.MethodPost, "/wrongname/"+postID+"/comment/",
		url.Values{"text": {"коммент"}}, app.authCookie(t, commenter.ID))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/leo/"+postID+"/", w.Header().Get("Location"))

	var count int64
	require.NoError(t, app.db.Model(&model.Comment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNonAuthorEditSilentRedirect(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "leo", "user")
	intruder := app.createUser(t, "mike", "user")
	post := &model.Post{AuthorID: author.ID, Text: "Тестовый текст"}
	require.NoError(t, app.postRepo.Create(post))

	postID := strconv.FormatInt(post.ID, 10)
	w := app.do(t, http.MethodPost, "/leo/"+postID+"/edit/",
		url.Values{"text": {"взлом"}}, app.authCookie(t, intruder.ID))

	// 非作者不报错，静默跳回单帖页
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/leo/"+postID+"/", w.Header().Get("Location"))

	unchanged, err := app.postRepo.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Тестовый текст", unchanged.Text)
}

func TestAuthorEditUpdatesPost(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "leo", "user")
	post := &model.Post{AuthorID: author.ID, Text: "Тестовый текст"}
	require.NoError(t, app.postRepo.Create(post))

	postID := strconv.FormatInt(post.ID, 10)
	w := app.do(t, http.MethodPost, "/leo/"+postID+"/edit/",
		url.Values{"text": {"Новый текст"}}, app.authCookie(t, author.ID))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/leo/"+postID+"/", w.Header().Get("Location"))

	updated, err := app.postRepo.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Новый текст", updated.Text)
}

func TestFollowUnfollowRedirects(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "leo", "user")
	reader := app.createUser(t, "mike", "user")

	w := app.do(t, http.MethodGet, "/leo/follow/", nil, app.authCookie(t, reader.ID))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/leo/", w.Header().Get("Location"))

	var count int64
	require.NoError(t, app.db.Model(&model.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// 关注自己静默成功，不产生记录
	w = app.do(t, http.MethodGet, "/mike/follow/", nil, app.authCookie(t, reader.ID))
	assert.Equal(t, http.StatusFound, w.Code)

	require.NoError(t, app.db.Model(&model.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	w = app.do(t, http.MethodGet, "/leo/unfollow/", nil, app.authCookie(t, reader.ID))
	assert.Equal(t, http.StatusFound, w.Code)

	require.NoError(t, app.db.Model(&model.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPublishFlow(t *testing.T) {
	app := newTestApp(t)

	// 注册
	w := app.do(t, http.MethodPost, "/auth/register", url.Values{
		"username": {"admin2"},
		"password": {"password123"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// 提升为管理员后建群
	require.NoError(t, app.db.Model(&model.User{}).
		Where("user_name = ?", "admin2").
		Update("user_role", "admin").Error)

	var admin model.User
	require.NoError(t, app.db.Where("user_name = ?", "admin2").First(&admin).Error)

	groupBody, err := json.Marshal(map[string]string{
		"title": "Тестовая группа",
		"slug":  "test_group",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin/groups", bytes.NewReader(groupBody))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(app.authCookie(t, admin.ID))
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var group model.Group
	require.NoError(t, app.db.Where("slug = ?", "test_group").First(&group).Error)

	// 登录种 Cookie
	w = app.do(t, http.MethodPost, "/auth/login/", url.Values{
		"username": {"admin2"},
		"password": {"password123"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var authCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.AuthCookieName {
			authCookie = c
		}
	}
	require.NotNil(t, authCookie)

	// 发帖后 302 跳回首页
	w = app.do(t, http.MethodPost, "/new/", url.Values{
		"text":  {"Тестовый текст"},
		"group": {strconv.FormatInt(group.ID, 10)},
	}, authCookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var post model.Post
	require.NoError(t, app.db.Where("text = ?", "Тестовый текст").First(&post).Error)
	assert.Equal(t, admin.ID, post.AuthorID)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, group.ID, *post.GroupID)

	// 首页和群组页都能看到
	w = app.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Тестовый текст")

	w = app.do(t, http.MethodGet, "/group/test_group/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Тестовый текст")
}

func TestNewPostRequiresLogin(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/new/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next="+url.QueryEscape("/new/"), w.Header().Get("Location"))
}

func TestProfilePage(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "leo", "user")
	require.NoError(t, app.postRepo.Create(&model.Post{AuthorID: author.ID, Text: "Тестовый текст"}))

	w := app.do(t, http.MethodGet, "/leo/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "leo")

	w = app.do(t, http.MethodGet, "/ghost/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchRoute(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "leo", "user")
	require.NoError(t, app.postRepo.Create(&model.Post{AuthorID: author.ID, Text: "a post about cats"}))
	require.NoError(t, app.postRepo.Create(&model.Post{AuthorID: author.ID, Text: "nothing here"}))

	w := app.do(t, http.MethodGet, "/search/?q=cats", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a post about cats")
	assert.NotContains(t, w.Body.String(), "nothing here")
}

func TestAdminRequiresRole(t *testing.T) {
	app := newTestApp(t)
	user := app.createUser(t, "leo", "user")

	req := httptest.NewRequest(http.MethodPost, "/admin/groups", strings.NewReader(`{"title":"t","slug":"s"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(app.authCookie(t, user.ID))
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
