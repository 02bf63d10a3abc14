package service

import (
	"testing"
	"time"

	"yatube-go/internal/api/dto"
	"yatube-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedPagination(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "leo")
	env.createPosts(t, author.ID, 13, nil)

	first, err := env.posts.Feed(1, 10)
	require.NoError(t, err)
	assert.Len(t, first.Posts, 10)
	assert.Equal(t, int64(13), first.Total)
	assert.Equal(t, int64(2), first.TotalPages)

	second, err := env.posts.Feed(2, 10)
	require.NoError(t, err)
	assert.Len(t, second.Posts, 3)
	assert.Equal(t, 2, second.Page)
}

func TestFeedPageOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "leo")
	env.createPosts(t, author.ID, 13, nil)

	// 越界页码收敛到最后一页而不是报错
	data, err := env.posts.Feed(99, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, data.Page)
	assert.Len(t, data.Posts, 3)

	data, err = env.posts.Feed(-1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, data.Page)
	assert.Len(t, data.Posts, 10)
}

func TestFeedOrderNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "leo")
	env.createPosts(t, author.ID, 3, nil)

	data, err := env.posts.Feed(1, 10)
	require.NoError(t, err)
	require.Len(t, data.Posts, 3)

	// 同秒创建时按 id 倒序兜底
	assert.True(t, data.Posts[0].ID > data.Posts[1].ID)
	assert.True(t, data.Posts[1].ID > data.Posts[2].ID)
}

func TestGroupFeedWindow(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "leo")
	group := env.createGroup(t, "Тестовая группа", "test_group")
	env.createPosts(t, author.ID, 15, &group.ID)

	// 候选集截到 10 条，只有一页
	data, err := env.posts.GroupFeed("test_group", 1, 10, 10)
	require.NoError(t, err)
	assert.Len(t, data.Posts.Posts, 10)
	assert.Equal(t, int64(10), data.Posts.Total)
	assert.Equal(t, int64(1), data.Posts.TotalPages)
	assert.Equal(t, "test_group", data.Group.Slug)
}

func TestGroupFeedOnlyGroupPosts(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "leo")
	group := env.createGroup(t, "Тестовая группа", "test_group")
	other := env.createGroup(t, "Другая группа", "other_group")

	env.createPosts(t, author.ID, 3, &group.ID)
	env.createPosts(t, author.ID, 2, &other.ID)
	env.createPosts(t, author.ID, 2, nil)

	data, err := env.posts.GroupFeed("test_group", 1, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), data.Posts.Total)
	for _, p := range data.Posts.Posts {
		require.NotNil(t, p.GroupID)
		assert.Equal(t, group.ID, *p.GroupID)
	}
}

func TestGroupFeedUnknownSlug(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.posts.GroupFeed("missing", 1, 10, 10)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestProfileFollowingFlag(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "leo")
	reader := env.createUser(t, "mike")
	env.createPosts(t, author.ID, 2, nil)

	// 匿名访问
	data, err := env.posts.Profile("leo", 0, 1, 10)
	require.NoError(t, err)
	assert.False(t, data.Following)
	assert.Equal(t, int64(2), data.Posts.Total)

	require.NoError(t, env.follow.Follow(reader.ID, "leo"))

	data, err = env.posts.Profile("leo", reader.ID, 1, 10)
	require.NoError(t, err)
	assert.True(t, data.Following)
	require.Len(t, data.Followers, 1)
	assert.Equal(t, "mike", data.Followers[0].Username)
}

func TestPostDetailCommentsAscending(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "leo")
	commenter := env.createUser(t, "mike")
	post := env.createPost(t, author.ID, "Тестовый текст", nil)

	for _, text := range []string{"первый", "второй", "третий"} {
		_, err := env.comment.Add(commenter.ID, post.ID, &dto.CommentForm{Text: text})
		require.NoError(t, err)
	}

	detail, err := env.posts.PostDetail("leo", post.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 3)
	assert.Equal(t, "первый", detail.Comments[0].Text)
	assert.Equal(t, "второй", detail.Comments[1].Text)
	assert.Equal(t, "третий", detail.Comments[2].Text)
	assert.Empty(t, detail.Form.Errors)
}

func TestPostDetailWrongAuthor(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "leo")
	env.createUser(t, "mike")
	post := env.createPost(t, author.ID, "Тестовый текст", nil)

	_, err := env.posts.PostDetail("mike", post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCreatePostRequiresText(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "leo")

	_, err := env.posts.Create(author.ID, &dto.PostForm{Text: "   "}, nil)
	assert.ErrorIs(t, err, ErrTextRequired)

	count, cntErr := env.postRepo.CountAll()
	require.NoError(t, cntErr)
	assert.Equal(t, int64(0), count)
}

func TestCreatePostWithGroup(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "leo")
	group := env.createGroup(t, "Тестовая группа", "test_group")

	info, err := env.posts.Create(author.ID, &dto.PostForm{Text: "Тестовый текст", GroupID: &group.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Тестовый текст", info.Text)
	assert.Equal(t, "leo", info.AuthorName)
	require.NotNil(t, info.GroupSlug)
	assert.Equal(t, "test_group", *info.GroupSlug)
}

func TestEditPostNotAuthor(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "leo")
	intruder := env.createUser(t, "mike")
	post := env.createPost(t, author.ID, "Тестовый текст", nil)

	_, err := env.posts.Edit(post.ID, "leo", intruder.ID, &dto.PostForm{Text: "взлом"}, nil)
	assert.ErrorIs(t, err, ErrNotPostAuthor)

	unchanged, getErr := env.postRepo.GetByID(post.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "Тестовый текст", unchanged.Text)
}

func TestEditPostKeepsIdentityAndCreatedAt(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "leo")
	group := env.createGroup(t, "Тестовая группа", "test_group")
	post := env.createPost(t, author.ID, "Тестовый текст", &group.ID)
	createdAt := post.CreatedAt

	time.Sleep(10 * time.Millisecond)

	info, err := env.posts.Edit(post.ID, "leo", author.ID, &dto.PostForm{Text: "Новый текст"}, nil)
	require.NoError(t, err)
	assert.Equal(t, post.ID, info.ID)
	assert.Equal(t, "Новый текст", info.Text)
	// 群组清空，发布时间不动
	assert.Nil(t, info.GroupID)
	assert.WithinDuration(t, createdAt, info.CreatedAt, time.Second)
}

func TestFollowedFeed(t *testing.T) {
	env := newTestEnv(t)
	leo := env.createUser(t, "leo")
	mike := env.createUser(t, "mike")
	reader := env.createUser(t, "reader")

	env.createPosts(t, leo.ID, 2, nil)
	env.createPosts(t, mike.ID, 3, nil)

	// 没关注任何人时是空页
	data, err := env.posts.FollowedFeed(reader.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, data.Posts)
	assert.Equal(t, int64(0), data.Total)

	require.NoError(t, env.follow.Follow(reader.ID, "leo"))

	data, err = env.posts.FollowedFeed(reader.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), data.Total)
	for _, p := range data.Posts {
		assert.Equal(t, leo.ID, p.AuthorID)
	}

	// 作者自己的关注流看不到自己的帖子
	data, err = env.posts.FollowedFeed(leo.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, data.Posts)
}

func TestMediaObjectName(t *testing.T) {
	assert.Equal(t, "posts/small.gif", mediaObjectName("small.gif"))
}

func TestGroupDeleteKeepsPosts(t *testing.T) {
	env := newTestEnv(t)
	author := env.createUser(t, "leo")
	group := env.createGroup(t, "Тестовая группа", "test_group")
	post := env.createPost(t, author.ID, "Тестовый текст", &group.ID)

	require.NoError(t, env.groups.Delete("test_group"))

	var kept model.Post
	require.NoError(t, env.db.First(&kept, post.ID).Error)
	assert.Nil(t, kept.GroupID)
	assert.Equal(t, "Тестовый текст", kept.Text)
}
