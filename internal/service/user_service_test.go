package service

import (
	"testing"

	"yatube-go/internal/api/dto"
	"yatube-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteUserCascade(t *testing.T) {
	env := newTestEnv(t)
	leo := env.createUser(t, "leo")
	mike := env.createUser(t, "mike")

	post := env.createPost(t, leo.ID, "Тестовый текст", nil)
	mikePost := env.createPost(t, mike.ID, "чужой пост", nil)

	// leo 的评论和别人给 leo 帖子的评论都要跟着删
	_, err := env.comment.Add(mike.ID, post.ID, &dto.CommentForm{Text: "коммент к посту leo"})
	require.NoError(t, err)
	_, err = env.comment.Add(leo.ID, mikePost.ID, &dto.CommentForm{Text: "коммент от leo"})
	require.NoError(t, err)

	require.NoError(t, env.follow.Follow(mike.ID, "leo"))
	require.NoError(t, env.follow.Follow(leo.ID, "mike"))

	require.NoError(t, env.users.Delete(leo.ID))

	var users, posts, comments, follows int64
	require.NoError(t, env.db.Model(&model.User{}).Count(&users).Error)
	require.NoError(t, env.db.Model(&model.Post{}).Count(&posts).Error)
	require.NoError(t, env.db.Model(&model.Comment{}).Count(&comments).Error)
	require.NoError(t, env.db.Model(&model.Follow{}).Count(&follows).Error)

	assert.Equal(t, int64(1), users)
	assert.Equal(t, int64(1), posts)
	assert.Equal(t, int64(0), comments)
	assert.Equal(t, int64(0), follows)

	// mike 自己的帖子还在
	var kept model.Post
	require.NoError(t, env.db.First(&kept, mikePost.ID).Error)
	assert.Equal(t, mike.ID, kept.AuthorID)
}

func TestDeleteUserMissing(t *testing.T) {
	env := newTestEnv(t)

	err := env.users.Delete(12345)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetRole(t *testing.T) {
	env := newTestEnv(t)
	leo := env.createUser(t, "leo")

	role, err := env.users.GetRole(leo.ID)
	require.NoError(t, err)
	assert.Equal(t, "user", role)

	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", leo.ID).Update("user_role", "admin").Error)

	role, err = env.users.GetRole(leo.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", role)
}
