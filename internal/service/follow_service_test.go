package service

import (
	"testing"

	"yatube-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) followRows(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&model.Follow{}).Count(&count).Error)
	return count
}

func TestFollowIdempotent(t *testing.T) {
	env := newTestEnv(t)
	leo := env.createUser(t, "leo")
	mike := env.createUser(t, "mike")

	require.NoError(t, env.follow.Follow(mike.ID, "leo"))
	require.NoError(t, env.follow.Follow(mike.ID, "leo"))
	require.NoError(t, env.follow.Follow(mike.ID, "leo"))

	assert.Equal(t, int64(1), env.followRows(t))

	// 重复关注不会重复计数
	follower, err := env.userRepo.GetByID(mike.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), follower.FollowCount)

	author, err := env.userRepo.GetByID(leo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), author.FollowerCount)
}

func TestFollowSelfIgnored(t *testing.T) {
	env := newTestEnv(t)
	leo := env.createUser(t, "leo")

	// 关注自己静默忽略，对任意用户名都成立
	require.NoError(t, env.follow.Follow(leo.ID, "leo"))
	assert.Equal(t, int64(0), env.followRows(t))

	user, err := env.userRepo.GetByID(leo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), user.FollowCount)
	assert.Equal(t, int64(0), user.FollowerCount)
}

func TestUnfollowIdempotent(t *testing.T) {
	env := newTestEnv(t)
	leo := env.createUser(t, "leo")
	mike := env.createUser(t, "mike")

	// 没关注过时取关也静默成功
	require.NoError(t, env.follow.Unfollow(mike.ID, "leo"))

	require.NoError(t, env.follow.Follow(mike.ID, "leo"))
	require.NoError(t, env.follow.Unfollow(mike.ID, "leo"))
	require.NoError(t, env.follow.Unfollow(mike.ID, "leo"))

	assert.Equal(t, int64(0), env.followRows(t))

	follower, err := env.userRepo.GetByID(mike.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), follower.FollowCount)

	author, err := env.userRepo.GetByID(leo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), author.FollowerCount)
}

func TestFollowRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "leo")
	mike := env.createUser(t, "mike")

	require.NoError(t, env.follow.Follow(mike.ID, "leo"))
	require.NoError(t, env.follow.Unfollow(mike.ID, "leo"))
	require.NoError(t, env.follow.Follow(mike.ID, "leo"))

	assert.Equal(t, int64(1), env.followRows(t))
}

func TestFollowUnknownAuthor(t *testing.T) {
	env := newTestEnv(t)
	mike := env.createUser(t, "mike")

	err := env.follow.Follow(mike.ID, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
