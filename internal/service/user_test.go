package service

import (
	"Orion_Tube/internal/dbtest"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserFollowings(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, env.db, "alice")
	bob := dbtest.CreateUser(t, env.db, "bob")
	carol := dbtest.CreateUser(t, env.db, "carol")
	dave := dbtest.CreateUser(t, env.db, "dave")

	empty, err := env.users.GetUserFollowings(ctx, alice.ID, "")
	require.NoError(t, err)
	assert.Empty(t, empty.Followings)

	for _, followed := range []string{bob.ID, carol.ID} {
		_, err := env.engagements.ToggleFollow(ctx, alice.ID, followed)
		require.NoError(t, err)
	}
	_, err = env.engagements.ToggleFollow(ctx, dave.ID, carol.ID)
	require.NoError(t, err)

	view, err := env.users.GetUserFollowings(ctx, alice.ID, dave.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, view.User.ID)
	require.Len(t, view.Followings, 2)

	byID := map[string]int{}
	for i, entry := range view.Followings {
		byID[entry.User.ID] = i
	}
	bobEntry := view.Followings[byID[bob.ID]]
	carolEntry := view.Followings[byID[carol.ID]]
	assert.Equal(t, int64(1), bobEntry.User.Followers)
	assert.False(t, bobEntry.ViewerHasFollowed)
	assert.Equal(t, int64(2), carolEntry.User.Followers)
	assert.True(t, carolEntry.ViewerHasFollowed)

	_, err = env.users.GetUserFollowings(ctx, "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetDashboardTotals(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, env.db, "alice")
	bob := dbtest.CreateUser(t, env.db, "bob")
	carol := dbtest.CreateUser(t, env.db, "carol")
	public := dbtest.CreateVideo(t, env.db, alice.ID, "public", true)
	draft := dbtest.CreateVideo(t, env.db, alice.ID, "draft", false)

	for _, actor := range []string{bob.ID, carol.ID} {
		_, err := env.engagements.ToggleLike(ctx, actor, public.ID)
		require.NoError(t, err)
		require.NoError(t, env.engagements.RecordView(ctx, actor, public.ID))
	}
	require.NoError(t, env.engagements.RecordView(ctx, "", draft.ID))
	_, err := env.engagements.ToggleFollow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	dashboard, err := env.users.GetDashboard(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, dashboard.Videos, 2)
	assert.Equal(t, int64(2), dashboard.TotalLikes)
	assert.Equal(t, int64(3), dashboard.TotalViews)
	assert.Equal(t, int64(1), dashboard.TotalFollowers)
}

func TestUpdateUser(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, env.db, "alice")

	blank := "  "
	_, err := env.users.UpdateUser(ctx, alice.ID, UpdateUserInput{Name: &blank})
	requireValidation(t, err, "name")

	desc := "我的频道"
	updated, err := env.users.UpdateUser(ctx, alice.ID, UpdateUserInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Name)
	assert.Equal(t, desc, updated.Description)

	reloaded, err := env.userRepo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, desc, reloaded.Description)

	_, err = env.users.UpdateUser(ctx, "missing", UpdateUserInput{Description: &desc})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetChannelByID(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, env.db, "alice")
	bob := dbtest.CreateUser(t, env.db, "bob")

	_, err := env.engagements.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	channel, err := env.users.GetChannelByID(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), channel.User.Followers)
	assert.Equal(t, int64(1), channel.User.Followings)
	assert.False(t, channel.Viewer.HasFollowed)

	channel, err = env.users.GetChannelByID(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), channel.User.Followers)
	assert.True(t, channel.Viewer.HasFollowed)

	_, err = env.users.GetChannelByID(ctx, "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)
}
