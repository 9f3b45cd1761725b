package service

import (
	"Orion_Tube/internal/dbtest"
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveVideoViewNoEngagement(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	u1 := dbtest.CreateUser(t, env.db, "u1")
	v1 := dbtest.CreateVideo(t, env.db, u1.ID, "v1", true)

	item, viewer, err := env.assembler.ResolveVideoView(ctx, v1, "")
	require.NoError(t, err)
	assert.Equal(t, dto.VideoCounts{}, item.VideoCounts)
	assert.Equal(t, dto.VideoViewer{}, viewer)

	followers, err := env.assembler.Followers(ctx, u1.ID)
	require.NoError(t, err)
	assert.Zero(t, followers)
}

func TestResolveVideoViewIgnoresOtherVideos(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, env.db, "alice")
	bob := dbtest.CreateUser(t, env.db, "bob")
	v1 := dbtest.CreateVideo(t, env.db, alice.ID, "v1", true)
	v2 := dbtest.CreateVideo(t, env.db, alice.ID, "v2", true)
	dbtest.CreateEvent(t, env.db, bob.ID, model.SubjectVideo, v2.ID, model.KindLike)
	dbtest.CreateEvent(t, env.db, bob.ID, model.SubjectVideo, v2.ID, model.KindView)

	item, viewer, err := env.assembler.ResolveVideoView(ctx, v1, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.VideoCounts{}, item.VideoCounts)
	assert.False(t, viewer.HasLiked)
}

// 批量计数的结果必须和逐个计数一致
func TestResolveVideoCollectionMatchesSingleView(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, env.db, "alice")
	bob := dbtest.CreateUser(t, env.db, "bob")
	carol := dbtest.CreateUser(t, env.db, "carol")
	v1 := dbtest.CreateVideo(t, env.db, alice.ID, "v1", true)
	v2 := dbtest.CreateVideo(t, env.db, bob.ID, "v2", true)
	v3 := dbtest.CreateVideo(t, env.db, alice.ID, "v3", true)

	dbtest.CreateEvent(t, env.db, bob.ID, model.SubjectVideo, v1.ID, model.KindLike)
	dbtest.CreateEvent(t, env.db, carol.ID, model.SubjectVideo, v1.ID, model.KindLike)
	dbtest.CreateEvent(t, env.db, carol.ID, model.SubjectVideo, v2.ID, model.KindDislike)
	dbtest.CreateEvent(t, env.db, carol.ID, model.SubjectUser, alice.ID, model.KindFollow)
	for i := 0; i < 3; i++ {
		dbtest.CreateEvent(t, env.db, carol.ID, model.SubjectVideo, v2.ID, model.KindView)
	}

	videos, err := env.videoRepo.FindMany(ctx, repository.VideoFilter{})
	require.NoError(t, err)
	require.Len(t, videos, 3)

	items, authors, err := env.assembler.ResolveVideoCollection(ctx, videos, carol.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Len(t, authors, 3)
	for i := range videos {
		single, viewer, err := env.assembler.ResolveVideoView(ctx, &videos[i], carol.ID)
		require.NoError(t, err)
		assert.Equal(t, videos[i].ID, items[i].ID)
		assert.Equal(t, single.VideoCounts, items[i].VideoCounts)
		require.NotNil(t, items[i].Viewer)
		assert.Equal(t, viewer, *items[i].Viewer)
		assert.Equal(t, videos[i].UserID, authors[i].ID)
	}

	byID := map[string]dto.VideoWithCounts{}
	for _, item := range items {
		byID[item.ID] = item
	}
	assert.Equal(t, int64(2), byID[v1.ID].Likes)
	assert.Equal(t, int64(3), byID[v2.ID].Views)
	assert.True(t, byID[v2.ID].Viewer.HasDisliked)
	assert.True(t, byID[v3.ID].Viewer.HasFollowed)

	anonymous, _, err := env.assembler.ResolveVideoCollection(ctx, videos, "")
	require.NoError(t, err)
	for _, item := range anonymous {
		assert.Nil(t, item.Viewer)
	}
}

func TestResolveAnnouncementCollection(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, env.db, "alice")
	bob := dbtest.CreateUser(t, env.db, "bob")

	first, err := env.announcements.AddAnnouncement(ctx, alice.ID, "first")
	require.NoError(t, err)
	_, err = env.announcements.AddAnnouncement(ctx, alice.ID, "second")
	require.NoError(t, err)
	_, err = env.engagements.ToggleAnnouncementReaction(ctx, bob.ID, first.ID, model.KindDislike)
	require.NoError(t, err)

	list, err := env.announcements.GetAnnouncementsByUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, list.Announcements, 2)
	require.Len(t, list.Users, 2)
	assert.Equal(t, dto.ViewReady, list.State)
	for i, an := range list.Announcements {
		assert.Equal(t, an.UserID, list.Users[i].ID)
		require.NotNil(t, an.Viewer)
		if an.ID == first.ID {
			assert.Equal(t, int64(1), an.Dislikes)
			assert.True(t, an.Viewer.HasDisliked)
		} else {
			assert.Zero(t, an.Dislikes)
		}
	}

	empty, err := env.announcements.GetAnnouncementsByUser(ctx, bob.ID, "")
	require.NoError(t, err)
	assert.Equal(t, dto.ViewEmpty, empty.State)
}
