package service

import (
	"Orion_Tube/internal/dbtest"
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// staleLookupRepo 模拟并发：前几次查找看不到别人刚创建的播放列表
type staleLookupRepo struct {
	repository.PlaylistRepository
	misses int
}

func (r *staleLookupRepo) FindByUserAndTitle(ctx context.Context, userID, title string) (*model.Playlist, error) {
	if r.misses > 0 {
		r.misses--
		return nil, gorm.ErrRecordNotFound
	}
	return r.PlaylistRepository.FindByUserAndTitle(ctx, userID, title)
}

func countPlaylists(t *testing.T, env *testEnv, userID, title string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(&model.Playlist{}).Where("user_id = ? AND title = ?", userID, title).Count(&n).Error)
	return n
}

func TestUpsertNamedPlaylistIsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, env.db, "alice")

	first, err := upsertNamedPlaylist(ctx, env.playlistRepo, alice.ID, model.PlaylistLikedVideos)
	require.NoError(t, err)
	second, err := upsertNamedPlaylist(ctx, env.playlistRepo, alice.ID, model.PlaylistLikedVideos)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Nil(t, first.Description)
	assert.Equal(t, int64(1), countPlaylists(t, env, alice.ID, model.PlaylistLikedVideos))
}

func TestUpsertNamedPlaylistRefetchesWinnerOnConflict(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, env.db, "alice")

	winner := &model.Playlist{UserID: alice.ID, Title: model.PlaylistHistory}
	require.NoError(t, env.playlistRepo.Create(ctx, winner))

	got, err := upsertNamedPlaylist(ctx, &staleLookupRepo{PlaylistRepository: env.playlistRepo, misses: 1}, alice.ID, model.PlaylistHistory)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
	assert.Equal(t, int64(1), countPlaylists(t, env, alice.ID, model.PlaylistHistory))
}

func TestToggleVideoInPlaylistScenario(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, env.db, "alice")
	bob := dbtest.CreateUser(t, env.db, "bob")
	v1 := dbtest.CreateVideo(t, env.db, alice.ID, "v1", true)
	v2 := dbtest.CreateVideo(t, env.db, bob.ID, "v2", true)

	p1, err := env.playlists.AddPlaylist(ctx, alice.ID, "Favourites", nil)
	require.NoError(t, err)

	detail, err := env.playlists.GetPlaylistByID(ctx, p1.ID, "")
	require.NoError(t, err)
	assert.Zero(t, detail.Playlist.VideoCount)
	assert.Nil(t, detail.Playlist.PlaylistThumbnail)
	assert.Equal(t, dto.ViewEmpty, detail.State)

	result, err := env.playlists.ToggleVideoInPlaylist(ctx, alice.ID, p1.ID, v1.ID)
	require.NoError(t, err)
	assert.True(t, result.Active)

	detail, err = env.playlists.GetPlaylistByID(ctx, p1.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.Playlist.VideoCount)
	require.NotNil(t, detail.Playlist.PlaylistThumbnail)
	assert.Equal(t, v1.ThumbnailURL, *detail.Playlist.PlaylistThumbnail)
	assert.Equal(t, dto.ViewReady, detail.State)
	assert.Equal(t, alice.ID, detail.User.ID)

	// 封面始终是第一个加入的视频
	_, err = env.playlists.ToggleVideoInPlaylist(ctx, alice.ID, p1.ID, v2.ID)
	require.NoError(t, err)
	detail, err = env.playlists.GetPlaylistByID(ctx, p1.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.Playlist.VideoCount)
	assert.Equal(t, v1.ThumbnailURL, *detail.Playlist.PlaylistThumbnail)
	require.Len(t, detail.Videos, 2)
	assert.Equal(t, v1.ID, detail.Videos[0].ID)
	assert.Equal(t, bob.ID, detail.Authors[1].ID)

	result, err = env.playlists.ToggleVideoInPlaylist(ctx, alice.ID, p1.ID, v1.ID)
	require.NoError(t, err)
	assert.False(t, result.Active)
	detail, err = env.playlists.GetPlaylistByID(ctx, p1.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.Playlist.VideoCount)
	assert.Equal(t, v2.ThumbnailURL, *detail.Playlist.PlaylistThumbnail)
}

func TestToggleVideoInPlaylistOwnership(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, env.db, "alice")
	bob := dbtest.CreateUser(t, env.db, "bob")
	video := dbtest.CreateVideo(t, env.db, alice.ID, "clip", true)
	playlist, err := env.playlists.AddPlaylist(ctx, alice.ID, "Mine", nil)
	require.NoError(t, err)

	_, err = env.playlists.ToggleVideoInPlaylist(ctx, bob.ID, playlist.ID, video.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// 不存在优先于无权限
	_, err = env.playlists.ToggleVideoInPlaylist(ctx, bob.ID, "missing", video.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.playlists.ToggleVideoInPlaylist(ctx, alice.ID, playlist.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddPlaylistValidation(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, env.db, "alice")
	short, long, ok := "abc", strings.Repeat("x", 51), "road trip songs"

	_, err := env.playlists.AddPlaylist(ctx, alice.ID, "  ", nil)
	requireValidation(t, err, "title")
	_, err = env.playlists.AddPlaylist(ctx, alice.ID, model.PlaylistLikedVideos, nil)
	requireValidation(t, err, "title")
	_, err = env.playlists.AddPlaylist(ctx, alice.ID, "Trip", &short)
	requireValidation(t, err, "description")
	_, err = env.playlists.AddPlaylist(ctx, alice.ID, "Trip", &long)
	requireValidation(t, err, "description")
	_, err = env.playlists.AddPlaylist(ctx, "missing", "Trip", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	playlist, err := env.playlists.AddPlaylist(ctx, alice.ID, "Trip", &ok)
	require.NoError(t, err)
	require.NotNil(t, playlist.Description)
	assert.Equal(t, ok, *playlist.Description)
	assert.Nil(t, playlist.ReservedKey)
}

func TestGetPlaylistByTitleCreatesReservedOnce(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	bob := dbtest.CreateUser(t, env.db, "bob")

	first, err := env.playlists.GetPlaylistByTitle(ctx, bob.ID, model.PlaylistLikedVideos)
	require.NoError(t, err)
	second, err := env.playlists.GetPlaylistByTitle(ctx, bob.ID, model.PlaylistLikedVideos)
	require.NoError(t, err)
	assert.Equal(t, first.Playlist.ID, second.Playlist.ID)
	assert.Equal(t, dto.ViewEmpty, second.State)
	assert.Equal(t, bob.ID, second.User.ID)

	_, err = env.playlists.GetPlaylistByTitle(ctx, bob.ID, "")
	requireValidation(t, err, "title")
}

func TestPlaylistListings(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, env.db, "alice")
	video := dbtest.CreateVideo(t, env.db, alice.ID, "clip", true)

	empty, err := env.playlists.GetPlaylistsByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ViewEmpty, empty.State)
	assert.NotNil(t, empty.Playlists)

	mine, err := env.playlists.AddPlaylist(ctx, alice.ID, "Mine", nil)
	require.NoError(t, err)
	_, err = env.playlists.ToggleVideoInPlaylist(ctx, alice.ID, mine.ID, video.ID)
	require.NoError(t, err)
	_, err = env.engagements.ToggleLike(ctx, alice.ID, video.ID)
	require.NoError(t, err)

	list, err := env.playlists.GetPlaylistsByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ViewReady, list.State)
	assert.Len(t, list.Playlists, 2)
	for _, p := range list.Playlists {
		assert.Equal(t, int64(1), p.VideoCount, p.Title)
	}

	save, err := env.playlists.GetSavePlaylistData(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, save, 1)
	assert.Equal(t, "Mine", save[0].Title)
	assert.Equal(t, []string{video.ID}, save[0].VideoIDs)

	_, err = env.playlists.GetPlaylistsByUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
