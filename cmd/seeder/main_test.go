package main

import (
	"Orion_Tube/internal/dbtest"
	"Orion_Tube/internal/model"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	db := dbtest.Open(t)
	result, err := seed(db, seedConfig{Users: 5, Videos: 10, Engagements: 30, Views: 20, Comments: 5})
	require.NoError(t, err)
	assert.Len(t, result.UserIDs, 5)
	assert.Len(t, result.VideoIDs, 10)

	var views, toggles, comments int64
	require.NoError(t, db.Model(&model.EngagementEvent{}).Where("kind = ?", model.KindView).Count(&views).Error)
	require.NoError(t, db.Model(&model.EngagementEvent{}).Where("kind <> ?", model.KindView).Count(&toggles).Error)
	require.NoError(t, db.Model(&model.Comment{}).Count(&comments).Error)
	assert.Equal(t, int64(20), views)
	assert.LessOrEqual(t, toggles, int64(30))
	assert.Equal(t, int64(5), comments)

	// 重复的互动被OnConflict吞掉，去重键两两不同
	var keys []string
	require.NoError(t, db.Model(&model.EngagementEvent{}).Where("dedup_key IS NOT NULL").Pluck("dedup_key", &keys).Error)
	assert.Len(t, keys, int(toggles))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		assert.False(t, seen[k])
		seen[k] = true
	}
}

func TestSeedKeepsReactionsConsistent(t *testing.T) {
	db := dbtest.Open(t)
	_, err := seed(db, seedConfig{Users: 4, Videos: 3, Engagements: 200})
	require.NoError(t, err)

	var reactions []model.EngagementEvent
	require.NoError(t, db.Where("subject_type = ? AND kind IN ?", model.SubjectVideo, []model.EngagementKind{model.KindLike, model.KindDislike}).Find(&reactions).Error)
	require.NotEmpty(t, reactions)

	seen := map[string]model.EngagementKind{}
	for _, r := range reactions {
		pair := r.ActorID + ":" + r.SubjectID
		_, dup := seen[pair]
		assert.False(t, dup, "同一个人对同一个视频既赞又踩: %s", pair)
		seen[pair] = r.Kind

		var inLiked int64
		require.NoError(t, db.Model(&model.PlaylistVideo{}).
			Joins("JOIN playlists ON playlists.id = playlist_videos.playlist_id").
			Where("playlists.user_id = ? AND playlists.title = ? AND playlist_videos.video_id = ?", r.ActorID, model.PlaylistLikedVideos, r.SubjectID).
			Count(&inLiked).Error)
		if r.Kind == model.KindLike {
			assert.Equal(t, int64(1), inLiked)
		} else {
			assert.Zero(t, inLiked)
		}
	}
}

func TestSeedWithoutUsers(t *testing.T) {
	db := dbtest.Open(t)
	result, err := seed(db, seedConfig{Engagements: 10, Views: 10})
	require.NoError(t, err)
	assert.Empty(t, result.UserIDs)
}

func TestDevToken(t *testing.T) {
	signed, err := devToken("seed-secret", "user-1")
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(*jwt.Token) (interface{}, error) {
		return []byte("seed-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Contains(t, claims, "exp")
}
