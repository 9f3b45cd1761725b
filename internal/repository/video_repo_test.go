package repository_test

import (
	"Orion_Tube/internal/dbtest"
	"Orion_Tube/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := dbtest.Open(t)
	repo := repository.NewVideoRepository(db, rdb, time.Minute)
	ctx := context.Background()
	user := dbtest.CreateUser(t, db, "alice")
	video := dbtest.CreateVideo(t, db, user.ID, "clip", true)

	cached, err := repo.GetVideoCache(ctx, video.ID)
	require.NoError(t, err)
	assert.Nil(t, cached)

	loaded, err := repo.FindByID(ctx, video.ID)
	require.NoError(t, err)
	require.NoError(t, repo.SetVideoCache(ctx, loaded))

	key := "video:info:" + video.ID
	assert.True(t, mr.Exists(key))
	ttl := mr.TTL(key)
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.Less(t, ttl, 2*time.Minute)

	cached, err = repo.GetVideoCache(ctx, video.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, video.Title, cached.Title)
	assert.Equal(t, user.ID, cached.UserID)
	// 作者不进缓存
	assert.Empty(t, cached.User.ID)
	assert.Equal(t, user.Name, loaded.User.Name)

	require.NoError(t, repo.DeleteVideoCache(ctx, video.ID))
	assert.False(t, mr.Exists(key))
}

func TestVideoCacheDisabledWithoutRedis(t *testing.T) {
	db := dbtest.Open(t)
	repo := repository.NewVideoRepository(db, nil, time.Minute)
	ctx := context.Background()
	user := dbtest.CreateUser(t, db, "alice")
	video := dbtest.CreateVideo(t, db, user.ID, "clip", true)

	require.NoError(t, repo.SetVideoCache(ctx, video))
	cached, err := repo.GetVideoCache(ctx, video.ID)
	require.NoError(t, err)
	assert.Nil(t, cached)
	assert.NoError(t, repo.DeleteVideoCache(ctx, video.ID))
}

func TestFindManyFilters(t *testing.T) {
	db := dbtest.Open(t)
	repo := repository.NewVideoRepository(db, nil, time.Minute)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, db, "alice")
	bob := dbtest.CreateUser(t, db, "bob")
	dbtest.CreateVideo(t, db, alice.ID, "golang tips", true)
	dbtest.CreateVideo(t, db, alice.ID, "golang draft", false)
	dbtest.CreateVideo(t, db, bob.ID, "cooking", true)

	published, err := repo.FindMany(ctx, repository.VideoFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, published, 2)

	mine, err := repo.FindMany(ctx, repository.VideoFilter{UserID: alice.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	found, err := repo.FindMany(ctx, repository.VideoFilter{PublishedOnly: true, TitleContains: "golang"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "golang tips", found[0].Title)
	assert.Equal(t, alice.ID, found[0].User.ID)

	limited, err := repo.FindMany(ctx, repository.VideoFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	n, err := repo.Count(ctx, repository.VideoFilter{UserID: bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFindManyTitleMatchesLiterally(t *testing.T) {
	db := dbtest.Open(t)
	repo := repository.NewVideoRepository(db, nil, time.Minute)
	ctx := context.Background()
	alice := dbtest.CreateUser(t, db, "alice")
	dbtest.CreateVideo(t, db, alice.ID, "cats", true)
	dbtest.CreateVideo(t, db, alice.ID, "dogs", true)
	dbtest.CreateVideo(t, db, alice.ID, "100% fun", true)
	dbtest.CreateVideo(t, db, alice.ID, "snake_case", true)
	dbtest.CreateVideo(t, db, alice.ID, "wow!", true)

	tests := []struct {
		query string
		want  []string
	}{
		{query: "%", want: []string{"100% fun"}},
		{query: "_", want: []string{"snake_case"}},
		{query: "!", want: []string{"wow!"}},
		{query: "0% f", want: []string{"100% fun"}},
		{query: "c_ts", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			found, err := repo.FindMany(ctx, repository.VideoFilter{PublishedOnly: true, TitleContains: tt.query})
			require.NoError(t, err)
			var titles []string
			for _, v := range found {
				titles = append(titles, v.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestVideoUpdateWritesZeroValues(t *testing.T) {
	db := dbtest.Open(t)
	repo := repository.NewVideoRepository(db, nil, time.Minute)
	ctx := context.Background()
	user := dbtest.CreateUser(t, db, "alice")
	video := dbtest.CreateVideo(t, db, user.ID, "clip", true)

	require.NoError(t, repo.Update(ctx, video.ID, map[string]interface{}{"publish": false, "title": ""}))
	reloaded, err := repo.FindByID(ctx, video.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Publish)
	assert.Empty(t, reloaded.Title)

	require.NoError(t, repo.Delete(ctx, video.ID))
	_, err = repo.FindByID(ctx, video.ID)
	assert.Error(t, err)
}
