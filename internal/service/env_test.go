package service

import (
	"Orion_Tube/internal/data"
	"Orion_Tube/internal/dbtest"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db *gorm.DB

	userRepo         repository.UserRepository
	videoRepo        repository.VideoRepository
	playlistRepo     repository.PlaylistRepository
	engagementRepo   repository.EngagementRepository
	commentRepo      repository.CommentRepository
	announcementRepo repository.AnnouncementRepository
	assembler        *ViewAssembler

	videos        VideoService
	users         UserService
	playlists     PlaylistService
	engagements   EngagementService
	comments      CommentService
	announcements AnnouncementService
}

// rdb和publisher都可以为nil
func newTestEnv(t testing.TB, rdb *redis.Client, publisher ViewPublisher) *testEnv {
	t.Helper()
	db := dbtest.Open(t)
	env := &testEnv{
		db:               db,
		userRepo:         repository.NewUserRepository(db),
		videoRepo:        repository.NewVideoRepository(db, rdb, time.Minute),
		playlistRepo:     repository.NewPlaylistRepository(db),
		engagementRepo:   repository.NewEngagementRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		announcementRepo: repository.NewAnnouncementRepository(db),
	}
	uow := data.NewUnitOfWork(db, env.videoRepo, env.playlistRepo, env.engagementRepo)
	env.assembler = NewViewAssembler(env.engagementRepo, env.playlistRepo)

	env.videos = NewVideoService(env.videoRepo, env.userRepo, env.commentRepo, uow, env.assembler)
	env.users = NewUserService(env.userRepo, env.videoRepo, env.engagementRepo, env.assembler)
	env.playlists = NewPlaylistService(env.playlistRepo, env.videoRepo, env.userRepo, uow, env.assembler)
	env.engagements = NewEngagementService(env.userRepo, env.videoRepo, env.commentRepo, env.announcementRepo, env.playlistRepo, uow, publisher)
	env.comments = NewCommentService(env.commentRepo, env.videoRepo, env.userRepo)
	env.announcements = NewAnnouncementService(env.announcementRepo, env.userRepo, env.assembler)
	return env
}

func (e *testEnv) count(t testing.TB, subjectType model.SubjectType, subjectID string, kind model.EngagementKind) int64 {
	t.Helper()
	n, err := e.engagementRepo.Count(context.Background(), repository.EngagementFilter{SubjectType: subjectType, SubjectID: subjectID, Kind: kind})
	require.NoError(t, err)
	return n
}

func (e *testEnv) inPlaylist(t testing.TB, userID, title, videoID string) bool {
	t.Helper()
	ctx := context.Background()
	playlist, err := e.playlistRepo.FindByUserAndTitle(ctx, userID, title)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	require.NoError(t, err)
	has, err := e.playlistRepo.HasMember(ctx, playlist.ID, videoID)
	require.NoError(t, err)
	return has
}

func requireValidation(t testing.TB, err error, field string) {
	t.Helper()
	require.ErrorIs(t, err, ErrValidation)
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, field, vErr.Field)
}

type recordingPublisher struct {
	mu    sync.Mutex
	views []string
}

func (p *recordingPublisher) PublishView(_ context.Context, actorID, videoID string, _ time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.views = append(p.views, actorID+"->"+videoID)
	return nil
}
