package router

import (
	"Orion_Tube/internal/handler"
	"Orion_Tube/internal/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(
	jwtSecret string,
	userHandler handler.UserHandler,
	videoHandler handler.VideoHandler,
	playlistHandler handler.PlaylistHandler,
	engagementHandler handler.EngagementHandler,
	commentHandler handler.CommentHandler,
	announcementHandler handler.AnnouncementHandler,
) *gin.Engine {
	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	apiV1 := r.Group("/api/v1")
	{
		// 匿名可访问，带了token就识别观看者
		public := apiV1.Group("/")
		public.Use(middleware.OptionalAuthMiddleware(jwtSecret))
		{
			public.GET("/videos/random", videoHandler.GetRandomVideos)
			public.GET("/videos/search", videoHandler.SearchVideos)
			public.GET("/videos/:video_id", videoHandler.GetVideoByID)
			public.POST("/videos/:video_id/views", engagementHandler.RecordView)

			public.GET("/users/:user_id", userHandler.GetChannel)
			public.GET("/users/:user_id/videos", videoHandler.GetVideosByUser)
			public.GET("/users/:user_id/followings", userHandler.GetFollowings)
			public.GET("/users/:user_id/playlists", playlistHandler.GetPlaylistsByUser)
			public.GET("/users/:user_id/announcements", announcementHandler.GetAnnouncementsByUser)

			public.GET("/playlists/:playlist_id", playlistHandler.GetPlaylistByID)
		}

		authorized := apiV1.Group("/")
		authorized.Use(middleware.AuthMiddleware(jwtSecret))
		{
			authorized.GET("/dashboard", userHandler.GetDashboard)
			authorized.PATCH("/users/me", userHandler.UpdateProfile)
			authorized.POST("/users/:user_id/follow", engagementHandler.ToggleFollow)

			authorized.POST("/videos", videoHandler.CreateVideo)
			authorized.PATCH("/videos/:video_id", videoHandler.UpdateVideo)
			authorized.DELETE("/videos/:video_id", videoHandler.DeleteVideo)
			authorized.POST("/videos/:video_id/publish", videoHandler.PublishVideo)
			authorized.POST("/videos/:video_id/like", engagementHandler.LikeVideo)
			authorized.POST("/videos/:video_id/dislike", engagementHandler.DislikeVideo)
			authorized.POST("/videos/:video_id/comments", commentHandler.CreateCommentForVideo)

			authorized.POST("/comments/:comment_id/like", engagementHandler.LikeComment)
			authorized.POST("/comments/:comment_id/dislike", engagementHandler.DislikeComment)

			authorized.POST("/announcements", announcementHandler.CreateAnnouncement)
			authorized.POST("/announcements/:announcement_id/like", engagementHandler.LikeAnnouncement)
			authorized.POST("/announcements/:announcement_id/dislike", engagementHandler.DislikeAnnouncement)

			authorized.POST("/playlists", playlistHandler.AddPlaylist)
			authorized.GET("/playlists/by-title", playlistHandler.GetPlaylistByTitle)
			authorized.GET("/playlists/save-data", playlistHandler.GetSavePlaylistData)
			authorized.POST("/playlists/:playlist_id/videos/:video_id", playlistHandler.ToggleVideo)
		}
	}

	return r
}
