package handler

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/service"
	"Orion_Tube/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PlaylistHandler interface {
	AddPlaylist(c *gin.Context)
	GetPlaylistByID(c *gin.Context)
	GetPlaylistByTitle(c *gin.Context)
	GetPlaylistsByUser(c *gin.Context)
	GetSavePlaylistData(c *gin.Context)
	ToggleVideo(c *gin.Context)
}

type playlistHandler struct {
	PlaylistService service.PlaylistService
}

func NewPlaylistHandler(playlistService service.PlaylistService) PlaylistHandler {
	return &playlistHandler{PlaylistService: playlistService}
}

type AddPlaylistRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description" binding:"omitempty,min=5,max=50"`
}

func (h *playlistHandler) AddPlaylist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID)

	var req AddPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, logCtx, err)
		return
	}
	playlist, err := h.PlaylistService.AddPlaylist(c.Request.Context(), userID, req.Title, req.Description)
	if err != nil {
		sendServiceError(c, logCtx, err, "创建播放列表")
		return
	}
	logCtx.WithField("playlist_id", playlist.ID).Info("播放列表创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "播放列表创建成功",
		"data":    dto.ToPlaylistResponse(playlist),
	})
}

func (h *playlistHandler) GetPlaylistByID(c *gin.Context) {
	playlistID := c.Param("playlist_id")
	logCtx := logger.Log.WithField("playlist_id", playlistID)

	detail, err := h.PlaylistService.GetPlaylistByID(c.Request.Context(), playlistID, viewerID(c))
	if err != nil {
		sendServiceError(c, logCtx, err, "获取播放列表")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": detail})
}

// 按标题取自己的播放列表，“Liked Videos”和“History”第一次访问时自动创建
func (h *playlistHandler) GetPlaylistByTitle(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	title := c.Query("title")
	logCtx := logger.Log.WithField("user_id", userID).WithField("title", title)

	detail, err := h.PlaylistService.GetPlaylistByTitle(c.Request.Context(), userID, title)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取播放列表")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": detail})
}

func (h *playlistHandler) GetPlaylistsByUser(c *gin.Context) {
	userID := c.Param("user_id")
	logCtx := logger.Log.WithField("user_id", userID)

	list, err := h.PlaylistService.GetPlaylistsByUser(c.Request.Context(), userID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取播放列表")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *playlistHandler) GetSavePlaylistData(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID)

	playlists, err := h.PlaylistService.GetSavePlaylistData(c.Request.Context(), userID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取播放列表")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": playlists})
}

func (h *playlistHandler) ToggleVideo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	playlistID := c.Param("playlist_id")
	videoID := c.Param("video_id")
	logCtx := logger.Log.WithField("user_id", userID).WithField("playlist_id", playlistID).WithField("video_id", videoID)

	result, err := h.PlaylistService.ToggleVideoInPlaylist(c.Request.Context(), userID, playlistID, videoID)
	if err != nil {
		sendServiceError(c, logCtx, err, "修改播放列表")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "播放列表已更新",
		"data":    toToggleResponse(result),
	})
}
