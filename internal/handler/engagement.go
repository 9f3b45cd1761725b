package handler

import (
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/service"
	"Orion_Tube/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type EngagementHandler interface {
	ToggleFollow(c *gin.Context)
	LikeVideo(c *gin.Context)
	DislikeVideo(c *gin.Context)
	LikeComment(c *gin.Context)
	DislikeComment(c *gin.Context)
	LikeAnnouncement(c *gin.Context)
	DislikeAnnouncement(c *gin.Context)

	RecordView(c *gin.Context)
}

type engagementHandler struct {
	EngagementService service.EngagementService
}

func NewEngagementHandler(engagementService service.EngagementService) EngagementHandler {
	return &engagementHandler{EngagementService: engagementService}
}

// toggle 所有开关路由的公共流程：1、取出调用者 2、执行开关 3、返回走了哪个分支
func (h *engagementHandler) toggle(c *gin.Context, param, action string, fn func(actorID, subjectID string) (service.ToggleResult, error)) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	subjectID := c.Param(param)
	logCtx := logger.Log.WithField("user_id", actorID).WithField(param, subjectID)

	result, err := fn(actorID, subjectID)
	if err != nil {
		sendServiceError(c, logCtx, err, action)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": action + "成功",
		"data":    toToggleResponse(result),
	})
}

func (h *engagementHandler) ToggleFollow(c *gin.Context) {
	h.toggle(c, "user_id", "关注", func(actorID, userID string) (service.ToggleResult, error) {
		return h.EngagementService.ToggleFollow(c.Request.Context(), actorID, userID)
	})
}

func (h *engagementHandler) LikeVideo(c *gin.Context) {
	h.toggle(c, "video_id", "点赞", func(actorID, videoID string) (service.ToggleResult, error) {
		return h.EngagementService.ToggleLike(c.Request.Context(), actorID, videoID)
	})
}

func (h *engagementHandler) DislikeVideo(c *gin.Context) {
	h.toggle(c, "video_id", "点踩", func(actorID, videoID string) (service.ToggleResult, error) {
		return h.EngagementService.ToggleDislike(c.Request.Context(), actorID, videoID)
	})
}

func (h *engagementHandler) LikeComment(c *gin.Context) {
	h.toggle(c, "comment_id", "评论点赞", func(actorID, commentID string) (service.ToggleResult, error) {
		return h.EngagementService.ToggleCommentReaction(c.Request.Context(), actorID, commentID, model.KindLike)
	})
}

func (h *engagementHandler) DislikeComment(c *gin.Context) {
	h.toggle(c, "comment_id", "评论点踩", func(actorID, commentID string) (service.ToggleResult, error) {
		return h.EngagementService.ToggleCommentReaction(c.Request.Context(), actorID, commentID, model.KindDislike)
	})
}

func (h *engagementHandler) LikeAnnouncement(c *gin.Context) {
	h.toggle(c, "announcement_id", "公告点赞", func(actorID, announcementID string) (service.ToggleResult, error) {
		return h.EngagementService.ToggleAnnouncementReaction(c.Request.Context(), actorID, announcementID, model.KindLike)
	})
}

func (h *engagementHandler) DislikeAnnouncement(c *gin.Context) {
	h.toggle(c, "announcement_id", "公告点踩", func(actorID, announcementID string) (service.ToggleResult, error) {
		return h.EngagementService.ToggleAnnouncementReaction(c.Request.Context(), actorID, announcementID, model.KindDislike)
	})
}

// 记录一次播放，匿名也记
func (h *engagementHandler) RecordView(c *gin.Context) {
	videoID := c.Param("video_id")
	actorID := viewerID(c)
	logCtx := logger.Log.WithField("user_id", actorID).WithField("video_id", videoID)

	if err := h.EngagementService.RecordView(c.Request.Context(), actorID, videoID); err != nil {
		sendServiceError(c, logCtx, err, "记录播放")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "播放已记录"})
}
