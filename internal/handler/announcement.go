package handler

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/service"
	"Orion_Tube/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AnnouncementHandler interface {
	CreateAnnouncement(c *gin.Context)
	GetAnnouncementsByUser(c *gin.Context)
}

type announcementHandler struct {
	AnnouncementService service.AnnouncementService
}

func NewAnnouncementHandler(announcementService service.AnnouncementService) AnnouncementHandler {
	return &announcementHandler{AnnouncementService: announcementService}
}

type CreateAnnouncementRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *announcementHandler) CreateAnnouncement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID)

	var req CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, logCtx, err)
		return
	}
	announcement, err := h.AnnouncementService.AddAnnouncement(c.Request.Context(), userID, req.Message)
	if err != nil {
		sendServiceError(c, logCtx, err, "发布公告")
		return
	}
	logCtx.WithField("announcement_id", announcement.ID).Info("公告发布成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "公告发布成功",
		"data":    dto.ToAnnouncementResponse(announcement),
	})
}

func (h *announcementHandler) GetAnnouncementsByUser(c *gin.Context) {
	userID := c.Param("user_id")
	logCtx := logger.Log.WithField("user_id", userID)

	list, err := h.AnnouncementService.GetAnnouncementsByUser(c.Request.Context(), userID, viewerID(c))
	if err != nil {
		sendServiceError(c, logCtx, err, "获取公告")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}
