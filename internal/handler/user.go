package handler

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/service"
	"Orion_Tube/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	GetChannel(c *gin.Context)
	GetFollowings(c *gin.Context)
	GetDashboard(c *gin.Context)
	UpdateProfile(c *gin.Context)
}

// 对Service进行封装
type userHandler struct {
	UserService service.UserService
}

func NewUserHandler(userService service.UserService) UserHandler {
	return &userHandler{UserService: userService}
}

type UpdateProfileRequest struct {
	Name            *string `json:"name" binding:"omitempty,max=64"`
	Handle          *string `json:"handle" binding:"omitempty,max=64"`
	Description     *string `json:"description"`
	Image           *string `json:"image"`
	BackgroundImage *string `json:"backgroundImage"`
}

// 频道页：粉丝数、关注数、观看者是否已关注
func (h *userHandler) GetChannel(c *gin.Context) {
	userID := c.Param("user_id")
	logCtx := logger.Log.WithField("user_id", userID)

	channel, err := h.UserService.GetChannelByID(c.Request.Context(), userID, viewerID(c))
	if err != nil {
		sendServiceError(c, logCtx, err, "获取频道")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": channel})
}

func (h *userHandler) GetFollowings(c *gin.Context) {
	userID := c.Param("user_id")
	logCtx := logger.Log.WithField("user_id", userID)

	followings, err := h.UserService.GetUserFollowings(c.Request.Context(), userID, viewerID(c))
	if err != nil {
		sendServiceError(c, logCtx, err, "获取关注列表")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": followings})
}

// 创作者面板只看自己的
func (h *userHandler) GetDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID)

	dashboard, err := h.UserService.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取创作者面板")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dashboard})
}

func (h *userHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", userID)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, logCtx, err)
		return
	}
	user, err := h.UserService.UpdateUser(c.Request.Context(), userID, service.UpdateUserInput{
		Name:            req.Name,
		Handle:          req.Handle,
		Description:     req.Description,
		Image:           req.Image,
		BackgroundImage: req.BackgroundImage,
	})
	if err != nil {
		sendServiceError(c, logCtx, err, "修改资料")
		return
	}
	logCtx.Info("资料修改成功")
	c.JSON(http.StatusOK, gin.H{
		"message": "资料修改成功",
		"data":    dto.ToUserResponse(user),
	})
}
