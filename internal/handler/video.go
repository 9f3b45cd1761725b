package handler

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/service"
	"Orion_Tube/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type VideoHandler interface {
	CreateVideo(c *gin.Context)
	UpdateVideo(c *gin.Context)
	PublishVideo(c *gin.Context)
	DeleteVideo(c *gin.Context)

	GetVideoByID(c *gin.Context)
	GetVideosByUser(c *gin.Context)
	GetRandomVideos(c *gin.Context)
	SearchVideos(c *gin.Context)
}

type videoHandler struct {
	VideoService service.VideoService
}

func NewVideoHandler(videoService service.VideoService) VideoHandler {
	return &videoHandler{VideoService: videoService}
}

type CreateVideoRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
	VideoURL     string `json:"videoUrl" binding:"required"`
}

type UpdateVideoRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnailUrl"`
}

// 创建视频：1、提取Body和context中的userID 2、service层创建（默认不公开） 3、通过dto返回
func (h *videoHandler) CreateVideo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	// 蛇形命名法（日志聚合平台ELK、前端JavaScript）
	logCtx := logger.Log.WithField("user_id", userID)

	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, logCtx, err)
		return
	}
	logCtx.Info("开始处理创建视频请求")

	video, err := h.VideoService.CreateVideo(c.Request.Context(), userID, service.CreateVideoInput{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		VideoURL:     req.VideoURL,
	})
	if err != nil {
		sendServiceError(c, logCtx, err, "创建视频")
		return
	}
	// 没有赋值，临时追加上下文，避免污染后续其他日志
	logCtx.WithField("video_id", video.ID).Info("视频创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "视频创建成功",
		"data":    dto.ToVideoResponse(video),
	})
}

func (h *videoHandler) UpdateVideo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	videoID := c.Param("video_id")
	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)

	var req UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, logCtx, err)
		return
	}
	video, err := h.VideoService.UpdateVideo(c.Request.Context(), userID, videoID, service.UpdateVideoInput{
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		sendServiceError(c, logCtx, err, "修改视频")
		return
	}
	logCtx.Info("视频修改成功")
	c.JSON(http.StatusOK, gin.H{
		"message": "视频修改成功",
		"data":    dto.ToVideoResponse(video),
	})
}

func (h *videoHandler) PublishVideo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	videoID := c.Param("video_id")
	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)

	video, err := h.VideoService.PublishVideo(c.Request.Context(), userID, videoID)
	if err != nil {
		sendServiceError(c, logCtx, err, "切换发布状态")
		return
	}
	logCtx.WithField("publish", video.Publish).Info("发布状态已切换")
	c.JSON(http.StatusOK, gin.H{
		"message": "发布状态已切换",
		"data":    dto.ToVideoResponse(video),
	})
}

func (h *videoHandler) DeleteVideo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	videoID := c.Param("video_id")
	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)

	if err := h.VideoService.DeleteVideo(c.Request.Context(), userID, videoID); err != nil {
		sendServiceError(c, logCtx, err, "删除视频")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "视频已删除"})
}

// 视频详情，匿名也能看，登录用户额外带上赞/踩/关注状态
func (h *videoHandler) GetVideoByID(c *gin.Context) {
	videoID := c.Param("video_id")
	logCtx := logger.Log.WithField("video_id", videoID)

	detail, err := h.VideoService.GetVideoByID(c.Request.Context(), videoID, viewerID(c))
	if err != nil {
		sendServiceError(c, logCtx, err, "查找视频")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": detail})
}

func (h *videoHandler) GetVideosByUser(c *gin.Context) {
	userID := c.Param("user_id")
	logCtx := logger.Log.WithField("user_id", userID)

	list, err := h.VideoService.GetVideosByUser(c.Request.Context(), userID, viewerID(c))
	if err != nil {
		sendServiceError(c, logCtx, err, "获取用户视频")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// 随机推荐，n默认10
func (h *videoHandler) GetRandomVideos(c *gin.Context) {
	// 攻击溯源，用户分析，问题排查
	logCtx := logger.Log.WithField("ip", c.ClientIP())

	n, err := strconv.Atoi(c.DefaultQuery("n", "10"))
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的n")
		return
	}
	list, err := h.VideoService.GetRandomVideos(c.Request.Context(), n, viewerID(c))
	if err != nil {
		sendServiceError(c, logCtx, err, "获取随机视频")
		return
	}
	logCtx.WithField("count", len(list.Videos)).Info("成功获取随机视频")
	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *videoHandler) SearchVideos(c *gin.Context) {
	query := c.Query("q")
	logCtx := logger.Log.WithField("q", query)

	list, err := h.VideoService.SearchVideos(c.Request.Context(), query, viewerID(c))
	if err != nil {
		sendServiceError(c, logCtx, err, "搜索视频")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}
