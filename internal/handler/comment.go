package handler

import (
	"Orion_Tube/internal/service"
	"Orion_Tube/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CommentHandler interface {
	CreateCommentForVideo(c *gin.Context)
}

type commentHandler struct {
	CommentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) CommentHandler {
	return &commentHandler{CommentService: commentService}
}

type CreateCommentRequest struct {
	Message string `json:"message" binding:"required"`
}

// 视频评论：1、取出videoID和调用者 2、解析Body 3、创建评论并返回带作者的评论
func (h *commentHandler) CreateCommentForVideo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	videoID := c.Param("video_id")
	// 正式进入业务前，将logger格式整理好
	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, logCtx, err)
		return
	}
	logCtx.Info("开始创建评论")
	comment, err := h.CommentService.AddComment(c.Request.Context(), userID, videoID, req.Message)
	if err != nil {
		sendServiceError(c, logCtx, err, "评论")
		return
	}
	logCtx.WithField("comment_id", comment.Comment.ID).Info("评论创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "评论成功",
		"data":    comment,
	})
}
