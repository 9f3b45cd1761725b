package dto

import (
	"Orion_Tube/internal/model"
	"time"
)

// ReactionViewer 评论和公告只有赞/踩两种互动
type ReactionViewer struct {
	HasLiked    bool `json:"hasLiked"`
	HasDisliked bool `json:"hasDisliked"`
}

type CommentResponse struct {
	ID        string          `json:"id"`
	VideoID   string          `json:"videoId"`
	UserID    string          `json:"userId"`
	Message   string          `json:"message"`
	CreatedAt time.Time       `json:"createdAt"`
	Likes     int64           `json:"likes"`
	Dislikes  int64           `json:"dislikes"`
	Viewer    *ReactionViewer `json:"viewer,omitempty"`
}

type CommentWithUser struct {
	User    UserResponse    `json:"user"`
	Comment CommentResponse `json:"comment"`
}

func ToCommentResponse(comment *model.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		VideoID:   comment.VideoID,
		UserID:    comment.UserID,
		Message:   comment.Message,
		CreatedAt: comment.CreatedAt,
	}
}
