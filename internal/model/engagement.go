package model

import (
	"fmt"
	"time"
)

type EngagementKind string

const (
	KindView    EngagementKind = "VIEW"
	KindLike    EngagementKind = "LIKE"
	KindDislike EngagementKind = "DISLIKE"
	KindFollow  EngagementKind = "FOLLOW"
)

// Toggleable LIKE/DISLIKE/FOLLOW是“存在即开”的开关，VIEW只增不减
func (k EngagementKind) Toggleable() bool {
	return k == KindLike || k == KindDislike || k == KindFollow
}

func (k EngagementKind) Valid() bool {
	return k == KindView || k.Toggleable()
}

type SubjectType string

const (
	SubjectVideo        SubjectType = "VIDEO"
	SubjectUser         SubjectType = "USER"
	SubjectComment      SubjectType = "COMMENT"
	SubjectAnnouncement SubjectType = "ANNOUNCEMENT"
)

// EngagementEvent 记录“谁对什么做了什么”，所有计数都靠实时COUNT这张表得出
type EngagementEvent struct {
	ID          uint64 `gorm:"primarykey"`
	CreatedAt   time.Time
	SubjectType SubjectType    `gorm:"type:varchar(16);not null;index:idx_engagement_subject"`
	SubjectID   string         `gorm:"type:varchar(36);not null;index:idx_engagement_subject"`
	Kind        EngagementKind `gorm:"type:varchar(16);not null;index:idx_engagement_subject"`
	// 匿名播放时为空
	ActorID string `gorm:"type:varchar(36);index"`
	// VIEW为NULL不去重；开关类事件写入actor:type:subject:kind，由唯一索引兜住并发重复插入
	DedupKey *string `gorm:"type:varchar(160);uniqueIndex"`
}

func (EngagementEvent) TableName() string {
	return "engagement_events"
}

// DedupKeyFor 计算开关类事件的唯一键
func DedupKeyFor(actorID string, subjectType SubjectType, subjectID string, kind EngagementKind) *string {
	if !kind.Toggleable() {
		return nil
	}
	key := fmt.Sprintf("%s:%s:%s:%s", actorID, subjectType, subjectID, kind)
	return &key
}
