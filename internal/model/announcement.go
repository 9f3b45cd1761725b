package model

// 频道主页上的公告，点赞/点踩同样走EngagementEvent
type Announcement struct {
	BaseModel
	UserID  string `gorm:"type:varchar(36);not null;index"`
	Message string `gorm:"type:text;not null"`

	User User `gorm:"foreignKey:UserID"`
}
