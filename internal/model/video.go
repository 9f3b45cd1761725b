package model

type Video struct {
	BaseModel
	UserID       string `gorm:"type:varchar(36);not null;index"` // 作者（拥有者）
	Title        string
	Description  string `gorm:"type:text"`
	ThumbnailURL string
	VideoURL     string `gorm:"not null"`
	// 只有Publish为true的视频才会出现在公开列表里
	Publish bool `gorm:"default:false;index"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (v *Video) OwnerID() string {
	return v.UserID
}
