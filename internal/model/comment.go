package model

type Comment struct {
	BaseModel
	VideoID string `gorm:"type:varchar(36);not null;index"` // index索引，加速按视频查评论
	UserID  string `gorm:"type:varchar(36);not null;index"`
	Message string `gorm:"type:text;not null"`

	User User `gorm:"foreignKey:UserID"`
}

func (Comment) TableName() string {
	return "comments"
}
