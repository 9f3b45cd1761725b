package model

// 频道即用户，没有密码字段：登录态由外部签发的JWT携带
type User struct {
	BaseModel
	Name            string
	Email           string `gorm:"index"`
	Image           string
	BackgroundImage string
	Handle          string `gorm:"index"`
	Description     string `gorm:"type:text"`
}
