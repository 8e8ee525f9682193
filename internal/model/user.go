package model

type User struct {
	BaseModel        // 包括 ID, CreatedAt, UpdatedAt, DeletedAt
	Username  string `gorm:"unique;not null"`
	Password  string `gorm:"not null"`
	// 头像地址，媒体托管是外部服务，这里只存一个URL字符串
	AvatarURL string
}
