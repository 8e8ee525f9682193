package model

type Comment struct {
	BaseModel
	VideoID uint64 `gorm:"not null;index"` // index索引，Feed查询全靠video_id过滤
	UserID  uint64 `gorm:"not null;index"`
	// TEXT是MySQL的文本类型，最大长度65,535字符，评论内容不做长度限制
	Content string `gorm:"type:text;not null"`
	// 编辑过的评论要打上标记，前端会显示“已编辑”
	Edited bool `gorm:"default:false"`
	// 频道主（视频作者）置顶的评论，Feed首页永远排在最前面
	Pinned bool `gorm:"default:false"`
	// 频道主“红心”过的评论，只是一个展示标记，不影响排序
	Hearted bool `gorm:"default:false"`

	// 评论的作者，Feed返回时必须带出作者的公开资料，所以每次查询都Preload
	User User `gorm:"foreignKey:UserID"`
}

// 想精确控制表名，就必须实现TableName()方法规定表名
func (Comment) TableName() string {
	return "comments"
}
