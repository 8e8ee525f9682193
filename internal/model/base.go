package model

import (
	"time"

	"gorm.io/gorm"
)

// gorm自带的gorm.Model里ID是uint类型，项目里统一用uint64，所以自己定义一个base结构体
// ID是MySQL的AUTO_INCREMENT主键，天然单调递增，评论Feed的游标分页就靠它做次排序键（tie-break）
type BaseModel struct {
	ID        uint64 `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
