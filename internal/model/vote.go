package model

const (
	PolarityLike    = "like"
	PolarityDislike = "dislike"
)

// CommentVote是一个用户对一条评论的一次表态，方向只有like和dislike两种
// 注意这里故意没有(comment_id, user_id)唯一索引：
// “一人一票”靠投票时先删后插来维持，两步操作包在同一个事务里
type CommentVote struct {
	BaseModel
	CommentID uint64 `gorm:"not null;index"`
	UserID    uint64 `gorm:"not null"`
	Polarity  string `gorm:"type:varchar(16);not null"` // "like" 或 "dislike"
}

func (CommentVote) TableName() string {
	return "comment_votes"
}
