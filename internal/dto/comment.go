package dto

import (
	"Vega_Tube/internal/model"
	"time"
)

// UserInfo 是在DTO中使用的、简化的用户公开信息（id/头像/名字）
type UserInfo struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// VoteSide 是单个方向（like或dislike）的聚合结果
// count是这个方向的总票数，status表示“当前观看者”是否投过这个方向的票
type VoteSide struct {
	Count  uint64 `json:"count"`
	Status bool   `json:"status"`
}

// VoteSummary 是一条评论的完整投票聚合，零票的评论两边都是{count:0,status:false}，绝不会缺省
type VoteSummary struct {
	Like    VoteSide `json:"like"`
	Dislike VoteSide `json:"dislike"`
}

// FeedComment 是评论在Feed中的最终形态：公开字段+作者资料+投票聚合
type FeedComment struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Edited    bool      `json:"edited"`
	Pinned    bool      `json:"pinned"`
	Hearted   bool      `json:"hearted"`
	Author    UserInfo  `json:"author"`
	Like      VoteSide  `json:"like"`
	Dislike   VoteSide  `json:"dislike"`
}

// FeedCursor 是返回给客户端的“下一页”游标，客户端原样带回即可翻页
// newest模式带cursor（创建时间），top模式带likeCount，id两种模式都带
type FeedCursor struct {
	ID        uint64     `json:"id"`
	CreatedAt *time.Time `json:"cursor,omitempty"`
	LikeCount *uint64    `json:"likeCount,omitempty"`
}

// FeedPage 是一次Feed请求的完整响应数据
type FeedPage struct {
	Comments   []FeedComment `json:"comments"`
	HasMore    bool          `json:"hasMore"`
	NextCursor *FeedCursor   `json:"nextCursor"`
	Total      int64         `json:"total"`
}

// ToFeedComment 把数据库模型+投票聚合拼成Feed里的一条评论
// 作者信息来自Preload出来的User，调用方负责先确认User确实被查出来了
func ToFeedComment(comment *model.Comment, votes VoteSummary) FeedComment {
	return FeedComment{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Edited:    comment.Edited,
		Pinned:    comment.Pinned,
		Hearted:   comment.Hearted,
		Author: UserInfo{
			ID:        comment.User.ID,
			Username:  comment.User.Username,
			AvatarURL: comment.User.AvatarURL,
		},
		Like:    votes.Like,
		Dislike: votes.Dislike,
	}
}

// CommentResponse 是单条评论操作（创建/编辑）的响应结构，不带投票聚合
type CommentResponse struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Edited    bool      `json:"edited"`
	Pinned    bool      `json:"pinned"`
	Hearted   bool      `json:"hearted"`
	Author    UserInfo  `json:"author"`
}

func ToCommentResponse(comment *model.Comment) *CommentResponse {
	resp := &CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Edited:    comment.Edited,
		Pinned:    comment.Pinned,
		Hearted:   comment.Hearted,
	}
	// 安全地填充作者信息，没Preload出来就只留零值
	if comment.User.ID != 0 {
		resp.Author = UserInfo{
			ID:        comment.User.ID,
			Username:  comment.User.Username,
			AvatarURL: comment.User.AvatarURL,
		}
	}
	return resp
}
