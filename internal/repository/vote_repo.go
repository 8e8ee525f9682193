package repository

import (
	"Vega_Tube/internal/model"
	"Vega_Tube/pkg/logger"

	"gorm.io/gorm"
)

type VoteRepository interface {
	Create(vote *model.CommentVote) error
	// DeleteByCommentAndUser 删掉一个用户在一条评论上的所有表态
	// 投票是“先删后插”，所以删除必须把该用户的旧票清干净，而不是只删一条
	DeleteByCommentAndUser(commentID, userID uint64) error
	DeleteByCommentID(commentID uint64) error
	DeleteByCommentIDs(commentIDs []uint64) error

	// FindByCommentIDs 一次性取回一批评论的全部投票记录
	// Feed聚合赞数时整页评论只查这一次，绝不能一条评论一条SQL地查
	FindByCommentIDs(commentIDs []uint64) ([]model.CommentVote, error)

	WithTx(tx *gorm.DB) VoteRepository
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) WithTx(tx *gorm.DB) VoteRepository {
	return &voteRepository{db: tx}
}

func (r *voteRepository) Create(vote *model.CommentVote) error {
	result := r.db.Create(vote)
	if result.Error != nil {
		logger.Log.WithError(result.Error).Error("MySQL插入投票记录失败")
		return result.Error
	}
	return nil
}

// 之前在likes表上被gorm的Delete“翻译”坑过一次，条件删除统一用原生SQL，行为一目了然
func (r *voteRepository) DeleteByCommentAndUser(commentID, userID uint64) error {
	result := r.db.Exec("DELETE FROM comment_votes WHERE comment_id = ? AND user_id = ?", commentID, userID)
	if result.Error != nil {
		logger.Log.WithError(result.Error).Error("MySQL删除投票记录失败")
		return result.Error
	}
	return nil
}

func (r *voteRepository) DeleteByCommentID(commentID uint64) error {
	return r.db.Exec("DELETE FROM comment_votes WHERE comment_id = ?", commentID).Error
}

func (r *voteRepository) DeleteByCommentIDs(commentIDs []uint64) error {
	if len(commentIDs) == 0 {
		return nil
	}
	return r.db.Exec("DELETE FROM comment_votes WHERE comment_id IN (?)", commentIDs).Error
}

func (r *voteRepository) FindByCommentIDs(commentIDs []uint64) ([]model.CommentVote, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}
	var votes []model.CommentVote
	err := r.db.
		Where("comment_id IN (?)", commentIDs).
		Find(&votes).Error
	return votes, err
}
