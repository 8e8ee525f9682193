package service

import (
	"Vega_Tube/internal/data"
	"Vega_Tube/internal/dto"
	"Vega_Tube/internal/model"
	"Vega_Tube/internal/repository"
	"errors"

	"gorm.io/gorm"
)

type VoteService interface {
	// CastVote 给评论投一票，polarity是"like"或"dislike"
	// 重复投同方向等于没变化，投反方向等于换票
	CastVote(userID, commentID uint64, polarity string) error
	// RemoveVote 撤掉自己在这条评论上的表态
	RemoveVote(userID, commentID uint64) error
}

type voteService struct {
	commentRepo repository.CommentRepository
	voteRepo    repository.VoteRepository
	uow         data.UnitOfWork
}

func NewVoteService(commentRepo repository.CommentRepository, voteRepo repository.VoteRepository, uow data.UnitOfWork) VoteService {
	return &voteService{
		commentRepo: commentRepo,
		voteRepo:    voteRepo,
		uow:         uow,
	}
}

// 投票：1、校验方向 2、确认评论存在 3、事务内先删掉该用户的旧票，再插入新票
// “一人一票”就是靠这个先删后插维持的，表上没有唯一索引
// 两步包在同一个事务里，双击party也不会留下重复票
func (s *voteService) CastVote(userID, commentID uint64, polarity string) error {
	if polarity != model.PolarityLike && polarity != model.PolarityDislike {
		return errors.New("无效的投票方向")
	}
	if _, err := s.commentRepo.FindByID(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("评论不存在")
		}
		return err
	}
	return s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		// 不管旧票是什么方向，先清掉
		if err := repos.VoteRepo.DeleteByCommentAndUser(commentID, userID); err != nil {
			return err
		}
		newVote := &model.CommentVote{
			CommentID: commentID,
			UserID:    userID,
			Polarity:  polarity,
		}
		return repos.VoteRepo.Create(newVote)
	})
}

// 撤票：1、确认评论存在 2、删掉该用户在这条评论上的票
// 没投过票也算成功，删除本身就是幂等的
func (s *voteService) RemoveVote(userID, commentID uint64) error {
	if _, err := s.commentRepo.FindByID(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("评论不存在")
		}
		return err
	}
	return s.voteRepo.DeleteByCommentAndUser(commentID, userID)
}

// summarizeVotes 把一条评论的全部投票记录归约成聚合结果（纯函数，无副作用）
// 零票的评论两边都是{count:0,status:false}，绝不会返回“空”
func summarizeVotes(votes []model.CommentVote, viewerID uint64) dto.VoteSummary {
	var summary dto.VoteSummary
	for _, v := range votes {
		switch v.Polarity {
		case model.PolarityLike:
			summary.Like.Count++
			if v.UserID == viewerID {
				summary.Like.Status = true
			}
		case model.PolarityDislike:
			summary.Dislike.Count++
			if v.UserID == viewerID {
				summary.Dislike.Status = true
			}
		}
	}
	return summary
}
