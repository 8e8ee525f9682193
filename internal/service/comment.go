package service

import (
	"Vega_Tube/internal/data"
	"Vega_Tube/internal/dto"
	"Vega_Tube/internal/model"
	"Vega_Tube/internal/repository"
	"errors"
	"strings"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("评论不存在")
	ErrVideoNotFound   = errors.New("视频不存在")
	ErrEmptyContent    = errors.New("评论内容不能为空")
	ErrNotCommentOwner = errors.New("只能操作自己的评论")
	ErrNotChannelOwner = errors.New("只有视频作者才能执行该操作")
)

type CommentService interface {
	// 在视频下创建评论
	CreateComment(userID, videoID uint64, content string) (*model.Comment, error)
	// 编辑自己的评论，编辑后打上edited标记
	EditComment(userID, commentID uint64, content string) (*model.Comment, error)
	// 删除评论（作者本人或频道主），连同它的投票记录一起删
	DeleteComment(userID, commentID uint64) error
	// 置顶/取消置顶，只有频道主（视频作者）有权限
	SetPinned(userID, commentID uint64, pinned bool) error
	// 红心/取消红心，同样只有频道主有权限
	SetHearted(userID, commentID uint64, hearted bool) error

	// 获取视频的评论Feed：置顶+自己的+其他人的三段合并，游标分页，详见feed.go
	GetCommentFeed(videoID, viewerID uint64, params FeedParams) (*dto.FeedPage, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	voteRepo    repository.VoteRepository
	videoRepo   repository.VideoRepository
	uow         data.UnitOfWork

	rdb *redis.Client
}

func NewCommentService(commentRepo repository.CommentRepository, voteRepo repository.VoteRepository, videoRepo repository.VideoRepository, uow data.UnitOfWork, rdb *redis.Client) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		voteRepo:    voteRepo,
		videoRepo:   videoRepo,
		uow:         uow,
		rdb:         rdb,
	}
}

// 创建评论：1、内容trim后不能为空 2、确认视频存在 3、创建 4、带着Preload的User再查一遍返回
func (s *commentService) CreateComment(userID, videoID uint64, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if _, err := s.videoRepo.FindByID(videoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	newComment := &model.Comment{
		UserID:  userID,
		VideoID: videoID,
		Content: content,
	}
	if err := s.commentRepo.Create(newComment); err != nil {
		return nil, err
	}
	// 评论数变了，把总数缓存删掉，下次Feed请求会重算
	s.invalidateCountCache(videoID)
	// 创建成功后，立刻把它带着关联数据再查出来，FindByID能顺带Preload出User结构体
	return s.commentRepo.FindByID(newComment.ID)
}

// 编辑评论：1、新内容trim后不能为空 2、只有作者本人能编辑 3、替换内容并打上edited标记
func (s *commentService) EditComment(userID, commentID uint64, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrNotCommentOwner
	}
	comment.Content = content
	comment.Edited = true
	if err := s.commentRepo.Save(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// 删除评论：1、作者本人或频道主才能删 2、事务内先删投票记录，再删评论
// 评论没了票还在就是脏数据，所以必须同一个事务
func (s *commentService) DeleteComment(userID, commentID uint64) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.UserID != userID {
		// 不是作者本人，看看是不是频道主
		video, err := s.videoRepo.FindByID(comment.VideoID)
		if err != nil || video.AuthorID != userID {
			return ErrNotCommentOwner
		}
	}
	err = s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if err := repos.VoteRepo.DeleteByCommentID(commentID); err != nil {
			return err
		}
		return repos.CommentRepo.Delete(commentID)
	})
	if err != nil {
		return err
	}
	s.invalidateCountCache(comment.VideoID)
	return nil
}

// 置顶/取消置顶：只有视频作者（频道主）有这个权限
func (s *commentService) SetPinned(userID, commentID uint64, pinned bool) error {
	comment, err := s.requireChannelOwner(userID, commentID)
	if err != nil {
		return err
	}
	comment.Pinned = pinned
	return s.commentRepo.Save(comment)
}

// 红心/取消红心：权限同置顶
func (s *commentService) SetHearted(userID, commentID uint64, hearted bool) error {
	comment, err := s.requireChannelOwner(userID, commentID)
	if err != nil {
		return err
	}
	comment.Hearted = hearted
	return s.commentRepo.Save(comment)
}

// 私有方法，校验userID确实是这条评论所属视频的作者，校验通过则返回评论本身
func (s *commentService) requireChannelOwner(userID, commentID uint64) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	video, err := s.videoRepo.FindByID(comment.VideoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	if video.AuthorID != userID {
		return nil, ErrNotChannelOwner
	}
	return comment, nil
}
