package service

import (
	"Vega_Tube/internal/dto"
	"Vega_Tube/internal/model"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Feed的排序模式：newest按创建时间，top按赞数，两种模式都用评论ID做次排序键
type FeedSort string

const (
	FeedSortNewest FeedSort = "newest"
	FeedSortTop    FeedSort = "top"

	// 默认每页取5条“其他人”的评论
	DefaultFeedLimit = 5
)

// FeedCursor 是客户端带回来的翻页位置：上一页最后一条评论的(ID, 排序键)
// newest模式用CreatedAt，top模式用LikeCount，另一个字段留零值
type FeedCursor struct {
	ID        uint64
	CreatedAt time.Time
	LikeCount uint64
}

// FeedParams 是一次Feed请求的全部参数
// Cursor为nil就是第一页——客户端第一次请求必须什么游标字段都不带
type FeedParams struct {
	Limit  int
	SortBy FeedSort
	Cursor *FeedCursor
}

// 获取评论Feed：1、首页才取置顶子集P和观看者自己的子集U（全量，不分页）
// 2、取“其他人”子集O的候选集 3、一次SQL把所有候选评论的投票记录查回来，逐条聚合
// 4、对O做严格小于的keyset过滤、双键倒序排序、截断到limit 5、算hasMore和下一页游标
// 6、按 P → U → O 固定顺序拼成一页，附上视频的评论总数
//
// P和U不分页是有意为之：置顶评论和单个用户在一个视频下的评论天然是小集合
// 如果哪天这个假设不成立了，就得给它们各自加游标，现在先不做
func (s *commentService) GetCommentFeed(videoID, viewerID uint64, params FeedParams) (*dto.FeedPage, error) {
	if params.Limit <= 0 {
		params.Limit = DefaultFeedLimit
	}
	if params.SortBy != FeedSortTop {
		// 不认识的排序模式一律按newest处理，不报错
		params.SortBy = FeedSortNewest
	}
	// “第一页”的判定是无状态的：只看游标在不在
	firstPage := params.Cursor == nil

	var pinned, own []model.Comment
	var err error
	if firstPage {
		pinned, err = s.commentRepo.FindPinned(videoID)
		if err != nil {
			return nil, err
		}
		own, err = s.commentRepo.FindOwn(videoID, viewerID)
		if err != nil {
			return nil, err
		}
	}
	others, err := s.commentRepo.FindOthers(videoID, viewerID)
	if err != nil {
		return nil, err
	}

	// 整页评论的投票记录一次查回来，按commentID分组，绝不一条评论一条SQL
	commentIDs := make([]uint64, 0, len(pinned)+len(own)+len(others))
	for _, c := range pinned {
		commentIDs = append(commentIDs, c.ID)
	}
	for _, c := range own {
		commentIDs = append(commentIDs, c.ID)
	}
	for _, c := range others {
		commentIDs = append(commentIDs, c.ID)
	}
	votes, err := s.voteRepo.FindByCommentIDs(commentIDs)
	if err != nil {
		return nil, err
	}
	votesByComment := make(map[uint64][]model.CommentVote)
	for _, v := range votes {
		votesByComment[v.CommentID] = append(votesByComment[v.CommentID], v)
	}

	p, err := enrichComments(pinned, votesByComment, viewerID)
	if err != nil {
		return nil, err
	}
	u, err := enrichComments(own, votesByComment, viewerID)
	if err != nil {
		return nil, err
	}
	o, err := enrichComments(others, votesByComment, viewerID)
	if err != nil {
		return nil, err
	}

	// 置顶子集固定按时间倒序（repo已排好），自己的子集跟随当前排序模式
	// 赞数是刚聚合出来的，top模式的排序只能在这里做，DB帮不上忙
	sortFeedComments(u, params.SortBy)

	// 游标过滤只作用于“其他人”子集，严格小于的keyset条件保证翻页不重不漏
	if params.Cursor != nil {
		filtered := o[:0]
		for _, c := range o {
			if afterCursor(c, *params.Cursor, params.SortBy) {
				filtered = append(filtered, c)
			}
		}
		o = filtered
	}
	sortFeedComments(o, params.SortBy)
	if len(o) > params.Limit {
		o = o[:params.Limit]
	}

	// hasMore是个启发式判断：取满了就认为后面还有
	// 剩余数量恰好等于limit时会多骗客户端请求一次空页，这个误差是接受的
	hasMore := len(o) == params.Limit
	var nextCursor *dto.FeedCursor
	if hasMore {
		last := o[len(o)-1]
		if params.SortBy == FeedSortTop {
			likeCount := last.Like.Count
			nextCursor = &dto.FeedCursor{ID: last.ID, LikeCount: &likeCount}
		} else {
			createdAt := last.CreatedAt
			nextCursor = &dto.FeedCursor{ID: last.ID, CreatedAt: &createdAt}
		}
	}

	// 总数是独立的一条count，不受置顶/自己/游标任何过滤影响，每一页都返回
	total, err := s.countCommentsCached(videoID)
	if err != nil {
		return nil, err
	}

	// 固定顺序拼接：置顶最前，自己的其次，其他人最后；非首页时P和U都是空的
	page := make([]dto.FeedComment, 0, len(p)+len(u)+len(o))
	page = append(page, p...)
	page = append(page, u...)
	page = append(page, o...)

	return &dto.FeedPage{
		Comments:   page,
		HasMore:    hasMore,
		NextCursor: nextCursor,
		Total:      total,
	}, nil
}

// enrichComments 给一批评论挂上作者资料和投票聚合
// 作者必须是Preload出来的，评论挂在不存在的作者上属于数据坏了，直接报错而不是悄悄跳过
func enrichComments(comments []model.Comment, votesByComment map[uint64][]model.CommentVote, viewerID uint64) ([]dto.FeedComment, error) {
	enriched := make([]dto.FeedComment, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		if c.User.ID == 0 {
			return nil, errors.New("评论作者不存在")
		}
		summary := summarizeVotes(votesByComment[c.ID], viewerID)
		enriched = append(enriched, dto.ToFeedComment(c, summary))
	}
	return enriched, nil
}

// 双键倒序排序：top是(赞数, ID)，newest是(创建时间, ID)，和游标过滤用同一套键
func sortFeedComments(comments []dto.FeedComment, sortBy FeedSort) {
	sort.SliceStable(comments, func(i, j int) bool {
		a, b := comments[i], comments[j]
		if sortBy == FeedSortTop {
			if a.Like.Count != b.Like.Count {
				return a.Like.Count > b.Like.Count
			}
			return a.ID > b.ID
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// afterCursor 判断一条评论是否排在游标之后（严格小于的keyset条件）
// 排序键相等时比ID，ID是全序的，所以就算一堆评论同一秒创建也不会重、不会漏
func afterCursor(c dto.FeedComment, cursor FeedCursor, sortBy FeedSort) bool {
	if sortBy == FeedSortTop {
		if c.Like.Count != cursor.LikeCount {
			return c.Like.Count < cursor.LikeCount
		}
		return c.ID < cursor.ID
	}
	if !c.CreatedAt.Equal(cursor.CreatedAt) {
		return c.CreatedAt.Before(cursor.CreatedAt)
	}
	return c.ID < cursor.ID
}

func keyCommentCount(videoID uint64) string {
	return fmt.Sprintf("video:comment_count:%d", videoID)
}

// 评论总数走一层短TTL的Redis缓存，Feed每页都要带total，没必要每次都count整张表
// TTL加随机抖动防止同时过期，短暂的数字不准是接受的（最终一致）
func (s *commentService) countCommentsCached(videoID uint64) (int64, error) {
	if s.rdb == nil {
		return s.commentRepo.CountByVideoID(videoID)
	}
	key := keyCommentCount(videoID)
	cached, err := s.rdb.Get(context.Background(), key).Result()
	if err == nil {
		if total, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
			return total, nil
		}
		// 缓存里是坏数据，当作未命中往下走
	} else if err != redis.Nil {
		// Redis本身出错了，降级为直接查库
		return s.commentRepo.CountByVideoID(videoID)
	}
	total, err := s.commentRepo.CountByVideoID(videoID)
	if err != nil {
		return 0, err
	}
	expiration := time.Second*30 + time.Duration(rand.Intn(10))*time.Second
	_ = s.rdb.Set(context.Background(), key, total, expiration).Err()
	return total, nil
}

// 评论增删之后把总数缓存删掉，失败就算了，TTL兜底
func (s *commentService) invalidateCountCache(videoID uint64) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(context.Background(), keyCommentCount(videoID)).Err()
}
