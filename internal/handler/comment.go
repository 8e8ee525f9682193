package handler

import (
	"Vega_Tube/internal/service"
	"Vega_Tube/pkg/logger"
	"errors"
	"net/http"
	"strconv"
	"time"

	"Vega_Tube/internal/dto"

	"github.com/gin-gonic/gin"
)

type CommentHandler interface {
	GetCommentFeed(c *gin.Context)

	CreateCommentForVideo(c *gin.Context)
	EditComment(c *gin.Context)
	DeleteComment(c *gin.Context)
	PinComment(c *gin.Context)
	UnpinComment(c *gin.Context)
	HeartComment(c *gin.Context)
	UnheartComment(c *gin.Context)
}

type commentHandler struct {
	CommentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) CommentHandler {
	return &commentHandler{
		CommentService: commentService,
	}
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// parseFeedParams 是Feed的游标编解码器（解码方向）：游标不是不透明token，
// 就是平铺在URL上的几个查询参数：limit、sortBy、id、cursor（RFC3339时间）、likeCount
// 解析规则是“宽容”的：看不懂的参数一律当作没传，回退到默认值，绝不报400
// 游标只有在id和当前模式对应的排序键都能解析时才算存在，缺一个都算第一页
func parseFeedParams(c *gin.Context) service.FeedParams {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit <= 0 {
		limit = service.DefaultFeedLimit
	}
	sortBy := service.FeedSortNewest
	if c.Query("sortBy") == string(service.FeedSortTop) {
		sortBy = service.FeedSortTop
	}
	params := service.FeedParams{Limit: limit, SortBy: sortBy}

	idStr := c.Query("id")
	if idStr == "" {
		return params // 没有游标，第一页
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return params // id都解析不了，整个游标作废
	}
	if sortBy == service.FeedSortTop {
		likeCount, err := strconv.ParseUint(c.Query("likeCount"), 10, 64)
		if err != nil {
			return params
		}
		params.Cursor = &service.FeedCursor{ID: id, LikeCount: likeCount}
	} else {
		createdAt, err := time.Parse(time.RFC3339Nano, c.Query("cursor"))
		if err != nil {
			return params
		}
		params.Cursor = &service.FeedCursor{ID: id, CreatedAt: createdAt}
	}
	return params
}

// 获取评论Feed：1、解析URL中的videoID参数 2、从context取观看者ID（投票status要算到人头上）
// 3、解析分页/排序/游标参数 4、service层三段合并出一页 5、返回评论列表+hasMore+下一页游标+总数
func (h *commentHandler) GetCommentFeed(c *gin.Context) {
	videoID, err := strconv.ParseUint(c.Param("video_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的视频ID")
		return
	}
	viewerID, exists := currentUserID(c)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	params := parseFeedParams(c)

	logCtx := logger.Log.WithField("viewer_id", viewerID).WithField("video_id", videoID).WithField("sort_by", params.SortBy)
	page, err := h.CommentService.GetCommentFeed(videoID, viewerID, params)
	if err != nil {
		logCtx.WithError(err).Error("获取评论Feed失败")
		sendErrorResponse(c, http.StatusInternalServerError, "获取评论列表失败")
		return
	}
	logCtx.WithField("count", len(page.Comments)).Info("评论Feed获取成功")
	c.JSON(http.StatusOK, gin.H{
		"message": "获取评论列表成功",
		"data":    page,
	})
}

// 视频评论：1、解析URL中的videoID参数 2、解析Body里的content 3、从context取userID 4、创建评论并返回
func (h *commentHandler) CreateCommentForVideo(c *gin.Context) {
	videoID, err := strconv.ParseUint(c.Param("video_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的视频ID")
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("评论参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数") // 400
		return
	}
	userID, exists := currentUserID(c)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证") // 401
		return
	}

	// 正式进入业务前，将logger格式整理好
	logCtx := logger.Log.WithField("user_id", userID).WithField("video_id", videoID)
	comment, err := h.CommentService.CreateComment(userID, videoID, req.Content)
	if err != nil {
		logCtx.WithError(err).Error("创建评论失败")
		h.sendCommentError(c, err, "评论失败")
		return
	}
	// 业务成功，打上返回的comment的ID
	logCtx.WithField("comment_id", comment.ID).Info("评论创建成功")
	c.JSON(http.StatusCreated, gin.H{ // 201
		"message": "评论成功",
		"data":    dto.ToCommentResponse(comment),
	})
}

// 编辑评论：1、解析commentID 2、解析新content 3、只有作者本人能编辑，service层校验
func (h *commentHandler) EditComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的评论ID")
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Error("编辑评论参数解析失败")
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}
	userID, exists := currentUserID(c)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("comment_id", commentID)
	comment, err := h.CommentService.EditComment(userID, commentID, req.Content)
	if err != nil {
		logCtx.WithError(err).Error("编辑评论失败")
		h.sendCommentError(c, err, "编辑评论失败")
		return
	}
	logCtx.Info("评论编辑成功")
	c.JSON(http.StatusOK, gin.H{
		"message": "编辑成功",
		"data":    dto.ToCommentResponse(comment),
	})
}

// 删除评论：作者本人或频道主，评论的投票记录会在同一个事务里一起删掉
func (h *commentHandler) DeleteComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的评论ID")
		return
	}
	userID, exists := currentUserID(c)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}

	logCtx := logger.Log.WithField("user_id", userID).WithField("comment_id", commentID)
	if err := h.CommentService.DeleteComment(userID, commentID); err != nil {
		logCtx.WithError(err).Error("删除评论失败")
		h.sendCommentError(c, err, "删除评论失败")
		return
	}
	logCtx.Info("评论删除成功")
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

func (h *commentHandler) PinComment(c *gin.Context) {
	h.setPinned(c, true, "置顶成功")
}

func (h *commentHandler) UnpinComment(c *gin.Context) {
	h.setPinned(c, false, "取消置顶成功")
}

func (h *commentHandler) HeartComment(c *gin.Context) {
	h.setHearted(c, true, "红心成功")
}

func (h *commentHandler) UnheartComment(c *gin.Context) {
	h.setHearted(c, false, "取消红心成功")
}

// 置顶和取消置顶只差一个bool，共用一套解析和错误处理
func (h *commentHandler) setPinned(c *gin.Context, pinned bool, okMessage string) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的评论ID")
		return
	}
	userID, exists := currentUserID(c)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("comment_id", commentID).WithField("pinned", pinned)
	if err := h.CommentService.SetPinned(userID, commentID, pinned); err != nil {
		logCtx.WithError(err).Error("置顶操作失败")
		h.sendCommentError(c, err, "操作失败")
		return
	}
	logCtx.Info("置顶操作成功")
	c.JSON(http.StatusOK, gin.H{"message": okMessage})
}

func (h *commentHandler) setHearted(c *gin.Context, hearted bool, okMessage string) {
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的评论ID")
		return
	}
	userID, exists := currentUserID(c)
	if !exists {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return
	}
	logCtx := logger.Log.WithField("user_id", userID).WithField("comment_id", commentID).WithField("hearted", hearted)
	if err := h.CommentService.SetHearted(userID, commentID, hearted); err != nil {
		logCtx.WithError(err).Error("红心操作失败")
		h.sendCommentError(c, err, "操作失败")
		return
	}
	logCtx.Info("红心操作成功")
	c.JSON(http.StatusOK, gin.H{"message": okMessage})
}

// 把service层的业务错误映射到合适的HTTP状态码，映射不到的统一按500处理
func (h *commentHandler) sendCommentError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrCommentNotFound), errors.Is(err, service.ErrVideoNotFound):
		sendErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmptyContent):
		sendErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotCommentOwner), errors.Is(err, service.ErrNotChannelOwner):
		sendErrorResponse(c, http.StatusForbidden, err.Error())
	default:
		sendErrorResponse(c, http.StatusInternalServerError, fallback)
	}
}
