package handler

import (
	"Vega_Tube/internal/model"
	"Vega_Tube/internal/service"
	"Vega_Tube/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type VoteHandler interface {
	LikeComment(c *gin.Context)
	DislikeComment(c *gin.Context)
	RemoveVote(c *gin.Context)
}

type voteHandler struct {
	VoteService service.VoteService
}

func NewVoteHandler(voteService service.VoteService) VoteHandler {
	return &voteHandler{VoteService: voteService}
}

// 评论点赞：1、从URL通过:comment_id获取commentID 2、从认证后的context获取userID 3、service层先删后插投一票
func (h *voteHandler) LikeComment(c *gin.Context) {
	h.castVote(c, model.PolarityLike, "点赞成功")
}

// 评论点踩：同点赞，只是方向相反，投了踩旧的赞会被顶掉
func (h *voteHandler) DislikeComment(c *gin.Context) {
	h.castVote(c, model.PolarityDislike, "点踩成功")
}

func (h *voteHandler) castVote(c *gin.Context, polarity, okMessage string) {
	// :comment_id用来定位资源(Resource)，放在URL路径里，用c.Param()获取
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

	logCtx := logger.Log.WithField("user_id", userID).WithField("comment_id", commentID).WithField("polarity", polarity)
	if err := h.VoteService.CastVote(userID, commentID, polarity); err != nil {
		logCtx.WithError(err).Error("投票失败")
		// 这里的 err 是 service 层返回的业务逻辑错误，可以安全地展示给用户
		sendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	logCtx.Info("投票成功")
	c.JSON(http.StatusOK, gin.H{"message": okMessage})
}

// 撤销表态：1、解析commentID 2、从context获取userID 3、删掉这个用户在这条评论上的票
func (h *voteHandler) RemoveVote(c *gin.Context) {
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
	if err := h.VoteService.RemoveVote(userID, commentID); err != nil {
		logCtx.WithError(err).Error("撤票失败")
		sendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	logCtx.Info("撤票成功")
	c.JSON(http.StatusOK, gin.H{"message": "已撤销表态"})
}
