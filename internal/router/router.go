package router

import (
	"Vega_Tube/internal/handler"
	"Vega_Tube/internal/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(userHandler handler.UserHandler, videoHandler handler.VideoHandler, commentHandler handler.CommentHandler, voteHandler handler.VoteHandler) *gin.Engine {
	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pang",
		})
	})
	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/feed", videoHandler.GetFeed)
		apiV1.GET("/videos/:video_id", videoHandler.GetVideoByID)

		userGroup := apiV1.Group("/users")
		{
			userGroup.POST("/register", userHandler.Register)
			userGroup.POST("/login", userHandler.Login)
		}

		authorized := apiV1.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			authorized.GET("/profile", userHandler.GetProfile)
			authorized.POST("/videos", videoHandler.CreateVideo)
			authorized.DELETE("/videos/:video_id", videoHandler.DeleteVideo)

			// 评论Feed需要知道“观看者是谁”（投票status、自己的评论段），所以也要走认证
			authorized.GET("/videos/:video_id/comments", commentHandler.GetCommentFeed)
			authorized.POST("/videos/:video_id/comments", commentHandler.CreateCommentForVideo)
			authorized.PUT("/comments/:comment_id", commentHandler.EditComment)
			authorized.DELETE("/comments/:comment_id", commentHandler.DeleteComment)

			// 置顶和红心只有频道主能操作，权限在service层校验
			authorized.POST("/comments/:comment_id/pin", commentHandler.PinComment)
			authorized.DELETE("/comments/:comment_id/pin", commentHandler.UnpinComment)
			authorized.POST("/comments/:comment_id/heart", commentHandler.HeartComment)
			authorized.DELETE("/comments/:comment_id/heart", commentHandler.UnheartComment)

			authorized.POST("/comments/:comment_id/like", voteHandler.LikeComment)
			authorized.POST("/comments/:comment_id/dislike", voteHandler.DislikeComment)
			authorized.DELETE("/comments/:comment_id/vote", voteHandler.RemoveVote)
		}
	}

	return r
}
