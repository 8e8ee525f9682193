package handler

import "github.com/gin-gonic/gin"

// ErrorResponse 定义了标准的API错误响应结构
// 错误响应永远带上success=false、提示信息和一个空data，绝不返回半成品数据
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    gin.H  `json:"data"`
}

// sendErrorResponse 是一个辅助函数，用于发送标准格式的错误响应
func sendErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{
		Success: false,
		Message: message,
		Data:    gin.H{},
	})
}

// currentUserID 从context中取出jwt中间件解析好的用户ID
// jwt.MapClaims中的数字会被解析为float64，context中的值又是interface{}，所以要两步转换
// 理论上中间件会拦截未认证请求，但防御性编程是好习惯
func currentUserID(c *gin.Context) (uint64, bool) {
	userIDFloat, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	f, ok := userIDFloat.(float64)
	if !ok {
		return 0, false
	}
	return uint64(f), true
}
