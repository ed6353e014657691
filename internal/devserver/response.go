package devserver

import (
	"net/http"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"

	"github.com/gin-gonic/gin"
)

// respondData 成功应答（data 载荷）
func respondData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondPayload 成功应答（自定义顶层键，如 url / session）
func respondPayload(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for key, value := range payload {
		body[key] = value
	}
	c.JSON(http.StatusOK, body)
}

// respondError 失败应答
func respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"message": message,
	})
}

// respondUnauthorized 未授权应答
func respondUnauthorized(c *gin.Context, message string) {
	respondError(c, http.StatusUnauthorized, message)
}

// respondAmountTooSmall 金额低于渠道下限的业务失败应答，
// 附带下限与当前金额供调用方提示
func respondAmountTooSmall(c *gin.Context, minimum, current models.Money) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success":        false,
		"message":        "amount below provider minimum",
		"error_code":     constants.ErrorCodeAmountTooSmall,
		"minimum_amount": minimum,
		"current_amount": current,
	})
}
