package handlers

import (
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 將錯誤轉為統一的 JSON 錯誤響應
// debug 為 true 時附上原始錯誤訊息
func RespondError(c *gin.Context, err error, debug bool) {
	status, resp := common.ToResponse(err, debug)
	if status >= 500 {
		common.LogError("請求處理失敗",
			zap.Error(err),
			zap.String("code", resp.Code),
			zap.String("request_id", requestid.Get(c)),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}
