package middleware

import (
	"fmt"

	"restaurant_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic in a handler into a 500 envelope and logs it.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		utils.LogError(fmt.Errorf("panic: %v", recovered), "Recovered from panic while handling "+c.Request.Method+" "+c.Request.URL.Path)
		utils.RespondInternalError(c, "Internal server error")
	})
}
