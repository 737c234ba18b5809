package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yangpin97/cisco-client-portal/tool"
)

// OnlyAllowLocal limits a route group to loopback clients. Used for the admin
// routes when adminLocalOnly is set, e.g. behind an SSH tunnel.
func OnlyAllowLocal(c *gin.Context) {
	if ip := c.ClientIP(); ip == "127.0.0.1" || ip == "::1" {
		c.Next()
		return
	}
	c.AbortWithStatusJSON(http.StatusForbidden, tool.FastReturnFailure("Forbidden"))
}
