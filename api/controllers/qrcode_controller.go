package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yangpin97/cisco-client-portal/asset"
	"github.com/yangpin97/cisco-client-portal/tool"
)

// HandleQRPreview renders what generate-qr would store, without storing it.
// GET /api/qr-preview?data=<content>&size=<n>|<n>x<n>
func HandleQRPreview(c *gin.Context) {
	content := c.Query("data")
	if content == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnFailure("Missing required parameter: data"))
		return
	}
	png, err := asset.EncodeQR(content, parseSize(c.Query("size")))
	if err != nil {
		tool.DefaultLogger.Warnf("[QR] Preview of %d bytes failed: %v", len(content), err)
		c.JSON(http.StatusBadRequest, tool.FastReturnFailure("Content cannot be encoded as a QR code"))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// parseSize reads "200" or "200x200" and returns 0 for anything else.
func parseSize(s string) int {
	edge, _, _ := strings.Cut(strings.TrimSpace(s), "x")
	n, err := strconv.Atoi(strings.TrimSpace(edge))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
