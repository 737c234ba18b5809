package controllers

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yangpin97/cisco-client-portal/tool"
)

// PageController serves the two HTML pages and everything else under the
// public directory.
type PageController struct {
	publicDir string
}

func NewPageController(publicDir string) *PageController {
	return &PageController{publicDir: publicDir}
}

// HandleAdminPage serves admin.html. GET /login
func (ctrl *PageController) HandleAdminPage(c *gin.Context) {
	ctrl.serve(c, "admin.html")
}

// HandleStatic serves a file from the public directory, or index.html for
// any path that does not name one.
func (ctrl *PageController) HandleStatic(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, tool.FastReturnFailure("Not found"))
		return
	}
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, tool.FastReturnFailure("Not found"))
		return
	}
	// path.Clean on a rooted path cannot climb above "/"
	name := strings.TrimPrefix(path.Clean("/"+c.Request.URL.Path), "/")
	if name != "" && tool.FileExists(filepath.Join(ctrl.publicDir, filepath.FromSlash(name))) {
		ctrl.serve(c, name)
		return
	}
	ctrl.serve(c, "index.html")
}

func (ctrl *PageController) serve(c *gin.Context, name string) {
	full := filepath.Join(ctrl.publicDir, filepath.FromSlash(name))
	if !tool.FileExists(full) {
		c.JSON(http.StatusNotFound, tool.FastReturnFailure("Not found"))
		return
	}
	c.File(full)
}
