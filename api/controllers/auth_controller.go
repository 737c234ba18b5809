package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yangpin97/cisco-client-portal/credential"
	"github.com/yangpin97/cisco-client-portal/tool"
	"github.com/yangpin97/cisco-client-portal/types"
)

type AuthController struct {
	store   DocumentStore
	metrics *tool.Metrics
}

func NewAuthController(store DocumentStore, metrics *tool.Metrics) *AuthController {
	return &AuthController{store: store, metrics: metrics}
}

// HandleLogin checks the admin credential pair.
// POST /api/login
func (ctrl *AuthController) HandleLogin(c *gin.Context) {
	var request types.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnFailure("Invalid request body"))
		return
	}

	doc := ctrl.store.Load()
	if !credential.Verify(doc.Admin, request.Username, request.Password) {
		tool.DefaultLogger.Warnf("[Login] Failed login for %q from %s", request.Username, c.ClientIP())
		ctrl.metrics.ObserveLogin("rejected")
		c.JSON(http.StatusOK, tool.FastReturnFailure("Invalid username or password"))
		return
	}
	tool.DefaultLogger.Infof("[Login] Admin %q logged in from %s", request.Username, c.ClientIP())
	ctrl.metrics.ObserveLogin("accepted")
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// HandleUpdateAdmin changes the username and optionally the password.
// POST /api/update-admin
func (ctrl *AuthController) HandleUpdateAdmin(c *gin.Context) {
	var request types.UpdateAdminRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnFailure("Invalid request body"))
		return
	}

	_, err := ctrl.store.Update(func(doc *types.Document) error {
		return credential.Rotate(doc, request.Username, request.OldPassword, request.NewPassword)
	})
	ctrl.metrics.ObserveMutation("update-admin", err == nil)
	if err != nil {
		tool.DefaultLogger.Warnf("[Admin] Credential update rejected: %v", err)
		c.JSON(http.StatusOK, tool.FastReturnFailure(failureMessage(err)))
		return
	}
	tool.DefaultLogger.Infof("[Admin] Credentials updated (username %q, password changed: %t)", request.Username, request.NewPassword != "")
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
