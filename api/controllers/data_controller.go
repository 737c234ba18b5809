package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yangpin97/cisco-client-portal/document"
)

type DataController struct {
	store DocumentStore
}

func NewDataController(store DocumentStore) *DataController {
	return &DataController{store: store}
}

// HandleGetData returns the document without the admin section.
// GET /api/data
func (ctrl *DataController) HandleGetData(c *gin.Context) {
	doc := ctrl.store.Load()
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, document.PublicView(doc))
}
