package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yangpin97/cisco-client-portal/document"
	"github.com/yangpin97/cisco-client-portal/tool"
	"github.com/yangpin97/cisco-client-portal/types"
)

type SectionController struct {
	store   DocumentStore
	metrics *tool.Metrics
}

func NewSectionController(store DocumentStore, metrics *tool.Metrics) *SectionController {
	return &SectionController{store: store, metrics: metrics}
}

// HandleUpdate merges the request body into section. Each form posts the
// full value of every key it owns; keys it does not send stay as they are.
// POST /api/update-texts, update-downloads, update-manuals, update-header-nav, update-banner
func (ctrl *SectionController) HandleUpdate(section document.Section) gin.HandlerFunc {
	operation := "update-" + string(section)
	return func(c *gin.Context) {
		var partial map[string]json.RawMessage
		if err := c.ShouldBindJSON(&partial); err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnFailure("Invalid request body"))
			return
		}

		_, err := ctrl.store.Update(func(doc *types.Document) error {
			return document.MergeSection(doc, section, partial)
		})
		ctrl.metrics.ObserveMutation(operation, err == nil)
		if err != nil {
			tool.DefaultLogger.Errorf("[Section] Failed to update %s: %v", section, err)
			c.JSON(http.StatusOK, tool.FastReturnFailure(failureMessage(err)))
			return
		}
		tool.DefaultLogger.Infof("[Section] Updated %d key(s) of %s", len(partial), section)
		c.JSON(http.StatusOK, tool.FastReturnSuccess())
	}
}
