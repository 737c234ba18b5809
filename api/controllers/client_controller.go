package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yangpin97/cisco-client-portal/clients"
	"github.com/yangpin97/cisco-client-portal/tool"
	"github.com/yangpin97/cisco-client-portal/types"
)

var errMissingIndex = errors.New("missing index")

type ClientController struct {
	store   DocumentStore
	metrics *tool.Metrics
}

func NewClientController(store DocumentStore, metrics *tool.Metrics) *ClientController {
	return &ClientController{store: store, metrics: metrics}
}

// HandleAddClient appends an entry. POST /api/add-client
func (ctrl *ClientController) HandleAddClient(c *gin.Context) {
	var request types.ClientRequest
	if !bindClientBody(c, &request) {
		return
	}
	kind := clients.ParseKind(request.Type)
	ctrl.mutate(c, "add-client", kind, func(doc *types.Document) error {
		return clients.Append(doc, kind, request.ClientEntry)
	})
}

// HandleUpdateClient replaces the entry at index. POST /api/update-client
func (ctrl *ClientController) HandleUpdateClient(c *gin.Context) {
	var request types.ClientRequest
	if !bindClientBody(c, &request) {
		return
	}
	kind := clients.ParseKind(request.Type)
	ctrl.mutate(c, "update-client", kind, func(doc *types.Document) error {
		if request.Index == nil {
			return errMissingIndex
		}
		return clients.Update(doc, kind, *request.Index, request.ClientEntry)
	})
}

// HandleRemoveClient deletes the entry at index. POST /api/remove-client
func (ctrl *ClientController) HandleRemoveClient(c *gin.Context) {
	var request types.ClientRequest
	if !bindClientBody(c, &request) {
		return
	}
	kind := clients.ParseKind(request.Type)
	ctrl.mutate(c, "remove-client", kind, func(doc *types.Document) error {
		if request.Index == nil {
			return errMissingIndex
		}
		return clients.Remove(doc, kind, *request.Index)
	})
}

// HandleMoveClient swaps an entry with its neighbour. POST /api/move-client
func (ctrl *ClientController) HandleMoveClient(c *gin.Context) {
	var request types.MoveClientRequest
	if !bindClientBody(c, &request) {
		return
	}
	kind := clients.ParseKind(request.Type)
	ctrl.mutate(c, "move-client", kind, func(doc *types.Document) error {
		if request.Index == nil {
			return errMissingIndex
		}
		return clients.Move(doc, kind, *request.Index, request.Direction)
	})
}

// HandleSaveClients replaces a whole list, used after drag-and-drop reordering.
// POST /api/save-clients
func (ctrl *ClientController) HandleSaveClients(c *gin.Context) {
	var request types.SaveClientsRequest
	if !bindClientBody(c, &request) {
		return
	}
	kind := clients.ParseKind(request.Type)
	ctrl.mutate(c, "save-clients", kind, func(doc *types.Document) error {
		clients.ReplaceAll(doc, kind, request.Clients)
		return nil
	})
}

func (ctrl *ClientController) mutate(c *gin.Context, operation string, kind clients.Kind, fn func(doc *types.Document) error) {
	doc, err := ctrl.store.Update(fn)
	ctrl.metrics.ObserveMutation(operation, err == nil)
	if err != nil {
		tool.DefaultLogger.Warnf("[Clients] %s on %s failed: %v", operation, kind.Field(), err)
		msg := failureMessage(err)
		if errors.Is(err, errMissingIndex) {
			msg = "Client does not exist"
		}
		c.JSON(http.StatusOK, tool.FastReturnFailure(msg))
		return
	}
	list := clients.Entries(doc, kind)
	tool.DefaultLogger.Infof("[Clients] %s on %s, %d entries", operation, kind.Field(), len(list))
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(map[string]any{
		"clients": list,
	}))
}

func bindClientBody(c *gin.Context, request any) bool {
	if err := c.ShouldBindJSON(request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnFailure("Invalid request body"))
		return false
	}
	return true
}
