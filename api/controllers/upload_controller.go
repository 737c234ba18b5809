package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yangpin97/cisco-client-portal/asset"
	"github.com/yangpin97/cisco-client-portal/tool"
	"github.com/yangpin97/cisco-client-portal/types"
)

// maxUploadSize caps a single image upload.
const maxUploadSize = 10 << 20

type UploadController struct {
	store     DocumentStore
	placement *asset.Placement
	metrics   *tool.Metrics
}

func NewUploadController(store DocumentStore, placement *asset.Placement, metrics *tool.Metrics) *UploadController {
	return &UploadController{
		store:     store,
		placement: placement,
		metrics:   metrics,
	}
}

// HandleUploadQR stores a channel's QR image and points qrcodes[type] at it.
// POST /api/upload-qr (multipart: qrImage, type)
func (ctrl *UploadController) HandleUploadQR(c *gin.Context) {
	data, name, err := readFormFile(c, "qrImage")
	if err != nil {
		tool.DefaultLogger.Warnf("[Upload] upload-qr: %v", err)
		c.JSON(http.StatusOK, tool.FastReturnFailure(failureMessage(err)))
		return
	}
	channel := c.PostForm("type")

	stored, err := ctrl.placement.StoreQRCode(data, name, channel)
	if err != nil {
		ctrl.metrics.ObserveMutation("upload-qr", false)
		tool.DefaultLogger.Warnf("[Upload] upload-qr for %q: %v", channel, err)
		c.JSON(http.StatusOK, tool.FastReturnFailure(failureMessage(err)))
		return
	}
	ctrl.metrics.AddUploadedBytes(len(data))
	ctrl.setQRCode(c, "upload-qr", channel, stored)
}

// HandleUploadImage stores a generic image and returns its web path.
// The document is not touched. POST /api/upload-image (multipart: image)
func (ctrl *UploadController) HandleUploadImage(c *gin.Context) {
	data, name, err := readFormFile(c, "image")
	if err != nil {
		tool.DefaultLogger.Warnf("[Upload] upload-image: %v", err)
		c.JSON(http.StatusOK, tool.FastReturnFailure(failureMessage(err)))
		return
	}
	stored, err := ctrl.placement.StoreImage(data, name)
	ctrl.metrics.ObserveMutation("upload-image", err == nil)
	if err != nil {
		tool.DefaultLogger.Warnf("[Upload] upload-image %q: %v", name, err)
		c.JSON(http.StatusOK, tool.FastReturnFailure(failureMessage(err)))
		return
	}
	ctrl.metrics.AddUploadedBytes(len(data))
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(map[string]any{
		"path": stored,
	}))
}

// HandleGenerateQR renders content as a channel's QR image, for admins who
// have a link but no picture. POST /api/generate-qr
func (ctrl *UploadController) HandleGenerateQR(c *gin.Context) {
	var request types.GenerateQRRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnFailure("Invalid request body"))
		return
	}
	stored, err := ctrl.placement.GenerateQRCode(request.Content, request.Type, request.Size)
	if err != nil {
		ctrl.metrics.ObserveMutation("generate-qr", false)
		tool.DefaultLogger.Warnf("[Upload] generate-qr for %q: %v", request.Type, err)
		c.JSON(http.StatusOK, tool.FastReturnFailure(failureMessage(err)))
		return
	}
	ctrl.setQRCode(c, "generate-qr", request.Type, stored)
}

func (ctrl *UploadController) setQRCode(c *gin.Context, operation, channel, stored string) {
	_, err := ctrl.store.Update(func(doc *types.Document) error {
		if doc.QRCodes == nil {
			doc.QRCodes = map[string]string{}
		}
		doc.QRCodes[channel] = stored
		return nil
	})
	ctrl.metrics.ObserveMutation(operation, err == nil)
	if err != nil {
		c.JSON(http.StatusOK, tool.FastReturnFailure(failureMessage(err)))
		return
	}
	tool.DefaultLogger.Infof("[Upload] qrcodes.%s = %s", channel, stored)
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(map[string]any{
		"path": stored,
	}))
}

func readFormFile(c *gin.Context, field string) ([]byte, string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, "", asset.ErrNoFileProvided
		}
		return nil, "", err
	}
	if header.Size > maxUploadSize {
		return nil, "", fmt.Errorf("%w: %d bytes", asset.ErrFileTooLarge, header.Size)
	}
	file, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", asset.ErrNoFileProvided
	}
	return data, header.Filename, nil
}
