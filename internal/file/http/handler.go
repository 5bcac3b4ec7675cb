package http

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/lodging-reservation-backend/internal/file"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/request"
	"github.com/nekogravitycat/lodging-reservation-backend/internal/pkg/response"
)

type Handler struct {
	fileService file.Service
}

func NewHandler(fileService file.Service) *Handler {
	return &Handler{
		fileService: fileService,
	}
}

// ServeFile streams the stored file.
func (h *Handler) ServeFile(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	stream, info, err := h.fileService.Download(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", info.ContentType)
	c.Header("Content-Disposition", "inline; filename=\""+info.Filename+"\"")
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		log.Printf("stream file %s aborted: %v", info.ID, err)
	}
}

// ServeThumbnail streams the JPEG thumbnail of an image file.
func (h *Handler) ServeThumbnail(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	stream, info, err := h.fileService.DownloadThumbnail(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Header("Content-Disposition", "inline; filename=\""+info.ID+"_thumb.jpg\"")
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		log.Printf("stream thumbnail %s aborted: %v", info.ID, err)
	}
}
