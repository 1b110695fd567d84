package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NTBooks/solquiz/internal/config"
	"github.com/NTBooks/solquiz/internal/response"
	"github.com/NTBooks/solquiz/internal/webhook"
)

// StatusHandler proxies certificate status queries to the external webhook.
type StatusHandler struct {
	cfg  *config.Config
	hook *webhook.Client
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(cfg *config.Config, hook *webhook.Client) *StatusHandler {
	return &StatusHandler{cfg: cfg, hook: hook}
}

// FileInfo godoc
// GET /api/v1/file-info/:hash
// Returns the collection entry for a content hash.
func (h *StatusHandler) FileInfo(c *gin.Context) {
	hash := c.Param("hash")

	record, err := h.hook.FileInfo(c.Request.Context(), h.cfg.HookCollection, hash)
	if err != nil {
		if errors.Is(err, webhook.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrFileNotFound)
			return
		}
		response.FailWithMessage(c, http.StatusInternalServerError, response.ErrUpstream, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"file": record})
}

// FileStatus godoc
// GET /api/v1/file-status/:hash
// Returns the upstream chain status payload for a content hash, with export
// links expanded.
func (h *StatusHandler) FileStatus(c *gin.Context) {
	hash := c.Param("hash")

	status, err := h.hook.FileStatus(c.Request.Context(), h.cfg.HookCollection, hash)
	if err != nil {
		response.FailWithMessage(c, http.StatusInternalServerError, response.ErrUpstream, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": status})
}
