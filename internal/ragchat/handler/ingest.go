// Package handler provides HTTP handlers for the chat service.
package handler

import (
	stderrors "errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/ragchat/internal/pkg/httputils"
	"github.com/kart-io/ragchat/internal/ragchat/biz"
	"github.com/kart-io/ragchat/pkg/utils/errors"
)

// IngestHandler handles document ingestion requests.
type IngestHandler struct {
	service       biz.Service
	maxUploadSize int64
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(service biz.Service, maxUploadSize int64) *IngestHandler {
	return &IngestHandler{
		service:       service,
		maxUploadSize: maxUploadSize,
	}
}

// Upload ingests a plain-text document from a multipart form.
func (h *IngestHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httputils.WriteResponse(c, errors.ErrChatInvalidRequest.WithMessage("missing file field"), nil)
		return
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".txt") {
		httputils.WriteResponse(c, errors.ErrChatUnsupportedFile, nil)
		return
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		httputils.WriteResponse(c, errors.ErrChatInvalidRequest.WithMessagef("file exceeds the %d byte upload limit", h.maxUploadSize), nil)
		return
	}

	strategy, err := biz.ParseStrategy(c.PostForm("strategy"))
	if err != nil {
		httputils.WriteResponse(c, errors.ErrChatInvalidStrategy.WithCause(err), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httputils.WriteResponse(c, errors.ErrChatIngestFailed.WithCause(err), nil)
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		httputils.WriteResponse(c, errors.ErrChatIngestFailed.WithCause(err), nil)
		return
	}

	result, err := h.service.Ingest(c.Request.Context(), fileHeader.Filename, string(content), strategy)
	if err != nil {
		httputils.WriteResponse(c, ingestError(err), nil)
		return
	}

	httputils.WriteResponse(c, nil, result)
}

// Documents lists ingested document versions.
func (h *IngestHandler) Documents(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	docs, total, err := h.service.Documents(c.Request.Context(), offset, limit)
	if err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	httputils.WriteResponse(c, nil, gin.H{
		"total":     total,
		"documents": docs,
	})
}

// Delete removes a document version and its vectors.
func (h *IngestHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		httputils.WriteResponse(c, err, nil)
		return
	}

	httputils.WriteResponse(c, nil, gin.H{"deleted": c.Param("id")})
}

// Stats reports knowledge base statistics.
func (h *IngestHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		httputils.WriteResponse(c, errors.ErrChatVectorStore.WithCause(err), nil)
		return
	}

	httputils.WriteResponse(c, nil, stats)
}

// ingestError maps pipeline failures onto the public error codes while
// keeping the stage description from the wrapped error.
func ingestError(err error) error {
	switch {
	case stderrors.Is(err, biz.ErrEmptyText):
		return errors.ErrChatEmptyDocument
	case stderrors.Is(err, biz.ErrInvalidStrategy):
		return errors.ErrChatInvalidStrategy
	case stderrors.Is(err, biz.ErrInvalidChunkParams):
		return errors.ErrChatInvalidRequest.WithMessage(err.Error())
	default:
		return errors.ErrChatIngestFailed.WithCause(err)
	}
}
