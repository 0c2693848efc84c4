package documents

import (
	"errors"
	"net/http"

	"outreach_portal_backend/internal/adapters/storage"
	"outreach_portal_backend/platform/httpkit"
	"outreach_portal_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

type Handler struct {
	repo   *Repository
	store  storage.ObjectStore
	bucket string
	log    *logger.Logger
}

func NewHandler(repo *Repository, store storage.ObjectStore, bucket string, log *logger.Logger) *Handler {
	return &Handler{repo: repo, store: store, bucket: bucket, log: log}
}

// Upload accepts a multipart form with a "file" part and an optional
// "lead_id" field linking the document to a lead.
func (h *Handler) Upload(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file part is required", nil)
		return
	}

	var leadID *uuid.UUID
	if raw := c.PostForm("lead_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		leadID = &parsed
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.store.ValidateContentType(contentType); err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := h.store.ValidateFileSize(fileHeader.Size); err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	defer file.Close()

	folder := "unlinked"
	if leadID != nil {
		folder = leadID.String()
	}
	objectKey, err := h.store.Upload(c.Request.Context(), h.bucket, folder, fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	doc, err := h.repo.Create(c.Request.Context(), leadID, fileHeader.Filename, objectKey, contentType, fileHeader.Size, identity.Email())
	if err != nil {
		// Metadata insert failed: remove the stored object again.
		if delErr := h.store.Delete(c.Request.Context(), h.bucket, objectKey); delErr != nil {
			h.log.Error("document_cleanup_failed", "object_key", objectKey, "error", delErr.Error())
		}
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Created(c, doc)
}

func (h *Handler) List(c *gin.Context) {
	var leadID *uuid.UUID
	if raw := c.Query("leadId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		leadID = &parsed
	}

	documents, err := h.repo.List(c.Request.Context(), leadID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, documents)
}

// Download returns a presigned URL rather than proxying the file bytes.
func (h *Handler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	doc, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	presigned, err := h.store.PresignDownload(c.Request.Context(), h.bucket, doc.ObjectKey)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, gin.H{
		"file_name":  doc.FileName,
		"url":        presigned.URL,
		"expires_at": presigned.ExpiresAt,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	doc, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.store.Delete(c.Request.Context(), h.bucket, doc.ObjectKey); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		httpkit.Error(c, http.StatusNotFound, err.Error(), nil)
		return
	}
	httpkit.HandleError(c, err)
}
