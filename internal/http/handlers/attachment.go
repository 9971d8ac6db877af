package handlers

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"taskmanager/internal/domain"
	"taskmanager/internal/resource"
	"taskmanager/pkg/apierrors"

	"github.com/gin-gonic/gin"
)

// readUpload reads at most limit+1 bytes of the form file so the service can
// still tell an oversized upload apart from one at the limit.
func readUpload(fh *multipart.FileHeader, limit int64) (*domain.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	return &domain.Upload{
		Name:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Content:  content,
	}, nil
}

// ListAttachments - GET /tasks/:id/attachments
func (h *Handler) ListAttachments(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, apierrors.MsgTaskNotFound)
	if !ok {
		return
	}

	page, err := h.attachments.List(c.Request.Context(), actor, taskID, pageParam(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.Paginate(page, resource.FromAttachment))
}

// UploadAttachment - POST /tasks/:id/attachments (multipart, field "file")
func (h *Handler) UploadAttachment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, apierrors.MsgTaskNotFound)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		invalid(c, map[string]string{"file": "required"})
		return
	}
	upload, err := readUpload(fh, domain.MaxAttachmentSize)
	if err != nil {
		fail(c, err)
		return
	}

	att, err := h.attachments.Create(c.Request.Context(), actor, taskID, *upload)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resource.FromAttachment(att))
}

// DownloadAttachment - GET /tasks/attachments/:id/download
func (h *Handler) DownloadAttachment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, apierrors.MsgAttachmentNotFound)
	if !ok {
		return
	}

	att, rc, err := h.attachments.Download(c.Request.Context(), actor, id)
	if err != nil {
		fail(c, err)
		return
	}
	defer rc.Close()

	etag := `"` + att.Checksum + `"`
	if att.Checksum != "" && c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	headers := map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": att.OriginalFilename}),
	}
	if att.Checksum != "" {
		headers["ETag"] = etag
	}
	contentType := att.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, att.Size, contentType, rc, headers)
}

// DeleteAttachment - DELETE /tasks/attachments/:id
func (h *Handler) DeleteAttachment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, apierrors.MsgAttachmentNotFound)
	if !ok {
		return
	}

	if err := h.attachments.Delete(c.Request.Context(), actor, id); err != nil {
		fail(c, err)
		return
	}
	message(c, apierrors.MsgAttachmentDeleted)
}
