package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"io"

	"taskmanager/internal/domain"
	"taskmanager/internal/logger"
	"taskmanager/internal/policy"
	"taskmanager/internal/storage"

	"github.com/gabriel-vasile/mimetype"
	"github.com/zeebo/blake3"
)

// attachmentDir is the blob key prefix for task attachments.
const attachmentDir = "task_attachments"

// AttachmentService stores file contents in the blob store and their
// metadata in the entity store.
type AttachmentService struct {
	tasks       TaskStore
	attachments AttachmentStore
	blobs       storage.BlobStore
}

func NewAttachmentService(tasks TaskStore, attachments AttachmentStore, blobs storage.BlobStore) *AttachmentService {
	return &AttachmentService{tasks: tasks, attachments: attachments, blobs: blobs}
}

func (s *AttachmentService) List(ctx context.Context, actor domain.Actor, taskID int64, page int) (domain.Page[domain.Attachment], error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return domain.Page[domain.Attachment]{}, err
	}
	if err := authorize(policy.Attachment(actor, policy.ActionView, nil, task), policy.ResourceAttachment, policy.ActionView); err != nil {
		return domain.Page[domain.Attachment]{}, err
	}
	return s.attachments.ListByTask(ctx, taskID, domain.NewPageRequest(page, domain.AttachmentPageSize))
}

// Create writes the blob first and the metadata second. If the metadata
// insert fails the blob is removed again.
func (s *AttachmentService) Create(ctx context.Context, actor domain.Actor, taskID int64, upload domain.Upload) (*domain.Attachment, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := authorize(policy.Attachment(actor, policy.ActionCreate, nil, task), policy.ResourceAttachment, policy.ActionCreate); err != nil {
		return nil, err
	}

	v := domain.ValidationErrors{}
	switch {
	case upload.Size() == 0:
		v.Add("file", "required")
	case upload.Size() > domain.MaxAttachmentSize:
		v.Add("file", "max")
	}
	if err := v.Err(policy.ResourceAttachment); err != nil {
		return nil, err
	}

	sum := blake3.Sum256(upload.Content)
	attachment := &domain.Attachment{
		TaskID:           taskID,
		UserID:           actor.ID,
		Filename:         storage.NewKey(attachmentDir, upload.Name),
		OriginalFilename: originalName(upload.Name),
		MimeType:         mimetype.Detect(upload.Content).String(),
		Size:             upload.Size(),
		Checksum:         hex.EncodeToString(sum[:]),
	}

	if err := s.blobs.Put(ctx, attachment.Filename, bytes.NewReader(upload.Content)); err != nil {
		return nil, domain.Storage(policy.ResourceAttachment, err)
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		if derr := s.blobs.Delete(ctx, attachment.Filename); derr != nil {
			logger.Warn("failed to remove orphaned attachment blob", "key", attachment.Filename, "error", derr)
		}
		return nil, err
	}
	return s.attachments.GetByID(ctx, attachment.ID)
}

// Download opens the blob of an attachment. The caller must close the
// returned reader. A record whose blob is gone yields domain.ErrBlobNotFound.
func (s *AttachmentService) Download(ctx context.Context, actor domain.Actor, id int64) (*domain.Attachment, io.ReadCloser, error) {
	attachment, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	task, err := parentTask(ctx, s.tasks, attachment.TaskID, domain.ErrAttachmentNotFound)
	if err != nil {
		return nil, nil, err
	}
	if err := authorize(policy.Attachment(actor, policy.ActionView, attachment, task), policy.ResourceAttachment, policy.ActionView); err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Open(ctx, attachment.Filename)
	if err != nil {
		if errors.Is(err, domain.ErrBlobNotFound) {
			return nil, nil, domain.ErrBlobNotFound
		}
		return nil, nil, domain.Storage(policy.ResourceAttachment, err)
	}
	return attachment, rc, nil
}

// Delete removes the blob, then soft-deletes the record. When the blob
// cannot be removed the record is kept. A blob that is already gone does not
// block the delete.
func (s *AttachmentService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	attachment, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := parentTask(ctx, s.tasks, attachment.TaskID, domain.ErrAttachmentNotFound); err != nil {
		return err
	}
	if err := authorize(policy.Attachment(actor, policy.ActionDelete, attachment, nil), policy.ResourceAttachment, policy.ActionDelete); err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, attachment.Filename); err != nil {
		if !errors.Is(err, domain.ErrBlobNotFound) {
			return domain.Storage(policy.ResourceAttachment, err)
		}
		logger.Warn("attachment blob already missing", "attachment_id", id, "key", attachment.Filename)
	}
	return s.attachments.SoftDelete(ctx, actor.ID, id)
}

// originalName keeps the client's display name, falling back to the
// sanitized form when it is empty.
func originalName(name string) string {
	if name == "" {
		return storage.SanitizeFilename(name)
	}
	return name
}
