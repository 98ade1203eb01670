package service

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/storage"
	"github.com/templui/inkpost/internal/validation"
)

// Attachment kinds, used as the first segment of the object key.
const (
	KindPost    = "posts"
	KindComment = "comments"
)

// Namespace scopes an attachment key to an owner.
type Namespace struct {
	Kind    string
	OwnerID string
}

// AttachmentService uploads pending attachments and resolves their URLs.
// Upload happens before the record insert; if the insert fails afterwards
// the object is orphaned and only logged.
type AttachmentService struct {
	storage     storage.Storage
	constraints validation.FileConstraints
}

func NewAttachmentService(storage storage.Storage, maxSize int64) *AttachmentService {
	constraints := validation.ImageConstraints
	if maxSize > 0 {
		constraints = constraints.WithMaxSize(maxSize)
	}

	return &AttachmentService{
		storage:     storage,
		constraints: constraints,
	}
}

// Validate checks an attachment without uploading it.
func (s *AttachmentService) Validate(att *model.PendingAttachment) error {
	_, err := s.sniff(att)
	return err
}

// Upload stores att under <kind>/<ownerID>/<uuid><ext> and returns its URL.
func (s *AttachmentService) Upload(ctx context.Context, ns Namespace, att *model.PendingAttachment) (string, error) {
	if att == nil {
		return "", &ValidationError{Field: "attachment", Message: "no file selected"}
	}
	if err := uuid.Validate(ns.OwnerID); err != nil {
		return "", fmt.Errorf("%w: invalid owner id %q", ErrUpload, ns.OwnerID)
	}

	contentType, err := s.sniff(att)
	if err != nil {
		return "", err
	}

	ext, _ := s.constraints.Extension(att.Name)
	key := fmt.Sprintf("%s/%s/%s%s", ns.Kind, ns.OwnerID, uuid.New().String(), ext)

	rc, err := att.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer rc.Close()

	err = s.storage.Upload(ctx, key, rc, att.Size, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	url, err := s.storage.PublicURL(ctx, key)
	if err != nil {
		s.Orphaned(key, err)
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	slog.Debug("attachment uploaded", "key", key, "size", att.Size, "content_type", contentType)
	return url, nil
}

// Orphaned records an uploaded object that no record points to.
func (s *AttachmentService) Orphaned(url string, cause error) {
	slog.Warn("orphaned attachment", "url", url, "error", cause)
}

func (s *AttachmentService) sniff(att *model.PendingAttachment) (string, error) {
	rc, err := att.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer rc.Close()

	head, _ := bufio.NewReaderSize(rc, 512).Peek(512)

	contentType, err := validation.ValidateAttachment(att.Name, att.Size, head, s.constraints)
	if err != nil {
		return "", &ValidationError{Field: "attachment", Message: err.Error()}
	}
	return contentType, nil
}
