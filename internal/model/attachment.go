package model

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// PendingAttachment is a file picked in a form but not uploaded yet.
// Only the URL produced by uploading it is ever persisted.
type PendingAttachment struct {
	Name string // Client-supplied name, used for its extension only
	Size int64
	Open func() (io.ReadCloser, error)
}

// NewPendingAttachment wraps in-memory data. Each Open returns a fresh reader,
// so a failed submit can be retried with the same attachment.
func NewPendingAttachment(name string, data []byte) *PendingAttachment {
	return &PendingAttachment{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// PendingAttachmentFromFile references a file on disk without reading it.
func PendingAttachmentFromFile(path string) (*PendingAttachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &PendingAttachment{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}
