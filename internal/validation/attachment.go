package validation

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// FileConstraints defines validation rules for attachments
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// ImageConstraints are the rules for post and comment images.
var ImageConstraints = FileConstraints{
	AllowedMimeTypes: map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	},
	AllowedExtensions: map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".gif":  true,
	},
	MaxSize: 5 << 20, // 5MB
}

// WithMaxSize returns a copy of the constraints with a different size limit.
func (c FileConstraints) WithMaxSize(n int64) FileConstraints {
	c.MaxSize = n
	return c
}

// Extension returns the lowercased extension of name if it is allowed.
func (c FileConstraints) Extension(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !c.AllowedExtensions[ext] {
		return "", fmt.Errorf("invalid file extension: %q", ext)
	}
	return ext, nil
}

// ValidateAttachment checks the size, extension and sniffed content type.
// head is the first bytes of the file (http.DetectContentType reads at most 512).
// It returns the detected content type.
func ValidateAttachment(name string, size int64, head []byte, c FileConstraints) (string, error) {
	if size > c.MaxSize {
		return "", fmt.Errorf("file too large: maximum size is %d MB", c.MaxSize/(1<<20))
	}

	if _, err := c.Extension(name); err != nil {
		return "", err
	}

	// Magic numbers cannot be faked by renaming the file
	detected := http.DetectContentType(head)
	if !c.AllowedMimeTypes[detected] {
		return "", fmt.Errorf("invalid file type (detected: %s)", detected)
	}

	return detected, nil
}
