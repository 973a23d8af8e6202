package validation

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrFileSize     = errors.New("file size exceeds limit of 10MB")
	ErrFileType     = errors.New("invalid file type. Allowed types: JPG, PNG, GIF, WEBP")
	ErrFileRequired = errors.New("no file provided")
	ErrFilename     = errors.New("filename is required")
)

const MaxImageSize = 10 * 1024 * 1024 // 10MB

var AllowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ValidateImage checks an upload by its declared filename and body size.
func ValidateImage(filename string, size int) error {
	if strings.TrimSpace(filename) == "" {
		return ErrFilename
	}
	if size == 0 {
		return ErrFileRequired
	}
	if size > MaxImageSize {
		return ErrFileSize
	}

	ext := filepath.Ext(strings.ToLower(filename))
	if !AllowedImageTypes[ext] {
		return ErrFileType
	}
	return nil
}
