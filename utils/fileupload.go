package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// allowedExtensions is the case-insensitive allow-list for uploaded photos.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// IsAllowedFile reports whether filename carries an allowed photo extension.
func IsAllowedFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return allowedExtensions[ext]
}

// ValidatePhotoFile validates an uploaded file's name against the allow-list.
func ValidatePhotoFile(filename string) error {
	if !IsAllowedFile(filename) {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("File type of %q is not allowed (png, jpg, jpeg, gif, bmp, tiff)", filepath.Base(filename)),
		}
	}
	return nil
}

// SanitizeFilename strips any path components and reduces the name to a safe
// character set so it can be embedded in a storage name.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	// Windows-style separators survive filepath.Base on other platforms
	if idx := strings.LastIndexAny(name, `\/`); idx >= 0 {
		name = name[idx+1:]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}

	sanitized := strings.Trim(b.String(), "._")
	if sanitized == "" {
		sanitized = "file"
	}
	return sanitized
}

// StoredFilename derives the storage name for an uploaded file from the
// owning order, the upload time and the sanitized original name.
func StoredFilename(orderID uint, uploadedAt time.Time, originalFilename string) string {
	return fmt.Sprintf("%d_%s_%s", orderID, uploadedAt.Format("20060102_150405"), SanitizeFilename(originalFilename))
}
