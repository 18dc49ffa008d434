// Package transfer holds the client side of file movement: the pre-upload
// size gate, progress accounting for uploads, and materializing downloaded
// payloads as local files.
package transfer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/linea-it/pzserver-desktop/internal/platform"
)

// BytesPerMB converts the configured megabyte limit to bytes. The backend
// uses decimal megabytes.
const BytesPerMB = 1_000_000

// ValidateSize rejects a file whose size exceeds maxSizeMB, before any
// network call. A file exactly at the limit is accepted.
func ValidateSize(size int64, maxSizeMB int) error {
	limit := int64(maxSizeMB) * BytesPerMB
	if size > limit {
		return fmt.Errorf("file size cannot exceed more than %s", humanize.Bytes(uint64(limit)))
	}
	return nil
}

// ValidateAndSelect stats the file at path and applies the size gate,
// returning the file info for upload on success
func ValidateAndSelect(path string, maxSizeMB int) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if err := ValidateSize(info.Size(), maxSizeMB); err != nil {
		return nil, err
	}
	return info, nil
}

// ProgressReader wraps a reader and reports upload progress as an integer
// percentage on each change. No guarantee is made on tick frequency beyond
// one tick per distinct percentage value.
type ProgressReader struct {
	r           io.Reader
	total       int64
	read        int64
	lastPercent int
	onProgress  func(percent int)
}

// NewProgressReader wraps r, reporting progress against total bytes
func NewProgressReader(r io.Reader, total int64, onProgress func(int)) *ProgressReader {
	return &ProgressReader{r: r, total: total, lastPercent: -1, onProgress: onProgress}
}

// Read implements io.Reader
func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.read += int64(n)
		pr.notify()
	}
	return n, err
}

func (pr *ProgressReader) notify() {
	if pr.onProgress == nil || pr.total <= 0 {
		return
	}
	percent := int(pr.read * 100 / pr.total)
	if percent > 100 {
		percent = 100
	}
	if percent != pr.lastPercent {
		pr.lastPercent = percent
		pr.onProgress(percent)
	}
}

// SaveBlob writes an in-memory payload to dir under suggestedName, creating
// the directory if needed. The sanitized destination path is returned.
func SaveBlob(payload []byte, dir, suggestedName string) (string, error) {
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", fmt.Errorf("ensure download directory: %w", err)
	}

	dest := filepath.Join(dir, platform.SanitizeFileName(suggestedName))
	if err := os.WriteFile(dest, payload, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return dest, nil
}
