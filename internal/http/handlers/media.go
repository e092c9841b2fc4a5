package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"petcare/internal/domain"
	applog "petcare/internal/log"
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// Media stores uploads under Dir and serves them back read-only.
type Media struct {
	Dir      string
	MaxBytes int64
}

// SaveImage validates an uploaded image and writes it to Dir/sub/<uuid><ext>.
// It returns the path relative to Dir.
func (m *Media) SaveImage(c *fiber.Ctx, fh *multipart.FileHeader, sub string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExts[ext] {
		return "", domain.Invalid("image", "upload a jpg, png, gif or webp image")
	}
	if fh.Size <= 0 || (m.MaxBytes > 0 && fh.Size > m.MaxBytes) {
		return "", domain.Invalid("image", fmt.Sprintf("image must be at most %d bytes", m.MaxBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	head := make([]byte, 512)
	n, _ := f.Read(head)
	_ = f.Close()
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return "", domain.Invalid("image", "the file is not an image")
	}

	dir := filepath.Join(m.Dir, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	rel := filepath.ToSlash(filepath.Join(sub, uuid.NewString()+ext))
	if err := c.SaveFile(fh, filepath.Join(m.Dir, rel)); err != nil {
		return "", err
	}
	return rel, nil
}

func (m *Media) Remove(rel string) {
	if rel == "" {
		return
	}
	if err := os.Remove(filepath.Join(m.Dir, rel)); err != nil && !os.IsNotExist(err) {
		applog.Error(nil, "media.remove.fail", err, map[string]any{"path": rel})
	}
}

// Serve is GET /media/*, guarded against path traversal.
func (m *Media) Serve(c *fiber.Ctx) error {
	path := c.Params("*")
	rawLower := strings.ToLower(path)
	if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
		applog.Security(c, "media.traversal.block", map[string]any{"path": path})
		return c.SendStatus(fiber.StatusNotFound)
	}
	clean := filepath.Clean(path)
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		applog.Security(c, "media.traversal.block", map[string]any{"path": path})
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.SendFile(filepath.Join(m.Dir, clean), true)
}
