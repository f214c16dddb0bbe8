package capture

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mkanzari/bioconsole/internal/models"
)

// FromFile builds a CapturedImage from an already-encoded image on disk.
// This path never touches the camera session.
func FromFile(path string) (models.CapturedImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.CapturedImage{}, fmt.Errorf("reading image file: %w", err)
	}

	mime := "image/jpeg"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		mime = "image/png"
	case ".gif":
		mime = "image/gif"
	}

	return FromBytes(data, mime), nil
}

// FromBytes wraps raw image bytes into the data-URL form the remote service
// expects for photo payloads.
func FromBytes(data []byte, mime string) models.CapturedImage {
	if mime == "" {
		mime = "image/jpeg"
	}
	return models.CapturedImage{
		Data:    fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)),
		TakenAt: time.Now(),
	}
}
