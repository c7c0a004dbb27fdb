// Package drive implements the blob storage capability on Google Drive.
package drive

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Scope grants access only to files this app creates.
const Scope = driveapi.DriveFileScope

const fallbackMime = "application/octet-stream"

// Store uploads attachment blobs into one Drive folder and hands back the
// web view link as the durable reference.
type Store struct {
	svc      *driveapi.Service
	folderID string
	logger   *zap.Logger
}

func New(ctx context.Context, client *http.Client, folderID string, logger *zap.Logger) (*Store, error) {
	if folderID == "" {
		return nil, fmt.Errorf("drive folder id is required")
	}

	svc, err := driveapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}

	return &Store{svc: svc, folderID: folderID, logger: logger}, nil
}

// Upload stores the bytes under the configured folder and returns the file's
// webViewLink.
func (s *Store) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	meta := &driveapi.File{
		Name:    filename,
		Parents: []string{s.folderID},
	}

	f, err := s.svc.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeFor(filename))).
		Fields("webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", filename, err)
	}

	s.logger.Debug("uploaded attachment",
		zap.String("filename", filename),
		zap.Int("size", len(data)),
	)
	return f.WebViewLink, nil
}

func mimeFor(filename string) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return fallbackMime
}
