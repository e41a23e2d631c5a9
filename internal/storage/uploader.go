// Package storage provides public-image upload to S3-compatible object
// storage. When no bucket is configured the LocalUploader is used and
// files land under a local uploads directory served by the HTTP layer.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rfconstrucoes/obra/internal/config"
)

// File is an upload handed to the data layer: a name for extension
// sniffing plus the content stream.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Uploader stores an object under the given name and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// objectPutter defines the minimal minio.Client operation used by
// S3Uploader. This interface enables testing with mock implementations.
type objectPutter interface {
	PutObject(ctx context.Context, bucket, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Uploader uploads images to S3-compatible storage.
type S3Uploader struct {
	client        objectPutter
	bucket        string
	publicBaseURL string
}

// Upload stores the object and returns the public URL it will be served from.
func (u *S3Uploader) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := u.client.PutObject(ctx, u.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}

	return strings.TrimSuffix(u.publicBaseURL, "/") + "/" + name, nil
}

// LocalUploader writes uploads to a directory on disk. The HTTP layer
// serves that directory at /uploads/.
type LocalUploader struct {
	dir     string
	baseURL string
}

// NewLocalUploader creates an uploader rooted at dir with URLs under baseURL.
func NewLocalUploader(dir, baseURL string) *LocalUploader {
	return &LocalUploader{dir: dir, baseURL: baseURL}
}

// Upload writes the file to disk and returns its served URL.
func (u *LocalUploader) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if err := os.MkdirAll(u.dir, 0755); err != nil {
		return "", fmt.Errorf("create uploads directory: %w", err)
	}

	path := filepath.Join(u.dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return strings.TrimSuffix(u.baseURL, "/") + "/uploads/" + url.PathEscape(name), nil
}

// NewUploader creates the appropriate Uploader based on configuration.
// Returns LocalUploader when no bucket is configured, S3Uploader otherwise.
func NewUploader(cfg config.StorageConfig) (Uploader, error) {
	if cfg.Bucket == "" {
		return NewLocalUploader(cfg.LocalDir, cfg.PublicBaseURL), nil
	}

	useSSL := true
	if cfg.UseSSL != nil {
		useSSL = *cfg.UseSSL
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create S3 client: %w", err)
	}

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		scheme := "https"
		if !useSSL {
			scheme = "http"
		}
		publicBase = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &S3Uploader{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBase,
	}, nil
}
