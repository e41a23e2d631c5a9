package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
)

func TestObjectName_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		name := ObjectName("foto.jpg")
		if seen[name] {
			t.Fatalf("duplicate object name generated: %s", name)
		}
		seen[name] = true
	}
}

func TestObjectName_KeepsExtension(t *testing.T) {
	name := ObjectName("a experiência da obra.JPEG")
	if !strings.HasSuffix(name, ".jpeg") {
		t.Errorf("name = %q, want .jpeg suffix", name)
	}
	if strings.ContainsAny(name, " /\\") {
		t.Errorf("name contains unsafe characters: %q", name)
	}
}

func TestSanitizeExt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "foto.jpg", ".jpg"},
		{"uppercase", "FOTO.PNG", ".png"},
		{"multi dot", "antes.depois.webp", ".webp"},
		{"no extension", "README", ""},
		{"trailing dot", "foto.", ""},
		{"unsafe characters", "x.j p?g", ".jpg"},
		{"oversized", "archive.verylongext", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeExt(tt.in); got != tt.want {
				t.Errorf("sanitizeExt(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLocalUploader_WritesFileAndBuildsURL(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	u := NewLocalUploader(dir, "http://localhost:8080/")

	content := []byte("imagem de teste")
	url, err := u.Upload(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV.jpg", bytes.NewReader(content), int64(len(content)), "image/jpeg")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if url != "http://localhost:8080/uploads/01ARZ3NDEKTSV4RRFFQ69G5FAV.jpg" {
		t.Errorf("url = %q", url)
	}

	written, err := os.ReadFile(filepath.Join(dir, "01ARZ3NDEKTSV4RRFFQ69G5FAV.jpg"))
	if err != nil {
		t.Fatalf("reading uploaded file: %v", err)
	}
	if !bytes.Equal(written, content) {
		t.Error("uploaded content does not match source")
	}
}

// mockPutter implements objectPutter for S3Uploader tests.
type mockPutter struct {
	bucket      string
	objectName  string
	contentType string
	err         error
}

func (m *mockPutter) PutObject(ctx context.Context, bucket, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	m.bucket = bucket
	m.objectName = objectName
	m.contentType = opts.ContentType
	if m.err != nil {
		return minio.UploadInfo{}, m.err
	}
	io.Copy(io.Discard, reader)
	return minio.UploadInfo{Bucket: bucket, Key: objectName, Size: objectSize}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	putter := &mockPutter{}
	u := &S3Uploader{client: putter, bucket: "obra-media", publicBaseURL: "https://cdn.example.com/"}

	url, err := u.Upload(context.Background(), "foto.jpg", strings.NewReader("dados"), 5, "image/jpeg")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if url != "https://cdn.example.com/foto.jpg" {
		t.Errorf("url = %q", url)
	}
	if putter.bucket != "obra-media" || putter.objectName != "foto.jpg" {
		t.Errorf("stored at %s/%s", putter.bucket, putter.objectName)
	}
	if putter.contentType != "image/jpeg" {
		t.Errorf("content type = %q", putter.contentType)
	}
}

func TestS3Uploader_DefaultContentType(t *testing.T) {
	putter := &mockPutter{}
	u := &S3Uploader{client: putter, bucket: "obra-media", publicBaseURL: "https://cdn.example.com"}

	if _, err := u.Upload(context.Background(), "blob", strings.NewReader("x"), 1, ""); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if putter.contentType != "application/octet-stream" {
		t.Errorf("content type = %q, want fallback", putter.contentType)
	}
}

func TestS3Uploader_PropagatesError(t *testing.T) {
	putter := &mockPutter{err: errors.New("bucket gone")}
	u := &S3Uploader{client: putter, bucket: "obra-media", publicBaseURL: "https://cdn.example.com"}

	if _, err := u.Upload(context.Background(), "foto.jpg", strings.NewReader("x"), 1, "image/jpeg"); err == nil {
		t.Fatal("expected error from failed put")
	}
}
