package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// MockS3Client implements S3ClientInterface for testing without AWS credentials
type MockS3Client struct {
	Bucket   string
	Region   string
	Endpoint string

	// Uploaded holds the bodies written through the default UploadFile
	Uploaded map[string][]byte

	// Optional function overrides for custom test behavior
	GenerateFileKeyFunc      func(entityType, fileExt string) (string, error)
	GeneratePresignedURLFunc func(ctx context.Context, key string, expires time.Duration) (string, error)
	UploadFileFunc           func(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DeleteFileFunc           func(ctx context.Context, key string) error
	GetFileURLFunc           func(key string) string
}

// NewMockS3Client creates a new mock S3 client for testing
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket:   "test-bucket",
		Region:   "ap-northeast-2",
		Uploaded: make(map[string][]byte),
	}
}

// GenerateFileKey generates a unique file key for S3 storage
func (m *MockS3Client) GenerateFileKey(entityType, fileExt string) (string, error) {
	if m.GenerateFileKeyFunc != nil {
		return m.GenerateFileKeyFunc(entityType, fileExt)
	}
	return generateFileKey(entityType, fileExt, time.Now())
}

// GeneratePresignedURL generates a mock presigned download URL
func (m *MockS3Client) GeneratePresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if m.GeneratePresignedURLFunc != nil {
		return m.GeneratePresignedURLFunc(ctx, key, expires)
	}

	now := time.Now().UTC()
	return fmt.Sprintf("%s?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Date=%s&X-Amz-Expires=%d&X-Amz-SignedHeaders=host&X-Amz-Signature=mocksignature123",
		m.GetFileURL(key),
		now.Format("20060102T150405Z"),
		int(expires.Seconds()),
	), nil
}

// UploadFile records the body and returns the object URL
func (m *MockS3Client) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, key, file, contentType)
	}

	body, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	if m.Uploaded == nil {
		m.Uploaded = make(map[string][]byte)
	}
	m.Uploaded[key] = body
	return m.GetFileURL(key), nil
}

// DeleteFile simulates file deletion
func (m *MockS3Client) DeleteFile(ctx context.Context, key string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	delete(m.Uploaded, key)
	return nil
}

// GetFileURL returns the public URL for a file
func (m *MockS3Client) GetFileURL(key string) string {
	if m.GetFileURLFunc != nil {
		return m.GetFileURLFunc(key)
	}

	if m.Endpoint != "" && !strings.Contains(m.Endpoint, "amazonaws.com") {
		return fmt.Sprintf("%s/%s/%s", m.Endpoint, m.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Bucket, m.Region, key)
}

// Ensure both clients implement S3ClientInterface
var (
	_ S3ClientInterface = (*MockS3Client)(nil)
	_ S3ClientInterface = (*S3Client)(nil)
)
