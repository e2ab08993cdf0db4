package client

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-field-api/internal/config"
)

func newTestClient(t *testing.T) *S3Client {
	t.Helper()
	client, err := NewS3Client(&config.S3Config{
		Bucket:    "test-bucket",
		Region:    "ap-northeast-2",
		AccessKey: "test-access-key",
		SecretKey: "test-secret-key",
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, client)
	return client
}

func TestGenerateFileKey(t *testing.T) {
	client := newTestClient(t)

	tests := []struct {
		name        string
		entityType  string
		fileExt     string
		wantErr     bool
		errContains string
	}{
		{
			name:       "Valid schema entity type",
			entityType: EntitySchema,
			fileExt:    ".json",
		},
		{
			name:       "Valid audit entity type",
			entityType: EntityAudit,
			fileExt:    ".json",
		},
		{
			name:        "Invalid entity type",
			entityType:  "boards",
			fileExt:     ".jpg",
			wantErr:     true,
			errContains: "invalid entity type",
		},
		{
			name:        "Empty entity type",
			entityType:  "",
			fileExt:     ".json",
			wantErr:     true,
			errContains: "invalid entity type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := client.GenerateFileKey(tt.entityType, tt.fileExt)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)

			// Verify key format: {entityType}/{year}/{month}/{uuid}_{timestamp}.ext
			parts := strings.Split(key, "/")
			require.Equal(t, 4, len(parts), "Key should have 4 parts separated by /")
			assert.Equal(t, tt.entityType, parts[0])
			assert.Len(t, parts[1], 4, "Year should be 4 digits")
			assert.Len(t, parts[2], 2, "Month should be 2 digits")
			assert.True(t, strings.HasSuffix(parts[3], tt.fileExt), "Filename should end with extension")
			assert.Contains(t, parts[3], "_", "Filename should contain underscore separator")
		})
	}
}

func TestGenerateFileKey_Uniqueness(t *testing.T) {
	client := newTestClient(t)

	keys := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key, err := client.GenerateFileKey(EntitySchema, ".json")
		require.NoError(t, err)
		assert.False(t, keys[key], "Generated key should be unique")
		keys[key] = true
	}
}

func TestGenerateFileKey_DateFormatting(t *testing.T) {
	now := time.Date(2024, time.March, 9, 23, 30, 0, 0, time.UTC)

	key, err := generateFileKey(EntitySchema, ".json", now)
	require.NoError(t, err)

	parts := strings.Split(key, "/")
	require.Equal(t, 4, len(parts))
	assert.Equal(t, "2024", parts[1])
	assert.Equal(t, "03", parts[2])
	assert.True(t, strings.HasSuffix(parts[3], "_1710027000.json"))
}

func TestGeneratePresignedURL(t *testing.T) {
	client := newTestClient(t)

	url, err := client.GeneratePresignedURL(context.Background(), "schema/2024/01/uuid_1.json", 15*time.Minute)
	require.NoError(t, err)

	assert.Contains(t, url, "test-bucket")
	assert.Contains(t, url, "schema/2024/01/uuid_1.json")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=900", "URL should expire in 900 seconds (15 minutes)")
}

func TestNewS3Client_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *config.S3Config
		wantErr     bool
		errContains string
	}{
		{
			name: "Valid configuration",
			cfg: &config.S3Config{
				Bucket:    "test-bucket",
				Region:    "ap-northeast-2",
				AccessKey: "test-access-key",
				SecretKey: "test-secret-key",
			},
		},
		{
			name: "Missing bucket",
			cfg: &config.S3Config{
				Region: "ap-northeast-2",
			},
			wantErr:     true,
			errContains: "bucket is required",
		},
		{
			name: "Missing region",
			cfg: &config.S3Config{
				Bucket: "test-bucket",
			},
			wantErr:     true,
			errContains: "region is required",
		},
		{
			name: "Custom endpoint without keys",
			cfg: &config.S3Config{
				Bucket:   "test-bucket",
				Region:   "us-east-1",
				Endpoint: "http://localhost:9000",
			},
			wantErr:     true,
			errContains: "access key and secret key are required",
		},
		{
			name: "With custom endpoint (MinIO)",
			cfg: &config.S3Config{
				Bucket:    "test-bucket",
				Region:    "us-east-1",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
				Endpoint:  "http://localhost:9000",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewS3Client(tt.cfg, nil)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				assert.Nil(t, client)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, client)
			}
		})
	}
}

func TestGetFileURL(t *testing.T) {
	client := newTestClient(t)

	url := client.GetFileURL("schema/2024/01/uuid_1234567890.json")
	assert.Equal(t, "https://test-bucket.s3.ap-northeast-2.amazonaws.com/schema/2024/01/uuid_1234567890.json", url)
}

func TestGetFileURL_MinIO(t *testing.T) {
	client, err := NewS3Client(&config.S3Config{
		Bucket:    "test-bucket",
		Region:    "us-east-1",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Endpoint:  "http://localhost:9000/",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/test-bucket/audit/x.json", client.GetFileURL("audit/x.json"))
}

func TestMockS3Client_RecordsUploads(t *testing.T) {
	mock := NewMockS3Client()
	ctx := context.Background()

	key, err := mock.GenerateFileKey(EntitySchema, ".json")
	require.NoError(t, err)

	url, err := mock.UploadFile(ctx, key, bytes.NewBufferString(`{"ok":true}`), "application/json")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, key))
	assert.Equal(t, `{"ok":true}`, string(mock.Uploaded[key]))

	presigned, err := mock.GeneratePresignedURL(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Contains(t, presigned, "X-Amz-Expires=60")

	require.NoError(t, mock.DeleteFile(ctx, key))
	assert.NotContains(t, mock.Uploaded, key)
}
