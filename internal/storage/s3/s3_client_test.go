package s3

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotegen/internal/config"
)

func TestPresignGet_PathStyleEndpoint(t *testing.T) {
	store, err := NewS3Client(&config.StorageConfig{
		Provider:  "s3",
		Region:    "us-east-1",
		Bucket:    "quotes",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio-secret",
	})
	require.NoError(t, err)

	raw, err := store.PresignGet(context.Background(), "quotes", "quotes/abc/Ontop-Quote-Acme-2024-06-03.pdf", time.Hour)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/quotes/quotes/abc/Ontop-Quote-Acme-2024-06-03.pdf", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
	assert.Contains(t, u.Query().Get("X-Amz-Credential"), "minio/")
}
