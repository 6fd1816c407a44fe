package aws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/es-profile-report/internal/shared/types"
)

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{uri: "s3://bucket/key.json", wantBucket: "bucket", wantKey: "key.json"},
		{uri: "s3://bucket/a/b/c.json", wantBucket: "bucket", wantKey: "a/b/c.json"},
		{uri: "s3://bucket/", wantErr: true},
		{uri: "s3://bucket", wantErr: true},
		{uri: "s3:///key", wantErr: true},
		{uri: "https://bucket/key", wantErr: true},
		{uri: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := ParseS3URI(tt.uri)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidStorageURI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", contentType("/tmp/r_20250101_000000.csv"))
	assert.Equal(t, "application/json", contentType("r.json"))
	assert.Equal(t, "application/pdf", contentType("r.pdf"))
	assert.Equal(t, "application/octet-stream", contentType("r.txt"))
}
