package types

import "errors"

var (
	ErrMalformedInput       = errors.New("Unable to parse JSON")
	ErrMissingProfileData   = errors.New("stdin does not contain profile info")
	ErrInvalidProfile       = errors.New("profile shards have an unexpected shape")
	ErrUnsupportedReport    = errors.New("unsupported report type")
	ErrInvalidStorageURI    = errors.New("invalid S3 URI, expected s3://bucket/key")
	ErrStorageNotConfigured = errors.New("S3 storage is not configured")
)
