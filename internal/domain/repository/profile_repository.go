package repository

import (
	"context"

	"github.com/diillson/es-profile-report/internal/domain/entity"
)

// ProfileRepository loads the shard list of a profile document.
// Source is "" or "-" for stdin, a file path, or an s3:// URI.
type ProfileRepository interface {
	LoadShards(ctx context.Context, source string) ([]entity.ShardRecord, error)
}
