package input

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/diillson/es-profile-report/internal/domain/entity"
	"github.com/diillson/es-profile-report/internal/domain/repository"
	"github.com/diillson/es-profile-report/internal/shared/types"
)

// shardsPath is where the shard list lives in a profile response.
const shardsPath = "profile.shards"

// ProfileRepositoryImpl implementa o ProfileRepository.
type ProfileRepositoryImpl struct {
	stdin   io.Reader
	storage repository.StorageRepository
	logger  zerolog.Logger
}

// NewProfileRepository cria uma nova implementação do ProfileRepository.
// storage pode ser nil quando a leitura de S3 não é necessária.
func NewProfileRepository(stdin io.Reader, storage repository.StorageRepository, logger zerolog.Logger) repository.ProfileRepository {
	return &ProfileRepositoryImpl{
		stdin:   stdin,
		storage: storage,
		logger:  logger,
	}
}

// LoadShards lê o documento inteiro da origem e devolve a lista de shards.
func (r *ProfileRepositoryImpl) LoadShards(ctx context.Context, source string) ([]entity.ShardRecord, error) {
	data, err := r.read(ctx, source)
	if err != nil {
		return nil, err
	}
	r.logger.Debug().Str("source", sourceName(source)).Int("bytes", len(data)).Msg("profile read")

	return ParseShards(data)
}

func (r *ProfileRepositoryImpl) read(ctx context.Context, source string) ([]byte, error) {
	switch {
	case source == "" || source == "-":
		data, err := io.ReadAll(r.stdin)
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return data, nil
	case strings.HasPrefix(source, "s3://"):
		if r.storage == nil {
			return nil, types.ErrStorageNotConfigured
		}
		return r.storage.GetObject(ctx, source)
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("error reading profile file: %w", err)
		}
		return data, nil
	}
}

// ParseShards valida o JSON e decodifica o caminho profile.shards.
// Chaves repetidas seguem a decodificação padrão: vale a última.
func ParseShards(data []byte) ([]entity.ShardRecord, error) {
	if !gjson.ValidBytes(data) {
		return nil, types.ErrMalformedInput
	}

	profile, ok := member(data, "profile")
	if !ok {
		return nil, types.ErrMissingProfileData
	}
	raw, ok := member(profile, "shards")
	if !ok {
		return nil, types.ErrMissingProfileData
	}

	var shards []entity.ShardRecord
	if err := json.Unmarshal(raw, &shards); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrInvalidProfile, shardsPath, err)
	}

	return shards, nil
}

// member devolve o valor bruto de uma chave de objeto JSON, com comparação
// exata de nome. Falha quando data não é um objeto.
func member(data []byte, key string) (json.RawMessage, bool) {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(data, &object); err != nil {
		return nil, false
	}
	value, ok := object[key]
	return value, ok
}

func sourceName(source string) string {
	if source == "" || source == "-" {
		return "stdin"
	}
	return source
}
