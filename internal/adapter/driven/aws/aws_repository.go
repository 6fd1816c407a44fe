package aws

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog"

	"github.com/diillson/es-profile-report/internal/domain/repository"
	"github.com/diillson/es-profile-report/internal/shared/types"
)

// AWSRepositoryImpl implementa o StorageRepository com cache de config e clientes.
// A configuração só é carregada no primeiro uso.
type AWSRepositoryImpl struct {
	profile string
	region  string
	logger  zerolog.Logger

	mu        sync.Mutex
	cfg       *aws.Config
	s3Client  *s3.Client
	stsClient *sts.Client
}

// NewAWSRepository cria uma nova implementação do StorageRepository.
// profile e region vazios usam a cadeia padrão do SDK.
func NewAWSRepository(profile, region string, logger zerolog.Logger) repository.StorageRepository {
	return &AWSRepositoryImpl{
		profile: profile,
		region:  region,
		logger:  logger,
	}
}

func (r *AWSRepositoryImpl) getAWSConfig(ctx context.Context) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg != nil {
		return *r.cfg, nil
	}

	var opts []func(*config.LoadOptions) error
	if r.profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(r.profile))
	}
	if r.region != "" {
		opts = append(opts, config.WithRegion(r.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %q: %w", r.profile, err)
	}

	r.cfg = &cfg
	return cfg, nil
}

func (r *AWSRepositoryImpl) getS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := r.getAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.s3Client == nil {
		r.s3Client = s3.NewFromConfig(cfg)
	}
	return r.s3Client, nil
}

func (r *AWSRepositoryImpl) getSTSClient(ctx context.Context) (*sts.Client, error) {
	cfg, err := r.getAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stsClient == nil {
		r.stsClient = sts.NewFromConfig(cfg)
	}
	return r.stsClient, nil
}

// GetObject baixa o objeto apontado por uma URI s3://bucket/key.
func (r *AWSRepositoryImpl) GetObject(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}

	client, err := r.getS3Client(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching %s: %w", uri, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", uri, err)
	}

	r.logger.Debug().Str("bucket", bucket).Str("key", key).Int("bytes", len(data)).Msg("object fetched")
	return data, nil
}

// PutFile envia um arquivo local para a URI s3://bucket/key e devolve a URI final.
func (r *AWSRepositoryImpl) PutFile(ctx context.Context, localPath, uri string) (string, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return "", err
	}

	client, err := r.getS3Client(ctx)
	if err != nil {
		return "", err
	}

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("error opening %s: %w", localPath, err)
	}
	defer file.Close()

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType(localPath)),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading to %s: %w", uri, err)
	}

	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}

// CallerAccount retorna o ID da conta AWS das credenciais em uso.
func (r *AWSRepositoryImpl) CallerAccount(ctx context.Context) (string, error) {
	client, err := r.getSTSClient(ctx)
	if err != nil {
		return "", err
	}

	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	return aws.ToString(out.Account), nil
}

// ParseS3URI separa uma URI s3://bucket/key em bucket e key.
func ParseS3URI(uri string) (string, string, error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%w: %s", types.ErrInvalidStorageURI, uri)
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %s", types.ErrInvalidStorageURI, uri)
	}
	return bucket, key, nil
}

func contentType(path string) string {
	switch {
	case strings.HasSuffix(path, ".json"):
		return "application/json"
	case strings.HasSuffix(path, ".csv"):
		return "text/csv"
	case strings.HasSuffix(path, ".pdf"):
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
