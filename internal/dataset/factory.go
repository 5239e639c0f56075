package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/JonMunkholm/nacebel/internal/config"
)

// NewSourceFromConfig creates the Source selected by cfg.Source.
// Sources holding connections should be released with Close.
func NewSourceFromConfig(ctx context.Context, cfg config.DatasetConfig) (Source, error) {
	switch sourceKind(cfg.Source) {
	case config.SourceHTTP:
		slog.Info("using http dataset source", "url", cfg.URL)
		return NewHTTPSource(cfg.URL, &http.Client{Timeout: cfg.LoadTimeout}), nil

	case config.SourceFile:
		slog.Info("using file dataset source", "path", cfg.File)
		return NewFileSource(cfg.File), nil

	case config.SourceS3:
		slog.Info("using s3 dataset source", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket, "key", cfg.S3Key)
		client, err := newS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Source(client, cfg.S3Bucket, cfg.S3Key), nil

	case config.SourcePostgres:
		slog.Info("using postgres dataset source")
		return NewPostgresSource(ctx, cfg.PGURL, cfg.PGQuery)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}
}

func newS3Client(ctx context.Context, cfg config.DatasetConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
		opts = append(opts, awsconfig.WithCredentialsProvider(creds))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
