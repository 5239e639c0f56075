package dataset

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/JonMunkholm/nacebel/internal/nace"
)

// S3GetObjectAPI is the subset of *s3.Client used by S3Source.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the export from an S3-compatible bucket.
type S3Source struct {
	Client S3GetObjectAPI
	Bucket string
	Key    string
}

func NewS3Source(client S3GetObjectAPI, bucket, key string) *S3Source {
	return &S3Source{Client: client, Bucket: bucket, Key: key}
}

func (s *S3Source) Name() string { return "s3" }

func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, &nace.UpstreamFetchError{
			Source: s.Name(),
			Err:    fmt.Errorf("get s3://%s/%s: %w", s.Bucket, s.Key, err),
		}
	}
	return resp.Body, nil
}
