package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/jacentio/cradleconf/codec"
	"github.com/jacentio/cradleconf/cradle"
)

// S3API is the subset of the S3 client used by the S3 provider.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 loads JSON documents stored as <prefix>/<id>.json in a bucket.
type S3 struct {
	client S3API
	bucket string
	prefix string
	codec  codec.JSON
	logger *zap.Logger
}

// NewS3 creates an S3 provider. A nil logger disables logging.
func NewS3(client S3API, bucket, prefix string, logger *zap.Logger) *S3 {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// NewS3FromConfig builds the S3 client from the default AWS configuration.
// If endpoint is non-empty, path-style addressing is enabled (for MinIO and similar).
func NewS3FromConfig(ctx context.Context, bucket, prefix, region, endpoint string, logger *zap.Logger) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	return NewS3(s3.NewFromConfig(cfg, s3opts...), bucket, prefix, logger), nil
}

// Key returns the object key for a configuration id.
func (p *S3) Key(id string) string {
	return path.Join(p.prefix, id+".json")
}

// Load decodes the object for id into rec.
func (p *S3) Load(ctx context.Context, id string, rec cradle.Record) error {
	key := p.Key(id)
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return fmt.Errorf("%w: s3://%s/%s", cradle.ErrResourceNotFound, p.bucket, key)
		}
		return fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return fmt.Errorf("read s3://%s/%s: %w", p.bucket, key, err)
	}

	p.logger.Debug("loading configuration",
		zap.String("id", id),
		zap.String("bucket", p.bucket),
		zap.String("key", key),
	)
	return p.codec.Unmarshal(data, rec)
}

// Save uploads rec as the object for id.
func (p *S3) Save(ctx context.Context, id string, rec cradle.Record) error {
	data, err := p.codec.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", rec.Kind(), err)
	}

	contentType := "application/json"
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(p.Key(id)),
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}
	return nil
}
