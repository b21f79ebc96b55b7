package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"storefront-api/config"
	"storefront-api/models"
)

// S3Store uploads images to an S3 bucket (LocalStack-compatible via a
// custom endpoint).
type S3Store struct {
	client   *s3.Client
	bucket   string
	prefix   string
	endpoint string
	region   string
}

func NewS3Store(ctx context.Context, cfg *config.Config) (*S3Store, error) {
	cfgOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKey != "" || cfg.AWSSecretKey != "" {
		cfgOpts = append(cfgOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWSEndpoint != "" {
			o.UsePathStyle = true
			o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
		}
	})

	return &S3Store{
		client:   client,
		bucket:   cfg.S3Bucket,
		prefix:   cfg.S3Prefix,
		endpoint: cfg.AWSEndpoint,
		region:   cfg.AWSRegion,
	}, nil
}

func (s *S3Store) Save(ctx context.Context, filename, contentType string, r io.Reader) (models.ProductImage, error) {
	key := path.Join(s.prefix, uuid.NewString()+filepath.Ext(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return models.ProductImage{}, fmt.Errorf("s3 put object: %w", err)
	}

	return models.ProductImage{
		PublicID: key,
		URL:      s.objectURL(key),
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, ref models.ProductImage) error {
	if ref.PublicID == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref.PublicID),
	})
	if err != nil {
		return fmt.Errorf("s3 delete object: %w", err)
	}
	return nil
}

func (s *S3Store) objectURL(key string) string {
	if s.endpoint != "" {
		return strings.TrimSuffix(s.endpoint, "/") + "/" + s.bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
