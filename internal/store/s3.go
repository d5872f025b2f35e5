package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"paywall-go/internal/config"
	"paywall-go/internal/paywall"
)

// S3Store is an S3-backed implementation of the ContentStore interface.
// Blobs are stored under <prefix>/content/<handle>.
type S3Store struct {
	name     string
	bucket   string
	prefix   string
	client   *s3.Client
	uploader *manager.Uploader
}

// NewS3Store creates an S3 content store from configuration. Credentials
// come from the default AWS chain unless static keys are configured.
func NewS3Store(cfg config.StoreConfig) (*S3Store, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 store requires s3_bucket to be set")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Store{
		name:     cfg.Name,
		bucket:   cfg.S3Bucket,
		prefix:   cfg.S3Prefix,
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

// key returns the object key for a handle.
func (s *S3Store) key(handle string) string {
	return path.Join(s.prefix, "content", handle)
}

// Put stores a blob under its handle. Idempotent: if the object already
// exists the incoming data is drained and verified against size only.
func (s *S3Store) Put(handle string, r io.Reader, size int64) error {
	ctx := context.Background()
	key := s.key(handle)

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		written, err := io.Copy(io.Discard, r)
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}
		if written != size {
			return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, written)
		}
		return nil
	}
	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("checking for existing object: %w", err)
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return fmt.Errorf("uploading content: %w", err)
	}
	return nil
}

// Get retrieves a blob by handle and writes it to w.
func (s *S3Store) Get(handle string, w io.Writer) error {
	out, err := s.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(handle)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return fmt.Errorf("content not found: %s", handle)
		}
		return fmt.Errorf("fetching content: %w", err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

// KeyRef returns "" — sealing, if any, is layered on top by SealedStore.
func (s *S3Store) KeyRef() string { return "" }

// ValidateSetup verifies that the bucket is accessible.
func (s *S3Store) ValidateSetup() error {
	_, err := s.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", s.bucket, err)
	}
	return nil
}

// Compile-time check that S3Store implements the ContentStore interface.
var _ paywall.ContentStore = (*S3Store)(nil)
