package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hszk-dev/mediamind/internal/domain/repository"
)

// S3 error codes returned by MinIO.
const (
	codeNoSuchKey    = "NoSuchKey"
	codeNoSuchBucket = "NoSuchBucket"
)

// object is the part of *minio.Object used by Download.
type object interface {
	io.ReadCloser
	Stat() (minio.ObjectInfo, error)
}

// minioAPI is the part of *minio.Client used by Client.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (object, error)
}

// sdkClient adapts *minio.Client, whose GetObject returns the concrete *minio.Object.
type sdkClient struct {
	*minio.Client
}

func (c sdkClient) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (object, error) {
	return c.Client.GetObject(ctx, bucketName, objectName, opts)
}

// ClientConfig holds configuration for the MinIO client.
type ClientConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	UseSSL       bool
	CreateBucket bool // create the bucket at startup when it is missing
}

// Client implements repository.ObjectStorage on a single MinIO bucket.
type Client struct {
	api    minioAPI
	bucket string
}

var _ repository.ObjectStorage = (*Client)(nil)

// NewClient connects to MinIO and makes sure the bucket is usable.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return newClient(ctx, sdkClient{mc}, cfg.Bucket, cfg.CreateBucket)
}

func newClient(ctx context.Context, api minioAPI, bucket string, create bool) (*Client, error) {
	if err := ensureBucket(ctx, api, bucket, create); err != nil {
		return nil, err
	}
	return &Client{api: api, bucket: bucket}, nil
}

func ensureBucket(ctx context.Context, api minioAPI, bucket string, create bool) error {
	exists, err := api.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if !create {
		return fmt.Errorf("%w: %s", repository.ErrBucketNotFound, bucket)
	}
	if err := api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		// Another replica may have created it first.
		if code := minio.ToErrorResponse(err).Code; code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists" {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Upload stores reader under key.
func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := c.api.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return c.wrapError("upload", key, err)
	}
	return nil
}

// Download opens the object under key.
// GetObject is lazy, so the object is stat'ed first to surface a missing key here.
func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, c.wrapError("download", key, err)
	}

	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, c.wrapError("download", key, err)
	}
	return obj, nil
}

// Ping checks that the bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.BucketExists(ctx, c.bucket); err != nil {
		return fmt.Errorf("failed to ping minio: %w", err)
	}
	return nil
}

func (c *Client) wrapError(op, key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case codeNoSuchKey:
		return repository.ErrObjectNotFound
	case codeNoSuchBucket:
		return fmt.Errorf("%w: %s", repository.ErrBucketNotFound, c.bucket)
	default:
		return fmt.Errorf("failed to %s object %s: %w", op, key, err)
	}
}
