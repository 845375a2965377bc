package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Alikh-collab/TAZA-back/internal/config"
)

const publicReadPolicy = `{
	"Version": "2012-10-17",
	"Statement": [{
		"Effect": "Allow",
		"Principal": {"AWS": ["*"]},
		"Action": ["s3:GetObject"],
		"Resource": ["arn:aws:s3:::%s/*"]
	}]
}`

// ObjectStore keeps uploads in one S3-compatible bucket with public read.
type ObjectStore struct {
	client  *minio.Client
	cfg     config.StorageConfig
	baseURL string
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	base := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http://"
		if useSSL {
			scheme = "https://"
		}
		base = scheme + endpoint
	}

	return &ObjectStore{
		client:  client,
		cfg:     cfg,
		baseURL: base + "/" + cfg.Bucket,
	}, nil
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.Bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.cfg.Bucket, err)
		}
	}
	if err := s.client.SetBucketPolicy(ctx, s.cfg.Bucket, fmt.Sprintf(publicReadPolicy, s.cfg.Bucket)); err != nil {
		return fmt.Errorf("set bucket policy %s: %w", s.cfg.Bucket, err)
	}
	return nil
}

func (s *ObjectStore) Save(ctx context.Context, obj Object) (string, error) {
	key := objectKey(obj.Folder, obj.Name)
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, obj.Body, obj.Size, minio.PutObjectOptions{
		ContentType: obj.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

func (s *ObjectStore) Delete(ctx context.Context, objectURL string) error {
	key, ok := strings.CutPrefix(objectURL, s.baseURL+"/")
	if !ok || key == "" {
		return ErrForeignURL
	}
	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}
