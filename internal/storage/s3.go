package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3Config conveys upload destination metadata.
type S3Config struct {
	Bucket    string
	KeyPrefix string
	Region    string
	Endpoint  string
}

// S3Service uploads profile assets to Amazon S3 (or compatible APIs).
type S3Service struct {
	client   *s3.Client
	uploader *manager.Uploader
	cfg      S3Config
}

func NewS3Service(client *s3.Client, cfg S3Config) *S3Service {
	return &S3Service{
		client:   client,
		uploader: manager.NewUploader(client),
		cfg:      cfg,
	}
}

func (s *S3Service) UploadFile(ctx context.Context, localPath string) (*Object, error) {
	if s.cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	clean := filepath.Clean(localPath)
	if fi, err := os.Stat(clean); err != nil {
		return nil, fmt.Errorf("stat local path: %w", err)
	} else if fi.IsDir() {
		return nil, fmt.Errorf("local path must be a file")
	}

	f, err := os.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", clean, err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(clean))
	key := uuid.NewString() + ext
	if prefix := strings.Trim(s.cfg.KeyPrefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
		Body:   f,
		ACL:    types.ObjectCannedACLPublicRead,
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return nil, fmt.Errorf("upload %s: %w", clean, err)
	}

	return &Object{URL: s.objectURL(key), Key: key}, nil
}

func (s *S3Service) DeleteObject(ctx context.Context, key string) error {
	if s.cfg.Bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("object key is required")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3Service) objectURL(key string) string {
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

var _ Service = (*S3Service)(nil)
