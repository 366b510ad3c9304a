package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"MuzBot/config"
	"MuzBot/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MediaStore caches materialized audio bytes in MinIO, keyed by catalog id,
// so repeated downloads of a popular track hit object storage instead of
// the catalog CDN.
type MediaStore struct {
	client *minio.Client
	bucket string
}

// NewMediaStore connects to MinIO and ensures the bucket exists.
func NewMediaStore(cfg *config.Config) (*MediaStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("created media bucket", logger.String("bucket", cfg.MinioBucket))
	}

	return &MediaStore{client: client, bucket: cfg.MinioBucket}, nil
}

// objectName maps a catalog id to its object key.
func objectName(trackID string) string {
	return "audio/" + trackID + ".mp3"
}

// Get returns cached audio bytes, or nil on a miss.
func (s *MediaStore) Get(ctx context.Context, trackID string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, objectName(trackID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		// Missing keys surface on read, not open.
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

// Put stores audio bytes for the track.
func (s *MediaStore) Put(ctx context.Context, trackID string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName(trackID),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "audio/mpeg"})
	if err != nil {
		return fmt.Errorf("failed to store object: %w", err)
	}
	logger.Debug("media stored",
		logger.String("track", trackID),
		logger.Int("bytes", len(data)))
	return nil
}
