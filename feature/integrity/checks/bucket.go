package checks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"studyhub/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// BucketReport describes the state of the backup bucket.
type BucketReport struct {
	Bucket       string `json:"bucket"`
	Exists       bool   `json:"exists"`
	PrefixExists bool   `json:"prefix_exists"`
	Status       string `json:"status"` // "ok", "missing"
}

// CheckBucket verifies that the backup bucket and its export prefix exist.
func CheckBucket(ctx context.Context, client storage.Client, bucket, prefix string) (*BucketReport, error) {
	report := &BucketReport{Bucket: bucket, Status: "missing"}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.Exists = exists
	if !exists {
		return report, nil
	}

	opts := minio.ListObjectsOptions{
		Prefix:    folder(prefix),
		Recursive: false,
		MaxKeys:   1,
	}
	if opts.Prefix == "" {
		report.PrefixExists = true
	}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", opts.Prefix, obj.Err)
		}
		report.PrefixExists = true
		break
	}

	if report.PrefixExists {
		report.Status = "ok"
	}
	return report, nil
}

// FixBucket creates the bucket and a placeholder for the export prefix.
func FixBucket(ctx context.Context, client storage.Client, bucket, region, prefix string, logger *zap.Logger) error {
	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		return err
	}

	key := folder(prefix)
	if key == "" {
		return nil
	}
	_, err := client.PutObject(ctx, bucket, key, bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
	if err != nil {
		logger.Error("Failed to create folder", zap.String("folder", key), zap.Error(err))
		return err
	}
	logger.Info("Created missing folder", zap.String("folder", key))
	return nil
}

func folder(prefix string) string {
	if prefix == "" || strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}
