// Package storage wraps the MinIO client used to keep backups in an
// S3-compatible bucket (a school's MinIO or AWS S3).
//
// The Client interface is the subset of minio-go the backup target needs, so it
// can be mocked (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
