package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"studyhub/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
)

// Extension ends every export name.
const Extension = ".json"

// Target is where exports are written and imports are read from.
type Target interface {
	// Name identifies the target kind in logs and metrics.
	Name() string
	// Write stores data under name and returns where it went.
	Write(ctx context.Context, name string, data []byte) (string, error)
	// Read returns the export stored under name.
	Read(ctx context.Context, name string) ([]byte, error)
	// List returns the stored export names, oldest first.
	List(ctx context.Context) ([]string, error)
}

// FileTarget keeps exports in a directory.
type FileTarget struct {
	fs  afero.Fs
	dir string
}

var _ Target = (*FileTarget)(nil)

// NewFileTarget creates a target writing into dir on fs.
func NewFileTarget(fs afero.Fs, dir string) *FileTarget {
	return &FileTarget{fs: fs, dir: dir}
}

func (t *FileTarget) Name() string { return "file" }

func (t *FileTarget) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if err := t.fs.MkdirAll(t.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir %s: %w", t.dir, err)
	}
	p := filepath.Join(t.dir, name)
	if err := afero.WriteFile(t.fs, p, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write backup %s: %w", p, err)
	}
	return p, nil
}

func (t *FileTarget) Read(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(t.fs, filepath.Join(t.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBackupNotFound.WithDetail("%s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup %s: %w", name, err)
	}
	return data, nil
}

func (t *FileTarget) List(ctx context.Context) ([]string, error) {
	infos, err := afero.ReadDir(t.fs, t.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list backups in %s: %w", t.dir, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if !info.IsDir() && strings.HasSuffix(info.Name(), Extension) {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// BucketTarget keeps exports as objects under a key prefix.
type BucketTarget struct {
	client storage.Client
	bucket string
	prefix string
}

var _ Target = (*BucketTarget)(nil)

// NewBucketTarget creates a target writing into bucket under prefix.
func NewBucketTarget(client storage.Client, bucket, prefix string) *BucketTarget {
	return &BucketTarget{client: client, bucket: bucket, prefix: prefix}
}

func (t *BucketTarget) Name() string { return "bucket" }

func (t *BucketTarget) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	key := path.Join(t.prefix, name)
	_, err := t.client.PutObject(ctx, t.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload backup %s: %w", key, err)
	}
	return t.bucket + "/" + key, nil
}

func (t *BucketTarget) Read(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	key := path.Join(t.prefix, name)
	obj, err := t.client.GetObject(ctx, t.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get backup %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrBackupNotFound.WithDetail("%s", name)
		}
		return nil, fmt.Errorf("failed to read backup %s: %w", key, err)
	}
	return data, nil
}

func (t *BucketTarget) List(ctx context.Context) ([]string, error) {
	names := []string{}
	for obj := range t.client.ListObjects(ctx, t.bucket, minio.ListObjectsOptions{Prefix: t.prefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list backups: %w", obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, t.prefix)
		name = strings.TrimPrefix(name, "/")
		if strings.HasSuffix(name, Extension) && !strings.Contains(name, "/") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// checkName rejects names that would escape the target's directory or prefix.
func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return ErrInvalidName.WithDetail("%q", name)
	}
	return nil
}
