package checks

import (
	"context"
	"errors"
	"testing"

	"studyhub/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func objects(infos ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(infos))
	for _, info := range infos {
		ch <- info
	}
	close(ch)
	return ch
}

func TestCheckBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Ok", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "backups").Return(true, nil)
		m.On("ListObjects", mock.Anything, "backups", mock.MatchedBy(func(o minio.ListObjectsOptions) bool {
			return o.Prefix == "exports/"
		})).Return(objects(minio.ObjectInfo{Key: "exports/studyhub-backup.json"}))

		report, err := CheckBucket(ctx, m, "backups", "exports")

		require.NoError(t, err)
		assert.Equal(t, "ok", report.Status)
		assert.True(t, report.Exists)
		assert.True(t, report.PrefixExists)
	})

	t.Run("MissingBucket", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "backups").Return(false, nil)

		report, err := CheckBucket(ctx, m, "backups", "exports")

		require.NoError(t, err)
		assert.Equal(t, "missing", report.Status)
		assert.False(t, report.Exists)
		m.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingPrefix", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "backups").Return(true, nil)
		m.On("ListObjects", mock.Anything, "backups", mock.Anything).Return(objects())

		report, err := CheckBucket(ctx, m, "backups", "exports/")

		require.NoError(t, err)
		assert.Equal(t, "missing", report.Status)
		assert.True(t, report.Exists)
		assert.False(t, report.PrefixExists)
	})

	t.Run("EmptyPrefix", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "backups").Return(true, nil)
		m.On("ListObjects", mock.Anything, "backups", mock.Anything).Return(objects())

		report, err := CheckBucket(ctx, m, "backups", "")

		require.NoError(t, err)
		assert.Equal(t, "ok", report.Status)
	})

	t.Run("ListError", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "backups").Return(true, nil)
		m.On("ListObjects", mock.Anything, "backups", mock.Anything).Return(objects(minio.ObjectInfo{Err: errors.New("denied")}))

		_, err := CheckBucket(ctx, m, "backups", "exports")
		assert.Error(t, err)
	})

	t.Run("ExistsError", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "backups").Return(false, errors.New("unreachable"))

		_, err := CheckBucket(ctx, m, "backups", "exports")
		assert.Error(t, err)
	})
}

func TestFixBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesBucketAndFolder", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "backups").Return(false, nil)
		m.On("MakeBucket", mock.Anything, "backups", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)
		m.On("PutObject", mock.Anything, "backups", "exports/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

		err := FixBucket(ctx, m, "backups", "eu-west-1", "exports", zap.NewNop())

		require.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("NoPrefix", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "backups").Return(true, nil)

		require.NoError(t, FixBucket(ctx, m, "backups", "", "", zap.NewNop()))
		m.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PutError", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "backups").Return(true, nil)
		m.On("PutObject", mock.Anything, "backups", "exports/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, errors.New("denied"))

		assert.Error(t, FixBucket(ctx, m, "backups", "", "exports", zap.NewNop()))
	})
}
