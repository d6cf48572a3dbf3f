package integrity

import (
	"context"
	"errors"
	"testing"

	"studyhub/core/database"
	"studyhub/core/models"
	"studyhub/core/storage"
	"studyhub/core/storage/mocks"
	"studyhub/core/store"
	"studyhub/feature/integrity/checks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var bucketCfg = storage.Config{Bucket: "backups", Region: "us-east-1"}

func newTestStore(t *testing.T, state models.State) *store.Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	st := store.New(db)
	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, st.SaveState(context.Background(), state))
	return st
}

func cleanState() models.State {
	return models.State{
		User:       &models.User{ID: "me", Username: "me"},
		Groups:     []models.Group{{ID: "g1", Name: "Bio", OwnerID: "me", MemberIDs: []string{"u2"}, ShareCode: "ABC234"}},
		ShareCodes: []string{"ABC234"},
	}
}

func TestService_RunAll(t *testing.T) {
	t.Run("WithoutBucket", func(t *testing.T) {
		st := newTestStore(t, cleanState())
		svc := NewService(st, st.DB(), nil, bucketCfg, "exports", zap.NewNop())

		report := svc.RunAll(context.Background())

		require.NotNil(t, report.Data)
		require.NotNil(t, report.Schema)
		assert.Equal(t, "ok", report.Data.Status)
		assert.Equal(t, "ok", report.Schema.Status)
		assert.Nil(t, report.Bucket)
		assert.Empty(t, report.Errors)
	})

	t.Run("WithBucket", func(t *testing.T) {
		st := newTestStore(t, cleanState())
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "backups").Return(false, nil)
		svc := NewService(st, st.DB(), m, bucketCfg, "exports", zap.NewNop())

		report := svc.RunAll(context.Background())

		require.NotNil(t, report.Bucket)
		assert.Equal(t, "missing", report.Bucket.Status)
	})

	t.Run("FailingCheckDoesNotStopOthers", func(t *testing.T) {
		st := newTestStore(t, cleanState())
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "backups").Return(false, errors.New("unreachable"))
		svc := NewService(st, st.DB(), m, bucketCfg, "exports", zap.NewNop())

		report := svc.RunAll(context.Background())

		assert.Contains(t, report.Errors, "bucket")
		assert.Nil(t, report.Bucket)
		assert.NotNil(t, report.Data)
		assert.NotNil(t, report.Schema)
	})
}

func TestService_FixData(t *testing.T) {
	state := cleanState()
	state.Groups[0].MemberIDs = []string{"me", "u2", "u2"}
	st := newTestStore(t, state)
	svc := NewService(st, st.DB(), nil, bucketCfg, "", zap.NewNop())

	before, err := svc.CheckData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "issues", before.Status)

	report, err := svc.FixData(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "fixed", report.Status)
	assert.Empty(t, report.Issues)

	live, err := st.LoadState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, live.Groups[0].MemberIDs)
}

func TestService_FixData_Unfixable(t *testing.T) {
	state := cleanState()
	state.Groups = append(state.Groups, models.Group{ID: "g2", Name: "Chem", OwnerID: "me", ShareCode: "ABC234"})
	st := newTestStore(t, state)
	svc := NewService(st, st.DB(), nil, bucketCfg, "", zap.NewNop())

	report, err := svc.FixData(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "issues", report.Status)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, checks.IssueDuplicateShareCode, report.Issues[0].Check)
}

func TestService_BucketDisabled(t *testing.T) {
	st := newTestStore(t, cleanState())
	svc := NewService(st, st.DB(), nil, bucketCfg, "", zap.NewNop())

	_, err := svc.CheckBucket(context.Background())
	assert.ErrorIs(t, err, ErrBucketDisabled)
	assert.ErrorIs(t, svc.FixBucket(context.Background()), ErrBucketDisabled)
}

func TestService_FixBucket(t *testing.T) {
	st := newTestStore(t, cleanState())
	m := new(mocks.Client)
	m.On("BucketExists", mock.Anything, "backups").Return(false, nil)
	m.On("MakeBucket", mock.Anything, "backups", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)
	m.On("PutObject", mock.Anything, "backups", "exports/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)
	svc := NewService(st, st.DB(), m, bucketCfg, "exports", zap.NewNop())

	require.NoError(t, svc.FixBucket(context.Background()))
	m.AssertExpectations(t)
}
