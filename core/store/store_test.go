package store_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"studyhub/core/database"
	"studyhub/core/models"
	"studyhub/core/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newStore(t *testing.T) *store.Store {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	st := store.New(db)
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleState() models.State {
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	return models.State{
		User: &models.User{ID: "u1", Username: "ana", CreatedAt: created},
		Tasks: []models.Task{
			{ID: "t1", OwnerID: "u1", Title: "Essay", Category: models.CategoryHomework, Status: models.StatusPending, CreatedAt: created},
		},
		Groups: []models.Group{
			{ID: "g1", Name: "Physics", OwnerID: "u1", MemberIDs: []string{"u2"}, ShareCode: "ABC234", CreatedAt: created},
		},
		Friends:    []models.Friend{{ID: "f1", Username: "ben", AddedAt: created}},
		Stats:      &models.Stats{TotalTasksCompleted: 3, Achievements: []models.Achievement{}},
		ShareCodes: []string{"ABC234"},
	}
}

func TestStore_LoadStateEmpty(t *testing.T) {
	st := newStore(t)

	state, err := st.LoadState(context.Background())
	require.NoError(t, err)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Tasks)
	assert.Nil(t, state.Stats)
}

func TestStore_SaveAndLoadState(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	require.NoError(t, st.SaveState(ctx, sampleState()))

	state, err := st.LoadState(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleState(), state)

	// Saving again overwrites rather than duplicating rows
	next := sampleState()
	next.Tasks = nil
	require.NoError(t, st.SaveState(ctx, next))

	state, err = st.LoadState(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Tasks)
	assert.Len(t, state.Groups, 1)
}

func TestStore_UpdateRollsBackOnError(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	require.NoError(t, st.SaveState(ctx, sampleState()))

	boom := errors.New("boom")
	err := st.Update(ctx, func(s *models.State) error {
		s.Tasks = nil
		s.Groups[0].Name = "changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	state, err := st.LoadState(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Tasks, 1)
	assert.Equal(t, "Physics", state.Groups[0].Name)
}

func TestStore_UpdateCommits(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	err := st.Update(ctx, func(s *models.State) error {
		s.Friends = append(s.Friends, models.Friend{ID: "f9", Username: "zoe"})
		return nil
	})
	require.NoError(t, err)

	var friends []models.Friend
	found, err := st.Load(ctx, models.CollectionFriends, &friends)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "zoe", friends[0].Username)
}

func TestStore_LoadMissingCollection(t *testing.T) {
	st := newStore(t)

	var tasks []models.Task
	found, err := st.Load(context.Background(), models.CollectionTasks, &tasks)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Clear(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	require.NoError(t, st.SaveState(ctx, sampleState()))

	require.NoError(t, st.Clear(ctx))

	state, err := st.LoadState(ctx)
	require.NoError(t, err)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Groups)
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestStore_SaveStateRollsBackOnWriteFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	st := store.New(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `collections`")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := st.SaveState(context.Background(), sampleState())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write collection user")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadStateReadFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	st := store.New(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `collections`")).
		WillReturnError(errors.New("connection reset"))

	_, err := st.LoadState(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read collection user")
}
