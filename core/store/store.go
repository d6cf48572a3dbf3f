package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyhub/core/models"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TableName is the table holding one row per collection.
const TableName = "collections"

// Columns lists the columns the collections table must have.
var Columns = []string{"name", "payload", "updated_at"}

// record is the persisted form of one collection.
type record struct {
	Name      string `gorm:"primaryKey;size:64"`
	Payload   string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (record) TableName() string {
	return TableName
}

// Repository is the read-all/write-all contract the services depend on.
type Repository interface {
	// LoadState reads every collection.
	LoadState(ctx context.Context) (models.State, error)
	// SaveState replaces every collection atomically.
	SaveState(ctx context.Context, s models.State) error
	// Update reads the state, applies fn and writes the result in one transaction.
	// If fn returns an error nothing is written.
	Update(ctx context.Context, fn func(s *models.State) error) error
}

// Store is the gorm-backed Repository.
type Store struct {
	db *gorm.DB
}

var _ Repository = (*Store)(nil)

// New creates a store over an open connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the collections table if needed.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("failed to migrate collections table: %w", err)
	}
	return nil
}

// DB exposes the underlying connection for schema inspection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Load decodes one collection into dst. It reports false when the collection
// has never been written, leaving dst untouched.
func (s *Store) Load(ctx context.Context, name string, dst any) (bool, error) {
	return load(s.db.WithContext(ctx), name, dst)
}

// Save replaces one collection.
func (s *Store) Save(ctx context.Context, name string, v any) error {
	return save(s.db.WithContext(ctx), name, v)
}

// LoadState reads every collection.
func (s *Store) LoadState(ctx context.Context) (models.State, error) {
	return loadState(s.db.WithContext(ctx))
}

// SaveState replaces every collection in one transaction.
func (s *Store) SaveState(ctx context.Context, state models.State) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveState(tx, state)
	})
}

// Update runs a read-modify-write cycle in one transaction.
func (s *Store) Update(ctx context.Context, fn func(state *models.State) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := loadState(tx)
		if err != nil {
			return err
		}
		if err := fn(&state); err != nil {
			return err
		}
		return saveState(tx, state)
	})
}

// Clear removes every collection (logout).
func (s *Store) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&record{}).Error; err != nil {
		return fmt.Errorf("failed to clear collections: %w", err)
	}
	return nil
}

func load(db *gorm.DB, name string, dst any) (bool, error) {
	var rec record
	err := db.Where("name = ?", name).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read collection %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(rec.Payload), dst); err != nil {
		return false, fmt.Errorf("failed to decode collection %s: %w", name, err)
	}
	return true, nil
}

func save(db *gorm.DB, name string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", name, err)
	}
	rec := record{Name: name, Payload: string(payload), UpdatedAt: time.Now().UTC()}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to write collection %s: %w", name, err)
	}
	return nil
}

func loadState(db *gorm.DB) (models.State, error) {
	var state models.State
	targets := []struct {
		name string
		dst  any
	}{
		{models.CollectionUser, &state.User},
		{models.CollectionTasks, &state.Tasks},
		{models.CollectionGroups, &state.Groups},
		{models.CollectionFriends, &state.Friends},
		{models.CollectionStats, &state.Stats},
		{models.CollectionShareCodes, &state.ShareCodes},
	}
	for _, t := range targets {
		if _, err := load(db, t.name, t.dst); err != nil {
			return models.State{}, err
		}
	}
	return state, nil
}

func saveState(db *gorm.DB, state models.State) error {
	values := []struct {
		name string
		v    any
	}{
		{models.CollectionUser, state.User},
		{models.CollectionTasks, nonNil(state.Tasks)},
		{models.CollectionGroups, nonNil(state.Groups)},
		{models.CollectionFriends, nonNil(state.Friends)},
		{models.CollectionStats, state.Stats},
		{models.CollectionShareCodes, nonNil(state.ShareCodes)},
	}
	for _, v := range values {
		if err := save(db, v.name, v.v); err != nil {
			return err
		}
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
