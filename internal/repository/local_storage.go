package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"matrix-planner/internal/model"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("key not found")

// LocalStorage stores JSON values under fixed string keys.
type LocalStorage struct {
	db *gorm.DB
}

func NewLocalStorage(db *gorm.DB) *LocalStorage {
	return &LocalStorage{db: db}
}

// Get decodes the value stored under key into dst.
func (s *LocalStorage) Get(ctx context.Context, key string, dst any) error {
	var entry model.Entry
	err := s.db.WithContext(ctx).Where("`key` = ?", key).First(&entry).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("find entry %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(entry.Value), dst); err != nil {
		return fmt.Errorf("decode entry %q: %w", key, err)
	}
	return nil
}

// Set replaces the value stored under key.
func (s *LocalStorage) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode entry %q: %w", key, err)
	}
	entry := model.Entry{Key: key, Value: string(raw)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("save entry %q: %w", key, err)
	}
	return nil
}

func (s *LocalStorage) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("`key` = ?", key).Delete(&model.Entry{}).Error; err != nil {
		return fmt.Errorf("remove entry %q: %w", key, err)
	}
	return nil
}
