package model

import "time"

// Entry is one key of the local key-value store.
type Entry struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}
