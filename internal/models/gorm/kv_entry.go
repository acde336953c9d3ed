package gorm

import "time"

// KVEntry is a single value of the key-value store
type KVEntry struct {
	Key       string    `gorm:"column:key;primaryKey;type:varchar(255)"`
	Value     []byte    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// KVListEntry is one element of an append-only list; ID preserves append order
type KVListEntry struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ListKey   string    `gorm:"column:list_key;type:varchar(255);not null;index"`
	Value     []byte    `gorm:"column:value;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (KVListEntry) TableName() string {
	return "kv_list_entries"
}
