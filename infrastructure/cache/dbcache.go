package cache

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry is one key-value snapshot row.
type Entry struct {
	Key       string    `gorm:"primaryKey;column:cache_key;type:varchar(191)"`
	Value     []byte    `gorm:"column:value;type:longblob;not null"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP"`
}

func (Entry) TableName() string {
	return "kv_entries"
}

// DBCache persists snapshots in a MySQL key-value table, for deployments
// where the service host has no durable filesystem.
type DBCache struct {
	db *gorm.DB
}

// NewDBCache opens the pool and ensures the kv table exists.
// dsn should include parseTime=true.
func NewDBCache(dsn string, maxConnection int) (*DBCache, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetMaxIdleConns(maxConnection)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}

	return &DBCache{db: db}, nil
}

func (c *DBCache) Load(key string) ([]byte, error) {
	var entry Entry
	err := c.db.Where("cache_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("load cache %s: %w", key, err)
	}
	return entry.Value, nil
}

func (c *DBCache) Save(key string, value []byte) error {
	entry := Entry{Key: key, Value: value}
	if err := c.db.Save(&entry).Error; err != nil {
		return fmt.Errorf("save cache %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying pool.
func (c *DBCache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
