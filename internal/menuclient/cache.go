package menuclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// CacheKey is where the facade mirrors the collection in the local cache
const CacheKey = "portal_menu_items"

// ErrMissingCachePath is returned when no SQLite data source is given
var ErrMissingCachePath = errors.New("menuclient: missing cache path")

// LocalCache is the durable key/value store on the client side
type LocalCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type cacheEntry struct {
	Key       string `gorm:"column:cache_key;primaryKey;size:255"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (cacheEntry) TableName() string {
	return "menu_cache_entries"
}

// SQLiteCache implements LocalCache on a SQLite database
type SQLiteCache struct {
	db *gorm.DB
}

// OpenSQLiteCache opens (creating if needed) the SQLite database at path
func OpenSQLiteCache(path string) (*SQLiteCache, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrMissingCachePath
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("menuclient: open sqlite cache: %w", err)
	}
	return NewSQLiteCache(db)
}

// NewSQLiteCache wraps an open database and migrates the cache table
func NewSQLiteCache(db *gorm.DB) (*SQLiteCache, error) {
	if err := db.AutoMigrate(&cacheEntry{}); err != nil {
		return nil, fmt.Errorf("menuclient: migrate cache: %w", err)
	}
	return &SQLiteCache{db: db}, nil
}

// Get returns the value stored under key
func (c *SQLiteCache) Get(ctx context.Context, key string) (string, bool, error) {
	var entry cacheEntry
	err := c.db.WithContext(ctx).Where("cache_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set upserts value under key
func (c *SQLiteCache) Set(ctx context.Context, key, value string) error {
	entry := cacheEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Close closes the underlying database
func (c *SQLiteCache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
