package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// record is the single table backing the document store: one row per
// (kind, key), properties carried as a JSON blob. The store stays
// schema-less; SQLite only ever sees opaque text.
type record struct {
	Kind  string `gorm:"primaryKey;size:64"`
	Key   string `gorm:"primaryKey;size:255"`
	Props string `gorm:"type:text;not null"`
}

// TableName returns the database table name for record.
func (record) TableName() string { return "records" }

// SQLiteClient implements Client on a local SQLite database. It is safe
// for concurrent use; concurrency control beyond last-writer-wins is the
// caller's concern.
type SQLiteClient struct {
	db *gorm.DB
}

// Open opens (or creates) the SQLite database at path, applies PRAGMAs
// and pool settings, and migrates the records table.
func Open(path string) (*SQLiteClient, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, err
	}
	return &SQLiteClient{db: db}, nil
}

// NewSQLiteClient wraps an already-open GORM handle. The records table must
// exist (tests migrate it themselves).
func NewSQLiteClient(db *gorm.DB) *SQLiteClient {
	return &SQLiteClient{db: db}
}

// Migrate creates the records table if missing.
func (c *SQLiteClient) Migrate() error {
	return c.db.AutoMigrate(&record{})
}

// Close releases the underlying connection pool.
func (c *SQLiteClient) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Put upserts the document under (kind, key).
func (c *SQLiteClient) Put(ctx context.Context, kind, key string, doc Document) error {
	done := observeOp(kind, opPut)
	props, err := json.Marshal(doc)
	if err != nil {
		done(err)
		return fmt.Errorf("encode document %s/%s: %w", kind, key, err)
	}
	err = c.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kind"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"props"}),
		}).
		Create(&record{Kind: kind, Key: key, Props: string(props)}).Error
	done(err)
	return err
}

// Query returns all documents of the kind, optionally ordered by a string
// property. Ordering happens inside SQLite via json_extract so the client
// never materializes an unsorted intermediate.
func (c *SQLiteClient) Query(ctx context.Context, kind string, sort *Sort) ([]KeyedDocument, error) {
	done := observeOp(kind, opQuery)

	var rows []record
	q := c.db.WithContext(ctx).Where("kind = ?", kind)
	if sort != nil {
		if !sortFieldRE.MatchString(sort.Field) {
			err := fmt.Errorf("invalid sort field %q", sort.Field)
			done(err)
			return nil, err
		}
		dir := "ASC"
		if sort.Descending {
			dir = "DESC"
		}
		q = q.Order(fmt.Sprintf("json_extract(props, '$.%s') %s", sort.Field, dir))
	}
	if err := q.Find(&rows).Error; err != nil {
		done(err)
		return nil, err
	}

	out := make([]KeyedDocument, 0, len(rows))
	for _, r := range rows {
		var doc Document
		if err := json.Unmarshal([]byte(r.Props), &doc); err != nil {
			err = fmt.Errorf("decode document %s/%s: %w", r.Kind, r.Key, err)
			done(err)
			return nil, err
		}
		out = append(out, KeyedDocument{Key: r.Key, Doc: doc})
	}
	done(nil)
	return out, nil
}

// Delete removes the document under (kind, key); absent keys are a no-op.
func (c *SQLiteClient) Delete(ctx context.Context, kind, key string) error {
	done := observeOp(kind, opDelete)
	err := c.db.WithContext(ctx).
		Where("kind = ? AND key = ?", kind, key).
		Delete(&record{}).Error
	done(err)
	return err
}

// sortFieldRE restricts sort fields to plain property names so they can be
// spliced into the json_extract path.
var sortFieldRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var _ Client = (*SQLiteClient)(nil)
