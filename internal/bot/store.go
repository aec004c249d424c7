// Package bot implements the content bot: a versioned state machine serving
// editable content sections behind a password-gated, role-tiered admin menu.
package bot

import (
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var ErrNoDocument = errors.New("document not found")

// Document is one named JSON document with an explicit schema version.
// Content, activity log and roster each live in their own row.
type Document struct {
	Name          string `gorm:"primaryKey;size:50"`
	SchemaVersion int    `gorm:"not null"`
	Body          string `gorm:"type:text;not null"`
	UpdatedAt     time.Time
}

// Store persists documents in an embedded sqlite database. Every mutation is
// a read-modify-write inside one transaction, which removes the lost-update
// risk of rewriting whole JSON files.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (and migrates) the document database at path.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return NewStore(db)
}

// NewStore wraps an existing connection, migrating the document table.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Load reads a document body and its schema version.
func (s *Store) Load(name string) (int, []byte, error) {
	var doc Document
	if err := s.db.First(&doc, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil, ErrNoDocument
		}
		return 0, nil, err
	}
	return doc.SchemaVersion, []byte(doc.Body), nil
}

// Update applies an atomic read-modify-write to a document. The mutate
// callback receives the stored version and body (version 0 and nil body for
// a missing document) and returns the replacement.
func (s *Store) Update(name string, mutate func(version int, body []byte) (int, []byte, error)) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var doc Document
		err := tx.First(&doc, "name = ?", name).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		version, body, err := mutate(doc.SchemaVersion, []byte(doc.Body))
		if err != nil {
			return err
		}

		doc.Name = name
		doc.SchemaVersion = version
		doc.Body = string(body)
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&doc).Error
	})
}
