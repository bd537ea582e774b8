package models

import (
	"time"
)

// Comment is a polymorphic sub-thread entry bound to one document of any
// kind. Deletion is soft: deleted rows stay in the table for audit and are
// filtered out of default reads on the Deleted flag, never via Unscoped
// tricks on a timestamp column.
type Comment struct {
	ID           string       `gorm:"type:char(36);primaryKey" json:"id"`
	DocumentKind DocumentKind `gorm:"type:varchar(32);not null;index:idx_comments_document" json:"document_kind"`
	DocumentID   string       `gorm:"type:char(36);not null;index:idx_comments_document" json:"document_id"`
	AuthorID     uint         `gorm:"not null;index" json:"author_id"`
	Text         string       `gorm:"type:text;not null" json:"text"`
	Edited       bool         `gorm:"not null;default:false" json:"edited"`
	Deleted      bool         `gorm:"not null;default:false" json:"deleted"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
