package models

import (
	"time"
)

// File is the metadata record for one object in the external store. The
// binary payload itself lives behind the object key; deleting the row does
// not by itself delete the object.
type File struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Key         string    `gorm:"not null" json:"key"`
	URL         string    `gorm:"not null" json:"url"`
	Name        string    `gorm:"not null" json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedBy  uint      `gorm:"not null;index" json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileAssociation binds one file to one (kind, document, field) location.
// Many-to-many: the same file may appear under several documents and the
// same document field may carry several files. Rows are never updated in
// place; replacing an attachment is detach plus attach.
type FileAssociation struct {
	ID           string       `gorm:"type:char(36);primaryKey" json:"id"`
	FileID       string       `gorm:"type:char(36);not null;index" json:"file_id"`
	DocumentKind DocumentKind `gorm:"type:varchar(32);not null;index:idx_file_assoc_document" json:"document_kind"`
	DocumentID   string       `gorm:"type:char(36);not null;index:idx_file_assoc_document;index" json:"document_id"`
	FieldName    string       `json:"field_name,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
