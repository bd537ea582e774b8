package models

import (
	"time"
)

// DocumentKind discriminates the four business-object types that share the
// lifecycle engine. It is a closed enum: anything outside KindValid is
// rejected before it reaches storage.
type DocumentKind string

const (
	KindConceptNote     DocumentKind = "concept_note"
	KindPurchaseRequest DocumentKind = "purchase_request"
	KindStaffStrategy   DocumentKind = "staff_strategy"
	KindPaymentRequest  DocumentKind = "payment_request"
)

func (k DocumentKind) Valid() bool {
	switch k {
	case KindConceptNote, KindPurchaseRequest, KindStaffStrategy, KindPaymentRequest:
		return true
	}
	return false
}

type DocumentStatus string

const (
	StatusDraft    DocumentStatus = "draft"
	StatusPending  DocumentStatus = "pending"
	StatusReviewed DocumentStatus = "reviewed"
	StatusApproved DocumentStatus = "approved"
	StatusRejected DocumentStatus = "rejected"
)

// Terminal reports whether no further transition may leave this status.
func (s DocumentStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// DocumentCore carries the fields the lifecycle engine owns. Every document
// kind embeds it; the kind-specific payload columns live on the concrete
// structs and are opaque to the engine.
//
// ReferenceCode holds a draft placeholder until the document leaves draft,
// at which point the real sequential code is written exactly once. The
// unique index is the backstop against concurrent allocations computing the
// same serial.
type DocumentCore struct {
	ID            string         `gorm:"type:char(36);primaryKey" json:"id"`
	ReferenceCode string         `gorm:"uniqueIndex;not null" json:"reference_code"`
	Status        DocumentStatus `gorm:"type:varchar(16);not null;default:'draft';index" json:"status"`
	CreatedBy     uint           `gorm:"not null;index" json:"created_by"`
	ReviewedBy    *uint          `json:"reviewed_by,omitempty"`
	ApprovedBy    *uint          `json:"approved_by,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (c *DocumentCore) Core() *DocumentCore { return c }
