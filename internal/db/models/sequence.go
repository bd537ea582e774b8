package models

// ReferenceSequence is the per-kind atomic counter behind reference code
// allocation. The row is incremented inside the same transaction that moves
// a document out of draft, so two concurrent submissions can never read the
// same serial. Gaps appear when a submission rolls back after incrementing;
// codes stay unique, which is the invariant that matters.
type ReferenceSequence struct {
	Kind       string `gorm:"type:varchar(32);primaryKey"`
	NextSerial int64  `gorm:"not null;default:0"`
}

func (ReferenceSequence) TableName() string { return "reference_sequences" }

// All returns every model registered for migration, in dependency order.
func All() []any {
	return []any{
		&User{},
		&ConceptNote{},
		&PurchaseRequest{},
		&StaffStrategy{},
		&PaymentRequest{},
		&Comment{},
		&File{},
		&FileAssociation{},
		&ReferenceSequence{},
	}
}
