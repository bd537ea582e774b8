package models

// ConceptNote is the project concept document. It is the only kind with the
// optional review step in its lifecycle, and the only one carrying a
// PreparedBy assertion distinct from the creating account.
type ConceptNote struct {
	DocumentCore `gorm:"embedded"`
	PreparedBy   *uint  `json:"prepared_by,omitempty"`
	Activity     string `gorm:"not null" json:"activity"`
	Background   string `gorm:"type:text" json:"background"`
	Objectives   string `gorm:"type:text" json:"objectives"`
	Beneficiary  string `json:"beneficiary"`
	Location     string `json:"location"`
}

func (ConceptNote) TableName() string { return "concept_notes" }

func (ConceptNote) Kind() DocumentKind { return KindConceptNote }
