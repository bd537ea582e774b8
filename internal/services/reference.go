package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/lifecycle"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Reference code formats per kind. The organisation prefix is fixed; the
// serial is zero-padded to three digits and keeps growing past 999.
var referenceFormats = map[models.DocumentKind]string{
	models.KindConceptNote:     "CN-CASFOD%03d",
	models.KindPurchaseRequest: "PR-CASFOD%03d",
	models.KindStaffStrategy:   "SS-CASFOD-%03d",
	models.KindPaymentRequest:  "PY-CASFOD-%03d",
}

var referencePrefixes = map[models.DocumentKind]string{
	models.KindConceptNote:     "CN",
	models.KindPurchaseRequest: "PR",
	models.KindStaffStrategy:   "SS",
	models.KindPaymentRequest:  "PY",
}

const draftMarker = "-DRAFT-"

// DraftPlaceholder mints a non-colliding stand-in code for a new draft so
// the unique index on reference_code holds even with many open drafts. It
// is overwritten exactly once, when the document leaves draft.
func DraftPlaceholder(kind models.DocumentKind) string {
	return fmt.Sprintf("%s%s%d-%s",
		referencePrefixes[kind], draftMarker, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// IsPlaceholder reports whether a code is still the draft stand-in.
func IsPlaceholder(code string) bool {
	return code == "" || strings.Contains(code, draftMarker)
}

// nextReferenceCode allocates the next serial for a kind. It must run inside
// the transaction that also flips the document status: the counter row is
// created on first use, then incremented under the row lock the UPDATE
// takes, so concurrent submissions serialize on it and a rollback discards
// the increment together with the status change.
func nextReferenceCode(tx *gorm.DB, kind models.DocumentKind) (string, error) {
	format, ok := referenceFormats[kind]
	if !ok {
		return "", &lifecycle.ValidationError{Field: "kind", Message: "unknown document kind"}
	}

	seed := models.ReferenceSequence{Kind: string(kind)}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return "", fmt.Errorf("seed reference sequence: %w", err)
	}
	if err := tx.Model(&models.ReferenceSequence{}).
		Where("kind = ?", string(kind)).
		UpdateColumn("next_serial", gorm.Expr("next_serial + ?", 1)).Error; err != nil {
		return "", fmt.Errorf("increment reference sequence: %w", err)
	}

	var seq models.ReferenceSequence
	if err := tx.Take(&seq, "kind = ?", string(kind)).Error; err != nil {
		return "", fmt.Errorf("read reference sequence: %w", err)
	}
	return fmt.Sprintf(format, seq.NextSerial), nil
}
