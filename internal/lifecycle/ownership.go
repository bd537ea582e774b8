package lifecycle

import (
	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
)

// Principal is the already-authenticated actor. Token verification happens
// upstream; by the time the engine runs, only the id and role matter.
type Principal struct {
	ID   uint
	Role models.UserRole
}

// VerifyOptions tunes the ownership check. PreparedBy is the document's
// recorded preparer, supplied by the kinds that model one; it is only
// consulted when RequirePreparedBy is set.
type VerifyOptions struct {
	RequirePreparedBy bool
	PreparedBy        *uint
}

// VerifyOwnership answers "is this my document". It is pure and does no I/O;
// role gating is a separate, orthogonal check done by the machine. Both must
// pass for author-initiated transitions.
func VerifyOwnership(core *models.DocumentCore, principalID uint, opts VerifyOptions) error {
	if core.CreatedBy != principalID {
		return ErrCreatorMismatch
	}
	if opts.RequirePreparedBy {
		if opts.PreparedBy == nil {
			return ErrPreparerMissing
		}
		if *opts.PreparedBy != principalID {
			return ErrPreparerMismatch
		}
	}
	return nil
}
