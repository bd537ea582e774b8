package lifecycle

import (
	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
)

// Action names a trigger against the status graph.
type Action string

const (
	ActionEdit    Action = "edit"
	ActionSubmit  Action = "submit"
	ActionReview  Action = "review"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// transition is one row of the status graph: the states it connects, the
// minimum role gate, whether it is restricted to the document creator, and
// whether it only exists on kinds with the review step.
type transition struct {
	action      Action
	from        models.DocumentStatus
	to          models.DocumentStatus
	minRole     models.UserRole
	creatorOnly bool
	reviewOnly  bool
}

// The full graph. Kinds without the review step drop the reviewOnly rows,
// which removes both the review trigger and the reviewed->approved and
// reviewed->rejected edges.
var transitions = []transition{
	{action: ActionEdit, from: models.StatusDraft, to: models.StatusDraft, minRole: models.RoleStaff, creatorOnly: true},
	{action: ActionSubmit, from: models.StatusDraft, to: models.StatusPending, minRole: models.RoleStaff, creatorOnly: true},
	{action: ActionReview, from: models.StatusPending, to: models.StatusReviewed, minRole: models.RoleReviewer, reviewOnly: true},
	{action: ActionApprove, from: models.StatusPending, to: models.StatusApproved, minRole: models.RoleAdmin},
	{action: ActionApprove, from: models.StatusReviewed, to: models.StatusApproved, minRole: models.RoleAdmin, reviewOnly: true},
	{action: ActionReject, from: models.StatusPending, to: models.StatusRejected, minRole: models.RoleAdmin},
	{action: ActionReject, from: models.StatusReviewed, to: models.StatusRejected, minRole: models.RoleAdmin, reviewOnly: true},
}

// Machine is the status graph for one document kind.
type Machine struct {
	withReview bool
}

// For returns the machine flavor for a kind. Only concept notes carry the
// review step; the other three kinds run the four-state subset.
func For(kind models.DocumentKind) Machine {
	return Machine{withReview: kind == models.KindConceptNote}
}

func (m Machine) rules() []transition {
	out := make([]transition, 0, len(transitions))
	for _, t := range transitions {
		if t.reviewOnly && !m.withReview {
			continue
		}
		out = append(out, t)
	}
	return out
}

// AllowedFrom lists the states reachable from the given status.
func (m Machine) AllowedFrom(from models.DocumentStatus) []models.DocumentStatus {
	var out []models.DocumentStatus
	for _, t := range m.rules() {
		if t.from != from || t.to == from {
			continue
		}
		out = append(out, t.to)
	}
	return out
}

// target returns where an action would land, ignoring the current state.
// Used to fill the To field of InvalidTransitionError.
func (m Machine) target(action Action) models.DocumentStatus {
	for _, t := range m.rules() {
		if t.action == action {
			return t.to
		}
	}
	return ""
}

// Outcome is a validated transition, ready to be applied as one atomic
// write: the target status plus whichever side effects the edge demands.
type Outcome struct {
	From          models.DocumentStatus
	To            models.DocumentStatus
	AllocateCode  bool
	SetReviewedBy bool
	SetApprovedBy bool
}

// Decide validates an action against the current status, the principal's
// role, and (for creator-gated edges) ownership. It mutates nothing: the
// caller applies the returned outcome under its own concurrency control.
func (m Machine) Decide(core *models.DocumentCore, action Action, p Principal, own VerifyOptions) (Outcome, error) {
	var match *transition
	for _, t := range m.rules() {
		if t.action == action && t.from == core.Status {
			match = &t
			break
		}
	}
	if match == nil {
		return Outcome{}, &InvalidTransitionError{
			From:    core.Status,
			To:      m.target(action),
			Allowed: m.AllowedFrom(core.Status),
		}
	}
	if !p.Role.AtLeast(match.minRole) {
		return Outcome{}, ErrInsufficientRole
	}
	if match.creatorOnly {
		if err := VerifyOwnership(core, p.ID, own); err != nil {
			return Outcome{}, err
		}
	}
	return Outcome{
		From:          match.from,
		To:            match.to,
		AllocateCode:  action == ActionSubmit,
		SetReviewedBy: action == ActionReview,
		SetApprovedBy: action == ActionApprove,
	}, nil
}
