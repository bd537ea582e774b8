package services

import (
	"context"
	"sync"
	"testing"

	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseRequestFullLifecycle(t *testing.T) {
	gdb, docs := newDocumentService(t)
	ctx := context.Background()
	svc := NewPurchaseRequestService(gdb, docs.logger, docs)

	req, err := svc.Create(ctx, staff, PurchaseRequestInput{
		Purpose:     "borehole rehabilitation",
		TotalAmount: 1200000,
		Currency:    "NGN",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, req.Status)
	assert.True(t, IsPlaceholder(req.ReferenceCode))
	assert.Equal(t, staff.ID, req.CreatedBy)

	_, err = svc.Transition(ctx, req.ID, lifecycle.ActionSubmit, staff)
	require.NoError(t, err)

	// Approve through a fresh load, the way a second request would.
	approved, err := svc.Transition(ctx, req.ID, lifecycle.ActionApprove, admin)
	require.NoError(t, err)
	core := approved.Core()
	assert.Equal(t, models.StatusApproved, core.Status)
	assert.Equal(t, "PR-CASFOD001", core.ReferenceCode)
	require.NotNil(t, core.ApprovedBy)
	assert.Equal(t, admin.ID, *core.ApprovedBy)

	var persisted models.PurchaseRequest
	require.NoError(t, gdb.Take(&persisted, "id = ?", req.ID).Error)
	assert.Equal(t, models.StatusApproved, persisted.Status)
	assert.Equal(t, "PR-CASFOD001", persisted.ReferenceCode)
}

func TestDoubleSubmitKeepsCode(t *testing.T) {
	gdb, docs := newDocumentService(t)
	ctx := context.Background()

	req := &models.PurchaseRequest{Purpose: "office supplies"}
	require.NoError(t, docs.Create(ctx, req, staff))
	require.NoError(t, docs.Transition(ctx, req, lifecycle.ActionSubmit, staff, lifecycle.VerifyOptions{}))
	code := req.ReferenceCode

	err := docs.Transition(ctx, req, lifecycle.ActionSubmit, staff, lifecycle.VerifyOptions{})
	var invalid *lifecycle.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)

	var persisted models.PurchaseRequest
	require.NoError(t, gdb.Take(&persisted, "id = ?", req.ID).Error)
	assert.Equal(t, code, persisted.ReferenceCode)
	assert.Equal(t, models.StatusPending, persisted.Status)

	var seq models.ReferenceSequence
	require.NoError(t, gdb.Take(&seq, "kind = ?", models.KindPurchaseRequest).Error)
	assert.EqualValues(t, 1, seq.NextSerial, "rejected resubmit must not burn a serial")
}

func TestUnauthorizedTransitionLeavesStatusUnchanged(t *testing.T) {
	gdb, docs := newDocumentService(t)
	ctx := context.Background()

	req := &models.PurchaseRequest{Purpose: "training venue"}
	require.NoError(t, docs.Create(ctx, req, staff))
	require.NoError(t, docs.Transition(ctx, req, lifecycle.ActionSubmit, staff, lifecycle.VerifyOptions{}))

	err := docs.Transition(ctx, req, lifecycle.ActionApprove, reviewer, lifecycle.VerifyOptions{})
	assert.ErrorIs(t, err, lifecycle.ErrInsufficientRole)

	var persisted models.PurchaseRequest
	require.NoError(t, gdb.Take(&persisted, "id = ?", req.ID).Error)
	assert.Equal(t, models.StatusPending, persisted.Status)
	assert.Nil(t, persisted.ApprovedBy)
}

func TestConceptNoteReviewFlow(t *testing.T) {
	gdb, docs := newDocumentService(t)
	ctx := context.Background()
	svc := NewConceptNoteService(gdb, docs.logger, docs)

	note, err := svc.Create(ctx, staff, ConceptNoteInput{Activity: "WASH assessment"})
	require.NoError(t, err)

	_, err = svc.Transition(ctx, note.ID, lifecycle.ActionSubmit, staff)
	require.NoError(t, err)

	reviewed, err := svc.Transition(ctx, note.ID, lifecycle.ActionReview, reviewer)
	require.NoError(t, err)
	core := reviewed.Core()
	assert.Equal(t, models.StatusReviewed, core.Status)
	require.NotNil(t, core.ReviewedBy)
	assert.Equal(t, reviewer.ID, *core.ReviewedBy)

	final, err := svc.Transition(ctx, note.ID, lifecycle.ActionApprove, admin)
	require.NoError(t, err)
	core = final.Core()
	assert.Equal(t, models.StatusApproved, core.Status)
	assert.Equal(t, "CN-CASFOD001", core.ReferenceCode)
	require.NotNil(t, core.ReviewedBy)
	require.NotNil(t, core.ApprovedBy)
}

func TestConcurrentApproveRejectExactlyOneWins(t *testing.T) {
	gdb, docs := newDocumentService(t)
	ctx := context.Background()

	req := &models.PurchaseRequest{Purpose: "vehicle maintenance"}
	require.NoError(t, docs.Create(ctx, req, staff))
	require.NoError(t, docs.Transition(ctx, req, lifecycle.ActionSubmit, staff, lifecycle.VerifyOptions{}))

	// Each actor works on its own loaded copy, like two independent requests.
	approveRec := &models.PurchaseRequest{}
	require.NoError(t, docs.Get(ctx, approveRec, req.ID, admin))
	rejectRec := &models.PurchaseRequest{}
	require.NoError(t, docs.Get(ctx, rejectRec, req.ID, otherAdmin))

	var wg sync.WaitGroup
	var approveErr, rejectErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		approveErr = docs.Transition(ctx, approveRec, lifecycle.ActionApprove, admin, lifecycle.VerifyOptions{})
	}()
	go func() {
		defer wg.Done()
		rejectErr = docs.Transition(ctx, rejectRec, lifecycle.ActionReject, otherAdmin, lifecycle.VerifyOptions{})
	}()
	wg.Wait()

	wins := 0
	for _, err := range []error{approveErr, rejectErr} {
		if err == nil {
			wins++
			continue
		}
		var invalid *lifecycle.InvalidTransitionError
		assert.ErrorAs(t, err, &invalid)
		assert.Empty(t, invalid.Allowed)
	}
	require.Equal(t, 1, wins, "approve=%v reject=%v", approveErr, rejectErr)

	var persisted models.PurchaseRequest
	require.NoError(t, gdb.Take(&persisted, "id = ?", req.ID).Error)
	if approveErr == nil {
		assert.Equal(t, models.StatusApproved, persisted.Status)
		assert.Nil(t, persisted.ReviewedBy)
		require.NotNil(t, persisted.ApprovedBy)
		assert.Equal(t, admin.ID, *persisted.ApprovedBy)
	} else {
		assert.Equal(t, models.StatusRejected, persisted.Status)
		assert.Nil(t, persisted.ApprovedBy)
	}
}

func TestVisibilityScopes(t *testing.T) {
	gdb, docs := newDocumentService(t)
	ctx := context.Background()
	svc := NewPurchaseRequestService(gdb, docs.logger, docs)

	mine, err := svc.Create(ctx, staff, PurchaseRequestInput{Purpose: "my draft"})
	require.NoError(t, err)
	theirs, err := svc.Create(ctx, otherStaff, PurchaseRequestInput{Purpose: "their draft"})
	require.NoError(t, err)
	submitted, err := svc.Create(ctx, otherStaff, PurchaseRequestInput{Purpose: "their submitted"})
	require.NoError(t, err)
	_, err = svc.Transition(ctx, submitted.ID, lifecycle.ActionSubmit, otherStaff)
	require.NoError(t, err)

	// Staff only see their own documents; a hidden one reads as missing.
	_, err = svc.Load(ctx, theirs.ID, staff)
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
	_, err = svc.Load(ctx, mine.ID, staff)
	assert.NoError(t, err)

	listed, err := svc.List(ctx, staff, "")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, mine.ID, listed[0].ID)

	// Reviewers see everything past draft plus their own drafts.
	_, err = svc.Load(ctx, submitted.ID, reviewer)
	assert.NoError(t, err)
	_, err = svc.Load(ctx, theirs.ID, reviewer)
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)

	// Admins see everything, including foreign drafts.
	listed, err = svc.List(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, listed, 3)

	// Status filter narrows the scoped listing.
	listed, err = svc.List(ctx, admin, models.StatusPending)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, submitted.ID, listed[0].ID)
}

func TestUpdateDraft(t *testing.T) {
	gdb, docs := newDocumentService(t)
	ctx := context.Background()
	svc := NewPurchaseRequestService(gdb, docs.logger, docs)

	req, err := svc.Create(ctx, staff, PurchaseRequestInput{Purpose: "old purpose"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, req.ID, staff, PurchaseRequestInput{Purpose: "new purpose", Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, "new purpose", updated.Purpose)
	assert.Equal(t, "USD", updated.Currency)
	assert.Equal(t, models.StatusDraft, updated.Status)

	// Other principals never reach the edit gate: the scope hides the draft.
	_, err = svc.Update(ctx, req.ID, otherStaff, PurchaseRequestInput{Purpose: "hijack"})
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)

	// An admin sees the draft but still fails the creator check.
	_, err = svc.Update(ctx, req.ID, admin, PurchaseRequestInput{Purpose: "hijack"})
	assert.ErrorIs(t, err, lifecycle.ErrCreatorMismatch)

	_, err = svc.Transition(ctx, req.ID, lifecycle.ActionSubmit, staff)
	require.NoError(t, err)

	_, err = svc.Update(ctx, req.ID, staff, PurchaseRequestInput{Purpose: "too late"})
	var invalid *lifecycle.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)

	var persisted models.PurchaseRequest
	require.NoError(t, gdb.Take(&persisted, "id = ?", req.ID).Error)
	assert.Equal(t, "new purpose", persisted.Purpose)
}

func TestDeleteDraft(t *testing.T) {
	gdb, docs := newDocumentService(t)
	ctx := context.Background()
	svc := NewStaffStrategyService(gdb, docs.logger, docs)

	strategy, err := svc.Create(ctx, staff, StaffStrategyInput{Title: "Q4 outreach"})
	require.NoError(t, err)

	// An association left behind by the draft must go with it.
	assoc := models.FileAssociation{
		ID:           "assoc-1",
		FileID:       "file-1",
		DocumentKind: models.KindStaffStrategy,
		DocumentID:   strategy.ID,
		FieldName:    "annex",
	}
	require.NoError(t, gdb.Create(&assoc).Error)

	require.NoError(t, svc.Delete(ctx, strategy.ID, staff))

	var count int64
	gdb.Model(&models.StaffStrategy{}).Where("id = ?", strategy.ID).Count(&count)
	assert.Zero(t, count)
	gdb.Model(&models.FileAssociation{}).Where("document_id = ?", strategy.ID).Count(&count)
	assert.Zero(t, count)
}

func TestDeleteRejectedAfterSubmit(t *testing.T) {
	gdb, docs := newDocumentService(t)
	ctx := context.Background()
	svc := NewPaymentRequestService(gdb, docs.logger, docs)

	payment, err := svc.Create(ctx, staff, PaymentRequestInput{Purpose: "tranche 2", Payee: "vendor ltd", Amount: 50000})
	require.NoError(t, err)
	_, err = svc.Transition(ctx, payment.ID, lifecycle.ActionSubmit, staff)
	require.NoError(t, err)

	err = svc.Delete(ctx, payment.ID, staff)
	var invalid *lifecycle.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)

	var count int64
	gdb.Model(&models.PaymentRequest{}).Where("id = ?", payment.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}
