package services

import (
	"context"
	"testing"

	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/lifecycle"
	"github.com/casfod/stafff-portal-backend-sub001/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCommentService(t *testing.T) *CommentService {
	t.Helper()
	return NewCommentService(newTestDB(t), zap.NewNop(), metrics.NewCollector())
}

func TestCommentAddAndList(t *testing.T) {
	svc := newCommentService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, models.KindConceptNote, "doc-1", staff, "please review the budget")
	require.NoError(t, err)
	assert.Equal(t, staff.ID, first.AuthorID)
	assert.False(t, first.Edited)
	assert.False(t, first.Deleted)

	_, err = svc.Add(ctx, models.KindConceptNote, "doc-1", reviewer, "budget looks off in section 3")
	require.NoError(t, err)

	// A comment on another document of the same kind stays out of the thread.
	_, err = svc.Add(ctx, models.KindConceptNote, "doc-2", staff, "unrelated")
	require.NoError(t, err)

	comments, err := svc.List(ctx, models.KindConceptNote, "doc-1", false)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "please review the budget", comments[0].Text)
	assert.Equal(t, "budget looks off in section 3", comments[1].Text)
}

func TestCommentAddEmptyText(t *testing.T) {
	svc := newCommentService(t)

	_, err := svc.Add(context.Background(), models.KindConceptNote, "doc-1", staff, "")
	var verr *lifecycle.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCommentEdit(t *testing.T) {
	svc := newCommentService(t)
	ctx := context.Background()

	comment, err := svc.Add(ctx, models.KindPurchaseRequest, "doc-1", staff, "orignal")
	require.NoError(t, err)

	edited, err := svc.Edit(ctx, comment.ID, staff, "original")
	require.NoError(t, err)
	assert.Equal(t, "original", edited.Text)
	assert.True(t, edited.Edited)

	// Only the author may edit; an admin is not an exception here.
	_, err = svc.Edit(ctx, comment.ID, admin, "rewritten")
	assert.ErrorIs(t, err, lifecycle.ErrCreatorMismatch)

	_, err = svc.Edit(ctx, "no-such-comment", staff, "text")
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestCommentSoftDelete(t *testing.T) {
	svc := newCommentService(t)
	ctx := context.Background()

	comment, err := svc.Add(ctx, models.KindPaymentRequest, "doc-1", staff, "wrong payee")
	require.NoError(t, err)
	keep, err := svc.Add(ctx, models.KindPaymentRequest, "doc-1", reviewer, "checked")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, comment.ID, staff))

	// Default reads hide the deleted row.
	visible, err := svc.List(ctx, models.KindPaymentRequest, "doc-1", false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, keep.ID, visible[0].ID)

	// The audit view still has it, text intact.
	all, err := svc.List(ctx, models.KindPaymentRequest, "doc-1", true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "wrong payee", all[0].Text)
	assert.True(t, all[0].Deleted)

	// Deleted rows reject edits.
	_, err = svc.Edit(ctx, comment.ID, staff, "resurrect")
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestCommentDeleteAuthorization(t *testing.T) {
	svc := newCommentService(t)
	ctx := context.Background()

	comment, err := svc.Add(ctx, models.KindStaffStrategy, "doc-1", staff, "draft feedback")
	require.NoError(t, err)

	// Neither another staff member nor a reviewer may delete it.
	assert.ErrorIs(t, svc.Delete(ctx, comment.ID, otherStaff), lifecycle.ErrCreatorMismatch)
	assert.ErrorIs(t, svc.Delete(ctx, comment.ID, reviewer), lifecycle.ErrCreatorMismatch)

	// An admin may moderate any comment.
	require.NoError(t, svc.Delete(ctx, comment.ID, admin))

	visible, err := svc.List(ctx, models.KindStaffStrategy, "doc-1", false)
	require.NoError(t, err)
	assert.Empty(t, visible)
}
