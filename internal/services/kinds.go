package services

import (
	"context"

	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
	"github.com/casfod/stafff-portal-backend-sub001/internal/lifecycle"
)

// kindService is the per-kind repository glue shared by all four document
// services: load through the visibility scope, run transitions, delete
// drafts. Payload concerns (create/update/list) stay on the concrete
// services since their columns differ.
type kindService struct {
	docs    *DocumentService
	kind    models.DocumentKind
	fresh   func() Record
	ownOpts func(Record) lifecycle.VerifyOptions
}

func newKindService(docs *DocumentService, kind models.DocumentKind, fresh func() Record) kindService {
	return kindService{
		docs:    docs,
		kind:    kind,
		fresh:   fresh,
		ownOpts: func(Record) lifecycle.VerifyOptions { return lifecycle.VerifyOptions{} },
	}
}

func (s *kindService) Kind() models.DocumentKind { return s.kind }

// Load fetches one document the principal may see.
func (s *kindService) Load(ctx context.Context, id string, p lifecycle.Principal) (Record, error) {
	rec := s.fresh()
	if err := s.docs.Get(ctx, rec, id, p); err != nil {
		return nil, err
	}
	return rec, nil
}

// Transition loads the document and applies one lifecycle action.
func (s *kindService) Transition(ctx context.Context, id string, action lifecycle.Action, p lifecycle.Principal) (Record, error) {
	rec, err := s.Load(ctx, id, p)
	if err != nil {
		return nil, err
	}
	if err := s.docs.Transition(ctx, rec, action, p, s.ownOpts(rec)); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes a draft (creator only), detaching its files first.
func (s *kindService) Delete(ctx context.Context, id string, p lifecycle.Principal) error {
	rec, err := s.Load(ctx, id, p)
	if err != nil {
		return err
	}
	return s.docs.DeleteDraft(ctx, rec, p, s.ownOpts(rec))
}
