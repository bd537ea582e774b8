package render

import (
	"context"

	"github.com/casfod/stafff-portal-backend-sub001/internal/db/models"
)

// Document is the finalized data a renderer consumes. Only approved
// documents reach a renderer.
type Document interface {
	Core() *models.DocumentCore
	Kind() models.DocumentKind
}

// Renderer serializes an approved document into a PDF byte stream. The
// implementation lives outside this backend; handlers answer 501 when no
// renderer is wired in.
type Renderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
}
