package storage

import (
	"context"
)

// Object identifies one stored binary: the key used for deletion and the
// public URL handed to clients.
type Object struct {
	Key string
	URL string
}

// ObjectStore is the binary store the engine references but does not own.
// Upload takes a whole buffer; streaming is not needed for the attachment
// sizes this backend handles.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
}
