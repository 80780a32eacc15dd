package storage

import (
	"context"
	"fmt"
)

// Key addresses one document: (collection, id[, sub]). Chunk records use the
// chunk type as sub key; metadata records leave it empty.
type Key struct {
	Collection string
	ID         string
	Sub        string
}

func (k Key) String() string {
	if k.Sub == "" {
		return fmt.Sprintf("%s/%s", k.Collection, k.ID)
	}
	return fmt.Sprintf("%s/%s/%s", k.Collection, k.ID, k.Sub)
}

// DocumentStore is a document-oriented key/value store. Documents are any
// value the backend can encode (structs with json tags, maps, slices).
type DocumentStore interface {
	Put(ctx context.Context, key Key, doc interface{}) error
	// Get decodes the document into out. found is false when the key is absent;
	// absence is not an error.
	Get(ctx context.Context, key Key, out interface{}) (found bool, err error)
}
