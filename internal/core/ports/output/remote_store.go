package ports

import (
	"context"
)

// ContentType of a payload written to the remote store.
type ContentType string

const (
	ContentTypeXML  ContentType = "application/xml"
	ContentTypeJSON ContentType = "application/json"
)

// Resource is a remote resource as last read from the store.
type Resource struct {
	Address string
	Payload []byte
	// ConcurrencyToken must accompany a delete of this resource.
	ConcurrencyToken string
}

// RemoteStore is the graph-oriented resource store artifacts are committed to.
// It offers no transaction across resources.
type RemoteStore interface {
	// Read returns domain.ErrResourceNotFound when nothing exists at address.
	Read(ctx context.Context, address string) (*Resource, error)
	// Create returns domain.ErrResourceConflict when the store rejects the
	// write because of a concurrent change.
	Create(ctx context.Context, address string, payload []byte, contentType ContentType) error
	Delete(ctx context.Context, address, concurrencyToken string) error
}

type transactionIDKey struct{}

// WithTransactionID tags outgoing remote store calls with a transaction id,
// normally the distribution id.
func WithTransactionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, transactionIDKey{}, id)
}

// TransactionID returns the id set by WithTransactionID, or "".
func TransactionID(ctx context.Context) string {
	id, _ := ctx.Value(transactionIDKey{}).(string)
	return id
}
