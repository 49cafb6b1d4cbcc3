package ports

import "context"

// ConversionClient translates legacy model payloads into a pushable form.
type ConversionClient interface {
	// Convert returns domain.ErrConversionFailed (wrapped) when the service
	// rejects the payload or answers with something that cannot be parsed.
	Convert(ctx context.Context, name, version string, payload []byte) ([]byte, error)
}
