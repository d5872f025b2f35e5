package paywall

import "io"

// ContentStore is the external blob store holding article bodies. The engine
// only ever records the retrieval handle and a key reference; whether blobs
// are sealed at rest is the store's concern.
type ContentStore interface {
	// Put stores content under the given handle. Idempotent: storing the
	// same handle twice is safe. size is the number of bytes read from r.
	Put(handle string, r io.Reader, size int64) error

	// Get retrieves content by handle and writes it to w. Sealed stores
	// return ciphertext; unsealing is the caller's concern.
	Get(handle string, w io.Writer) error

	// KeyRef identifies the key sealing blobs at rest, or "" for stores
	// that keep blobs as given.
	KeyRef() string

	// ValidateSetup verifies that the store is accessible and configured.
	ValidateSetup() error
}
