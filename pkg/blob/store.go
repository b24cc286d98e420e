// ABOUTME: Named-blob persistence collaborator interface
// ABOUTME: Key-value contract the PRD stores read and write through

package blob

// Store is a named text-blob key-value store. Get reports whether the key
// exists; a missing key is not an error.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}
