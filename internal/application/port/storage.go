package port

import "context"

// KVStore is the process-durable keyed value store backing all local state.
// A Put replaces the whole value for its key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// TransactionManager runs fn so that all store writes inside it commit or roll back together
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// FileStorage writes generated documents to disk
type FileStorage interface {
	Save(ctx context.Context, path string, content []byte) error
	GetFullPath(relativePath string) string
}
