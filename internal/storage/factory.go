package storage

import (
	"fmt"
	"io"
	"strings"
)

// StoreKinds lists the backends NewStore accepts.
func StoreKinds() []string {
	return []string{"memory", "sqlite"}
}

// NewStore opens a spec store. An empty kind selects DefaultStoreKind, which
// depends on whether the binary was built with the sqlite tag.
func NewStore(kind, sqlitePath string) (Store, error) {
	if kind == "" {
		kind = DefaultStoreKind()
	}
	switch kind {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported store backend %q (want %s)", kind, strings.Join(StoreKinds(), "|"))
	}
}

// CloseIfSupported closes stores that hold resources, such as the sqlite
// handle. The memory store needs no closing.
func CloseIfSupported(store Store) error {
	if closer, ok := store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
