package stickybucket

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore is an in-memory implementation of the Store interface. It's
// useful for testing and single-process applications.
type MemoryStore struct {
	docs map[string]*AssignmentDoc
	mu   sync.RWMutex
}

// NewMemoryStore creates a new in-memory sticky-bucket store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]*AssignmentDoc),
	}
}

// Get loads the assignment document for an identity. The returned document
// is a copy; mutating it does not affect the store.
func (m *MemoryStore) Get(ctx context.Context, attributeName, attributeValue string) (*AssignmentDoc, error) {
	m.mu.RLock()
	doc, exists := m.docs[Key(attributeName, attributeValue)]
	m.mu.RUnlock()

	if !exists {
		return nil, nil
	}
	return copyDoc(doc), nil
}

// Save upserts an assignment document, merging its assignments with any
// already stored for the same identity.
func (m *MemoryStore) Save(ctx context.Context, doc *AssignmentDoc) error {
	if doc == nil || doc.AttributeName == "" {
		return ErrInvalidDoc
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := copyDoc(doc)
	if existing, ok := m.docs[doc.Key()]; ok {
		merged := make(map[string]string, len(existing.Assignments)+len(doc.Assignments))
		maps.Copy(merged, existing.Assignments)
		maps.Copy(merged, doc.Assignments)
		stored.Assignments = merged
	}
	m.docs[doc.Key()] = stored
	return nil
}

// Close releases any resources. For the memory store, this is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}

func copyDoc(doc *AssignmentDoc) *AssignmentDoc {
	cp := *doc
	if doc.Assignments != nil {
		cp.Assignments = maps.Clone(doc.Assignments)
	}
	return &cp
}
