package stickybucket

import (
	"context"
	"fmt"
)

// AssignmentDoc is one persisted identity-to-bucket document: every
// assignment made for a single (attribute name, attribute value) identity.
type AssignmentDoc struct {
	AttributeName  string            `json:"attributeName" bson:"attribute_name"`
	AttributeValue string            `json:"attributeValue" bson:"attribute_value"`
	Assignments    map[string]string `json:"assignments" bson:"assignments"`
}

// Key returns the composite document key.
func (d AssignmentDoc) Key() string {
	return Key(d.AttributeName, d.AttributeValue)
}

// Key builds the composite key for an identity attribute pair.
func Key(attributeName, attributeValue string) string {
	return fmt.Sprintf("%s||%s", attributeName, attributeValue)
}

// Store persists sticky-bucket assignments so an identity keeps its bucket
// across sessions and devices. Implementations must be safe for concurrent
// use.
type Store interface {
	// Get loads the assignment document for an identity. A missing
	// document is not an error: implementations return (nil, nil).
	Get(ctx context.Context, attributeName, attributeValue string) (*AssignmentDoc, error)

	// Save upserts an assignment document, merging with what is stored.
	Save(ctx context.Context, doc *AssignmentDoc) error

	// Close releases any resources used by the store.
	Close() error
}
