// Package stickybucket persists identity-to-bucket assignments for
// feature-flag rollouts.
//
// Percentage rollouts hash an identity attribute to decide inclusion.
// When that attribute is missing (an anonymous visitor, a fresh device),
// the engine can fall back to a secondary attribute, but only if a sticky
// bucket store is configured, because the fallback is only safe when the
// eventual assignment is persisted and reused.
//
// # Stores
//
// Three implementations of the Store interface ship with the package:
//
//   - MemoryStore - process-local, for tests and single-instance apps
//   - RedisStore - shared across processes, JSON values with optional TTL
//   - MongoStore - durable collection, upserted by composite key
//
// # Usage
//
//	store := stickybucket.NewMemoryStore()
//	defer store.Close()
//
//	err := store.Save(ctx, &stickybucket.AssignmentDoc{
//		AttributeName:  "deviceId",
//		AttributeValue: "d-42",
//		Assignments:    map[string]string{"checkout-redesign": "1"},
//	})
//
//	doc, err := store.Get(ctx, "deviceId", "d-42")
//
// Saving merges with what is already stored for the identity, so two
// concurrent writers extend rather than clobber each other's assignments.
//
// Documents are keyed by "attributeName||attributeValue"; the separator is
// part of the shared format and must not change.
package stickybucket
