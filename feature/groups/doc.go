// Package groups implements study groups: share-code joins, leaving, and
// owner-only metadata edits.
//
// JoinByCode, Leave and UpdateMetadata are pure functions over a slice of
// groups; they return the updated group and never modify their input. Service
// runs them inside a store transaction so a mutation is either fully written
// or not at all.
package groups
