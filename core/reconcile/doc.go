// Package reconcile applies an exported snapshot back onto live state.
//
// An import runs in two phases. Validate checks the document's structure and
// decodes it; a failure there rejects the import before anything changes.
// The Engine then produces a new State from the snapshot and the live state
// under one of two strategies:
//
//   - ApplyReplace overwrites every collection with the snapshot's version.
//   - ApplyMerge unions collections by id, keeps existing records, preserves
//     the user's identity fields and never lowers a stats counter.
//
// Both are pure: the live state passed in is never modified, and the caller
// persists the returned state in a single store transaction. Records that
// cannot be reconciled are skipped and reported as warnings in the Result;
// a failure while processing one collection leaves that collection as it was
// and does not stop the others.
//
// # Usage Example
//
//	snap, warnings, err := reconcile.Validate(raw)
//	if err != nil {
//	    return err // errors.Is(err, reconcile.ErrMalformedSnapshot)
//	}
//	engine := reconcile.NewEngine(sharecode.NewGenerator())
//	next, result := engine.ApplyMerge(snap, live)
//	result.Warnings = append(warnings, result.Warnings...)
package reconcile
