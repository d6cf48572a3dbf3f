// Package backup exports the live state as a snapshot document and imports
// snapshots back under the merge or replace strategy.
//
// Exports are named <prefix>-<timestamp>.json and written to a Target: a
// directory (FileTarget, on an afero filesystem) or an object storage bucket
// (BucketTarget). Imports validate the whole document before touching the
// store, then apply it in a single transaction.
package backup
