// Package integrity checks the health of the local data and its infrastructure.
//
// # Checks Provided
//
//   - Data: share codes are well formed, unique and recorded in the history;
//     no group lists its owner or a member twice; completedAt agrees with
//     task status; tasks only reference existing groups.
//   - Schema: the collections table has every column the store uses.
//   - Bucket: the backup bucket and its export prefix exist (bucket target only).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/data : Runs the data check (supports ?fix=true).
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/bucket : Runs the bucket check (supports ?fix=true).
package integrity
