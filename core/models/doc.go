// Package models defines the domain records persisted by studyhub.
//
// # Records
//
//   - Task: an assignment, exam or other to-do with an optional reminder and group link.
//   - Group: a study group or classroom that other users join with a share code.
//   - User: the single local profile.
//   - Friend: a contact in the friends list.
//   - Stats: completion counters, streaks, study minutes and unlocked achievements.
//
// State bundles the live collections as the store hands them out; Snapshot is the
// export/import bundle written to backup files.
//
// JSON field names are camelCase because backup files are shared with the mobile client.
package models
