package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"studyhub/core/apperr"
	"studyhub/core/models"
	"studyhub/core/utils"
)

// ErrMalformedSnapshot is matched by every structural validation failure.
var ErrMalformedSnapshot = apperr.New(apperr.KindValidation, "malformed_snapshot", "malformed snapshot")

// ValidationError names the first field that failed the structural check.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed snapshot: %s", e.Reason)
	}
	return fmt.Sprintf("malformed snapshot: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrMalformedSnapshot
}

// Validate checks the structure of a raw snapshot document and decodes it.
//
// Top-level fields are checked in a fixed order (version, exportedAt, user,
// tasks, groups, friends, stats) and the first failure is returned. Entries
// inside the collections are not held to the same standard: an entry that
// does not decode is dropped and reported as a warning.
func Validate(raw []byte) (*models.Snapshot, []Warning, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return nil, nil, &ValidationError{Reason: "document is not a JSON object"}
	}

	snap := &models.Snapshot{}
	var warnings []Warning

	var version string
	if err := json.Unmarshal(doc["version"], &version); err != nil || version == "" {
		return nil, nil, &ValidationError{Field: "version", Reason: "must be a non-empty string"}
	}
	snap.Version = version

	var exportedAt string
	if err := json.Unmarshal(doc["exportedAt"], &exportedAt); err != nil {
		return nil, nil, &ValidationError{Field: "exportedAt", Reason: "must be a timestamp string"}
	}
	ts, err := time.Parse(time.RFC3339, exportedAt)
	if err != nil {
		return nil, nil, &ValidationError{Field: "exportedAt", Reason: "must be an RFC 3339 timestamp"}
	}
	snap.ExportedAt = ts

	if kindOf(doc["user"]) != '{' {
		return nil, nil, &ValidationError{Field: "user", Reason: "must be an object"}
	}

	collections := []string{models.CollectionTasks, models.CollectionGroups, models.CollectionFriends}
	entries := make(map[string][]json.RawMessage, len(collections))
	for _, name := range collections {
		if kindOf(doc[name]) != '[' {
			return nil, nil, &ValidationError{Field: name, Reason: "must be an array"}
		}
		var items []json.RawMessage
		if err := json.Unmarshal(doc[name], &items); err != nil {
			return nil, nil, &ValidationError{Field: name, Reason: "must be an array"}
		}
		entries[name] = items
	}

	statsRaw, hasStats := doc["stats"]
	if hasStats && kindOf(statsRaw) != 'n' && kindOf(statsRaw) != '{' {
		return nil, nil, &ValidationError{Field: "stats", Reason: "must be an object"}
	}

	var user models.User
	if err := json.Unmarshal(doc["user"], &user); err != nil {
		warnings = append(warnings, Warning{Collection: models.CollectionUser, Index: -1, Reason: fmt.Sprintf("undecodable: %v", err)})
	} else {
		snap.User = &user
	}

	var w []Warning
	snap.Tasks, w = decodeEntries[models.Task](models.CollectionTasks, entries[models.CollectionTasks])
	warnings = append(warnings, w...)
	snap.Groups, w = decodeEntries[models.Group](models.CollectionGroups, entries[models.CollectionGroups])
	warnings = append(warnings, w...)
	snap.Friends, w = decodeEntries[models.Friend](models.CollectionFriends, entries[models.CollectionFriends])
	warnings = append(warnings, w...)

	if hasStats && kindOf(statsRaw) == '{' {
		snap.Stats, w = decodeStats(statsRaw)
		warnings = append(warnings, w...)
	}

	return snap, warnings, nil
}

// kindOf returns the first significant byte of a JSON value: '{', '[', '"',
// 'n' for null, 't'/'f' for booleans, a digit or '-' for numbers, 0 if absent.
func kindOf(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func decodeEntries[T any](collection string, items []json.RawMessage) ([]T, []Warning) {
	out := make([]T, 0, len(items))
	var warnings []Warning
	for i, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			warnings = append(warnings, Warning{
				Collection: collection,
				Index:      i,
				ID:         entryID(item),
				Reason:     fmt.Sprintf("undecodable: %v", err),
			})
			continue
		}
		out = append(out, v)
	}
	return out, warnings
}

// entryID reads the id of an entry that failed to decode, for reporting.
func entryID(item json.RawMessage) string {
	var m map[string]any
	if err := json.Unmarshal(item, &m); err != nil {
		return ""
	}
	return utils.ToString(m["id"])
}

// decodeStats reads counters leniently; older exports wrote some of them as
// strings.
func decodeStats(raw json.RawMessage) (*models.Stats, []Warning) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, []Warning{{Collection: models.CollectionStats, Index: -1, Reason: fmt.Sprintf("undecodable: %v", err)}}
	}

	stats := &models.Stats{
		TotalTasksCompleted: utils.ToInt(m["totalTasksCompleted"]),
		CurrentStreak:       utils.ToInt(m["currentStreak"]),
		LongestStreak:       utils.ToInt(m["longestStreak"]),
		TotalStudyMinutes:   utils.ToInt(m["totalStudyMinutes"]),
		Achievements:        []models.Achievement{},
	}

	var doc struct {
		Achievements []json.RawMessage `json:"achievements"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return stats, []Warning{{Collection: models.CollectionStats, Index: -1, Reason: "achievements must be an array"}}
	}
	achievements, warnings := decodeEntries[models.Achievement](models.CollectionStats, doc.Achievements)
	stats.Achievements = append(stats.Achievements, achievements...)
	return stats, warnings
}
