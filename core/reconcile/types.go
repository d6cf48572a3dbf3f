package reconcile

import (
	"fmt"
	"strings"

	"studyhub/core/apperr"
)

// Strategy selects how a snapshot is combined with live state.
type Strategy string

const (
	// StrategyMerge unions collections by id, keeping existing records.
	StrategyMerge Strategy = "merge"
	// StrategyReplace overwrites every collection with the snapshot's version.
	StrategyReplace Strategy = "replace"
)

// ParseStrategy converts a string to a Strategy, rejecting unknown values.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyMerge, StrategyReplace:
		return st, nil
	default:
		return "", fmt.Errorf("unknown import strategy %q", s)
	}
}

// Warning describes a record or collection that could not be reconciled.
type Warning struct {
	// Collection is the collection the record belongs to.
	Collection string `json:"collection"`

	// Index is the position of the record in the snapshot, or -1 when the
	// warning concerns the whole collection.
	Index int `json:"index"`

	// ID is the record id when one could be read.
	ID string `json:"id,omitempty"`

	// Reason explains what went wrong.
	Reason string `json:"reason"`
}

func (w Warning) String() string {
	switch {
	case w.Index < 0:
		return fmt.Sprintf("%s: %s", w.Collection, w.Reason)
	case w.ID != "":
		return fmt.Sprintf("%s[%d] (%s): %s", w.Collection, w.Index, w.ID, w.Reason)
	default:
		return fmt.Sprintf("%s[%d]: %s", w.Collection, w.Index, w.Reason)
	}
}

// Result summarises the effect of an import.
type Result struct {
	// Strategy is the strategy that produced the result.
	Strategy Strategy `json:"strategy"`

	// TasksImported counts tasks written (replace) or newly added (merge).
	TasksImported int `json:"tasksImported"`

	// GroupsImported counts groups written (replace) or newly added (merge).
	GroupsImported int `json:"groupsImported"`

	// FriendsImported counts friends written (replace) or newly added (merge).
	FriendsImported int `json:"friendsImported"`

	// UserUpdated reports whether the user profile changed hands.
	UserUpdated bool `json:"userUpdated"`

	// StatsUpdated reports whether stats were written.
	StatsUpdated bool `json:"statsUpdated"`

	// Warnings lists skipped records and collections.
	Warnings []Warning `json:"warnings"`
}

// ErrPartialImport is reported when an import applied but skipped records.
var ErrPartialImport = apperr.New(apperr.KindPartialFailure, "partial_import", "import completed with warnings")

// Err returns nil for a clean import, or ErrPartialImport carrying the
// warning count.
func (r Result) Err() error {
	if len(r.Warnings) == 0 {
		return nil
	}
	return ErrPartialImport.WithDetail("%d record(s) skipped", len(r.Warnings))
}

func (r *Result) warn(w Warning) {
	r.Warnings = append(r.Warnings, w)
}
