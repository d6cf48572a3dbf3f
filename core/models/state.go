package models

import (
	"slices"
	"time"
)

// Collection names, used as store keys and in reconciliation warnings.
const (
	CollectionUser       = "user"
	CollectionTasks      = "tasks"
	CollectionGroups     = "groups"
	CollectionFriends    = "friends"
	CollectionStats      = "stats"
	CollectionShareCodes = "share_codes"
)

// State is the full set of live collections.
type State struct {
	User    *User
	Tasks   []Task
	Groups  []Group
	Friends []Friend
	Stats   *Stats

	// ShareCodes is every share code ever issued, including replaced ones.
	ShareCodes []string
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{
		Tasks:      slices.Clone(s.Tasks),
		Friends:    slices.Clone(s.Friends),
		Stats:      s.Stats.Clone(),
		ShareCodes: slices.Clone(s.ShareCodes),
	}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Groups != nil {
		out.Groups = make([]Group, len(s.Groups))
		for i, g := range s.Groups {
			out.Groups[i] = g.Clone()
		}
	}
	return out
}

// IssuedCodes returns the set of share codes that may not be issued again:
// the historical set plus every code currently held by a group.
func (s State) IssuedCodes() map[string]struct{} {
	codes := make(map[string]struct{}, len(s.ShareCodes)+len(s.Groups))
	for _, c := range s.ShareCodes {
		codes[c] = struct{}{}
	}
	for _, g := range s.Groups {
		if g.ShareCode != "" {
			codes[g.ShareCode] = struct{}{}
		}
	}
	return codes
}

// SnapshotVersion is the format tag written by this version of studyhub.
const SnapshotVersion = "1.0"

// Snapshot is a point-in-time export of the live state.
type Snapshot struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	User       *User     `json:"user"`
	Tasks      []Task    `json:"tasks"`
	Groups     []Group   `json:"groups"`
	Stats      *Stats    `json:"stats"`
	Friends    []Friend  `json:"friends"`
}

// NewSnapshot captures s at the given time. Empty collections are written as
// empty arrays so the bundle always passes structural validation.
func NewSnapshot(s State, at time.Time) Snapshot {
	c := s.Clone()
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: at.UTC(),
		User:       c.User,
		Tasks:      c.Tasks,
		Groups:     c.Groups,
		Stats:      c.Stats,
		Friends:    c.Friends,
	}
	if snap.User == nil {
		snap.User = &User{}
	}
	if snap.Tasks == nil {
		snap.Tasks = []Task{}
	}
	if snap.Groups == nil {
		snap.Groups = []Group{}
	}
	if snap.Friends == nil {
		snap.Friends = []Friend{}
	}
	return snap
}
