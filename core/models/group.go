package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Group is a study group or classroom.
// The owner is never part of MemberIDs, and MemberIDs holds no duplicates.
type Group struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	School       string    `json:"school,omitempty"`
	ClassName    string    `json:"className,omitempty"`
	TeacherEmail string    `json:"teacherEmail,omitempty"`
	OwnerID      string    `json:"ownerId"`
	MemberIDs    []string  `json:"memberIds"`
	ShareCode    string    `json:"shareCode"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewGroup builds a group with no members.
func NewGroup(id, ownerID, name, shareCode string, now time.Time) (Group, error) {
	switch {
	case id == "":
		return Group{}, fmt.Errorf("group id is required")
	case ownerID == "":
		return Group{}, fmt.Errorf("group owner is required")
	case strings.TrimSpace(name) == "":
		return Group{}, fmt.Errorf("group name is required")
	case shareCode == "":
		return Group{}, fmt.Errorf("group share code is required")
	}
	return Group{
		ID:        id,
		Name:      strings.TrimSpace(name),
		OwnerID:   ownerID,
		MemberIDs: []string{},
		ShareCode: shareCode,
		CreatedAt: now,
	}, nil
}

// HasMember reports whether userID is in MemberIDs.
func (g Group) HasMember(userID string) bool {
	return slices.Contains(g.MemberIDs, userID)
}

// Clone returns a copy of g that shares no slices with it.
func (g Group) Clone() Group {
	g.MemberIDs = slices.Clone(g.MemberIDs)
	if g.MemberIDs == nil {
		g.MemberIDs = []string{}
	}
	return g
}
