package checks

import (
	"fmt"
	"slices"

	"studyhub/core/models"
	"studyhub/core/sharecode"
)

// Issue names of data checks.
const (
	IssueDuplicateID        = "duplicate_id"
	IssueDuplicateShareCode = "duplicate_share_code"
	IssueInvalidShareCode   = "invalid_share_code"
	IssueUnrecordedCode     = "unrecorded_share_code"
	IssueOwnerIsMember      = "owner_is_member"
	IssueDuplicateMember    = "duplicate_member"
	IssueCompletionMismatch = "completion_mismatch"
	IssueUnknownGroup       = "unknown_group"
)

// Issue is a single invariant violation found in live data.
type Issue struct {
	Check      string `json:"check"`
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Detail     string `json:"detail"`
	Fixable    bool   `json:"fixable"`
}

// DataReport lists the violations found in live data.
type DataReport struct {
	Status string  `json:"status"` // "ok", "issues", "fixed"
	Issues []Issue `json:"issues"`
}

// CheckData inspects live state for broken invariants.
func CheckData(state models.State) *DataReport {
	var issues []Issue
	issues = append(issues, duplicateIDs(models.CollectionTasks, state.Tasks, func(t models.Task) string { return t.ID })...)
	issues = append(issues, duplicateIDs(models.CollectionGroups, state.Groups, func(g models.Group) string { return g.ID })...)
	issues = append(issues, duplicateIDs(models.CollectionFriends, state.Friends, func(f models.Friend) string { return f.ID })...)
	issues = append(issues, groupIssues(state)...)
	issues = append(issues, taskIssues(state)...)

	report := &DataReport{Status: "ok", Issues: issues}
	if len(issues) > 0 {
		report.Status = "issues"
	}
	if report.Issues == nil {
		report.Issues = []Issue{}
	}
	return report
}

// RepairData fixes what can be fixed without losing user data and returns the
// issues it addressed. Duplicate ids and share codes are reported only.
func RepairData(state *models.State) []Issue {
	fixed := []Issue{}
	for _, issue := range CheckData(*state).Issues {
		if !issue.Fixable {
			continue
		}
		fixed = append(fixed, issue)
	}
	if len(fixed) == 0 {
		return fixed
	}

	groupIDs := make(map[string]struct{}, len(state.Groups))
	for i := range state.Groups {
		g := &state.Groups[i]
		groupIDs[g.ID] = struct{}{}
		members := make([]string, 0, len(g.MemberIDs))
		for _, m := range g.MemberIDs {
			if m != g.OwnerID && !slices.Contains(members, m) {
				members = append(members, m)
			}
		}
		g.MemberIDs = members
		if g.ShareCode != "" && !slices.Contains(state.ShareCodes, g.ShareCode) {
			state.ShareCodes = append(state.ShareCodes, g.ShareCode)
		}
	}

	for i := range state.Tasks {
		t := &state.Tasks[i]
		if !t.IsConsistent() {
			if t.Status == models.StatusCompleted {
				at := t.CreatedAt
				t.CompletedAt = &at
			} else {
				t.CompletedAt = nil
			}
		}
		if t.GroupID != nil {
			if _, ok := groupIDs[*t.GroupID]; !ok {
				t.GroupID = nil
			}
		}
	}
	return fixed
}

func duplicateIDs[T any](collection string, items []T, id func(T) string) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		key := id(it)
		if seen[key] {
			issues = append(issues, Issue{
				Check:      IssueDuplicateID,
				Collection: collection,
				ID:         key,
				Detail:     "id appears more than once",
			})
		}
		seen[key] = true
	}
	return issues
}

func groupIssues(state models.State) []Issue {
	var issues []Issue
	codes := make(map[string]string, len(state.Groups))
	for _, g := range state.Groups {
		if !sharecode.Valid(g.ShareCode) {
			issues = append(issues, Issue{Check: IssueInvalidShareCode, Collection: models.CollectionGroups, ID: g.ID, Detail: fmt.Sprintf("share code %q is malformed", g.ShareCode)})
		}
		if other, dup := codes[g.ShareCode]; dup {
			issues = append(issues, Issue{Check: IssueDuplicateShareCode, Collection: models.CollectionGroups, ID: g.ID, Detail: fmt.Sprintf("share code %s also used by group %s", g.ShareCode, other)})
		}
		codes[g.ShareCode] = g.ID
		if g.ShareCode != "" && !slices.Contains(state.ShareCodes, g.ShareCode) {
			issues = append(issues, Issue{Check: IssueUnrecordedCode, Collection: models.CollectionShareCodes, ID: g.ID, Detail: fmt.Sprintf("share code %s missing from history", g.ShareCode), Fixable: true})
		}
		if g.HasMember(g.OwnerID) {
			issues = append(issues, Issue{Check: IssueOwnerIsMember, Collection: models.CollectionGroups, ID: g.ID, Detail: "owner listed as a member", Fixable: true})
		}
		seen := make(map[string]bool, len(g.MemberIDs))
		for _, m := range g.MemberIDs {
			if seen[m] {
				issues = append(issues, Issue{Check: IssueDuplicateMember, Collection: models.CollectionGroups, ID: g.ID, Detail: fmt.Sprintf("member %s listed twice", m), Fixable: true})
			}
			seen[m] = true
		}
	}
	return issues
}

func taskIssues(state models.State) []Issue {
	var issues []Issue
	groups := make(map[string]struct{}, len(state.Groups))
	for _, g := range state.Groups {
		groups[g.ID] = struct{}{}
	}
	for _, t := range state.Tasks {
		if !t.IsConsistent() {
			issues = append(issues, Issue{Check: IssueCompletionMismatch, Collection: models.CollectionTasks, ID: t.ID, Detail: fmt.Sprintf("status %s disagrees with completedAt", t.Status), Fixable: true})
		}
		if t.GroupID != nil {
			if _, ok := groups[*t.GroupID]; !ok {
				issues = append(issues, Issue{Check: IssueUnknownGroup, Collection: models.CollectionTasks, ID: t.ID, Detail: fmt.Sprintf("group %s does not exist", *t.GroupID), Fixable: true})
			}
		}
	}
	return issues
}
