package checks

import (
	"testing"
	"time"

	"studyhub/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

func brokenState() models.State {
	missing := "missing"
	return models.State{
		Groups: []models.Group{
			{ID: "g1", Name: "Bio", OwnerID: "me", MemberIDs: []string{"me", "u2", "u2"}, ShareCode: "ABC234"},
			{ID: "g2", Name: "Chem", OwnerID: "u3", MemberIDs: []string{}, ShareCode: "ABC234"},
			{ID: "g3", Name: "Math", OwnerID: "u3", MemberIDs: []string{"me"}, ShareCode: "XYZ789"},
		},
		Tasks: []models.Task{
			{ID: "t1", OwnerID: "me", Title: "Essay", Status: models.StatusCompleted, CreatedAt: created},
			{ID: "t2", OwnerID: "me", Title: "Quiz", Status: models.StatusPending, GroupID: &missing},
			{ID: "t2", OwnerID: "me", Title: "Quiz copy", Status: models.StatusPending},
		},
		ShareCodes: []string{"ABC234"},
	}
}

func checkNames(issues []Issue) []string {
	names := make([]string, 0, len(issues))
	for _, i := range issues {
		names = append(names, i.Check)
	}
	return names
}

func TestCheckData_Clean(t *testing.T) {
	group := "g1"
	state := models.State{
		Groups:     []models.Group{{ID: "g1", Name: "Bio", OwnerID: "me", MemberIDs: []string{"u2"}, ShareCode: "ABC234"}},
		Tasks:      []models.Task{{ID: "t1", Status: models.StatusPending, GroupID: &group}},
		ShareCodes: []string{"OLD234", "ABC234"},
	}

	report := CheckData(state)

	assert.Equal(t, "ok", report.Status)
	assert.NotNil(t, report.Issues)
	assert.Empty(t, report.Issues)
}

func TestCheckData_Issues(t *testing.T) {
	report := CheckData(brokenState())

	assert.Equal(t, "issues", report.Status)
	assert.ElementsMatch(t, []string{
		IssueDuplicateID,
		IssueOwnerIsMember,
		IssueDuplicateMember,
		IssueDuplicateShareCode,
		IssueUnrecordedCode,
		IssueCompletionMismatch,
		IssueUnknownGroup,
	}, checkNames(report.Issues))

	for _, issue := range report.Issues {
		switch issue.Check {
		case IssueDuplicateID, IssueDuplicateShareCode:
			assert.False(t, issue.Fixable, issue.Check)
		default:
			assert.True(t, issue.Fixable, issue.Check)
		}
	}
}

func TestCheckData_InvalidShareCode(t *testing.T) {
	state := models.State{
		Groups:     []models.Group{{ID: "g1", OwnerID: "me", ShareCode: "O0I1"}},
		ShareCodes: []string{"O0I1"},
	}

	report := CheckData(state)

	require.Len(t, report.Issues, 1)
	assert.Equal(t, IssueInvalidShareCode, report.Issues[0].Check)
	assert.Equal(t, "g1", report.Issues[0].ID)
}

func TestRepairData(t *testing.T) {
	state := brokenState()

	fixed := RepairData(&state)

	assert.ElementsMatch(t, []string{
		IssueOwnerIsMember,
		IssueDuplicateMember,
		IssueUnrecordedCode,
		IssueCompletionMismatch,
		IssueUnknownGroup,
	}, checkNames(fixed))

	assert.Equal(t, []string{"u2"}, state.Groups[0].MemberIDs)
	assert.Contains(t, state.ShareCodes, "XYZ789")
	require.NotNil(t, state.Tasks[0].CompletedAt)
	assert.Equal(t, created, *state.Tasks[0].CompletedAt)
	assert.Nil(t, state.Tasks[1].GroupID)

	remaining := CheckData(state)
	assert.ElementsMatch(t, []string{IssueDuplicateID, IssueDuplicateShareCode}, checkNames(remaining.Issues))
}

func TestRepairData_PendingWithCompletion(t *testing.T) {
	at := created
	state := models.State{Tasks: []models.Task{{ID: "t1", Status: models.StatusPending, CompletedAt: &at}}}

	fixed := RepairData(&state)

	require.Len(t, fixed, 1)
	assert.Nil(t, state.Tasks[0].CompletedAt)
	assert.True(t, state.Tasks[0].IsConsistent())
}

func TestRepairData_NothingToFix(t *testing.T) {
	state := models.State{
		Groups:     []models.Group{{ID: "g1", OwnerID: "me", ShareCode: "ABC234"}},
		ShareCodes: []string{"ABC234"},
	}
	before := state.Clone()

	fixed := RepairData(&state)

	assert.Empty(t, fixed)
	assert.Equal(t, before, state)
}
