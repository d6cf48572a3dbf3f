package groups

import (
	"testing"
	"time"

	"studyhub/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() []models.Group {
	return []models.Group{
		{ID: "g1", Name: "Biology", OwnerID: "owner", MemberIDs: []string{"u2"}, ShareCode: "BIO234", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "g2", Name: "Chemistry", OwnerID: "u2", MemberIDs: []string{}, ShareCode: "CHM567"},
	}
}

func strPtr(s string) *string { return &s }

func TestJoinByCode_AddsMemberOnce(t *testing.T) {
	groups := fixture()

	g, err := JoinByCode("BIO234", "u3", groups)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2", "u3"}, g.MemberIDs)
	replace(groups, g)

	_, err = JoinByCode("BIO234", "u3", groups)
	assert.ErrorIs(t, err, ErrAlreadyMember)
	assert.Len(t, groups[0].MemberIDs, 2, "second join leaves membership unchanged")
}

func TestJoinByCode_CaseInsensitive(t *testing.T) {
	g, err := JoinByCode("  bio234 ", "u3", fixture())
	require.NoError(t, err)
	assert.Equal(t, "g1", g.ID)
}

func TestJoinByCode_Failures(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		userID string
		want   error
	}{
		{"unknown code", "ZZZZZZ", "u3", ErrCodeNotFound},
		{"empty code", "", "u3", ErrCodeNotFound},
		{"owner", "BIO234", "owner", ErrSelfJoin},
		{"existing member", "BIO234", "u2", ErrAlreadyMember},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := JoinByCode(tt.code, tt.userID, fixture())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestJoinByCode_DoesNotMutateInput(t *testing.T) {
	groups := fixture()
	_, err := JoinByCode("BIO234", "u3", groups)
	require.NoError(t, err)
	assert.Equal(t, fixture(), groups)
}

func TestLeave_RejoinRoundTrip(t *testing.T) {
	groups := fixture()

	joined, err := JoinByCode("CHM567", "u5", groups)
	require.NoError(t, err)
	replace(groups, joined)

	left, err := Leave("g2", "u5", groups)
	require.NoError(t, err)
	assert.Empty(t, left.MemberIDs)
	replace(groups, left)

	rejoined, err := JoinByCode("CHM567", "u5", groups)
	require.NoError(t, err)
	assert.Equal(t, joined, rejoined)
}

func TestLeave_GroupSurvivesEmpty(t *testing.T) {
	groups := fixture()
	g, err := Leave("g1", "u2", groups)
	require.NoError(t, err)
	assert.Equal(t, "g1", g.ID)
	assert.Empty(t, g.MemberIDs)
	assert.NotNil(t, g.MemberIDs)
}

func TestLeave_OwnerCannotLeave(t *testing.T) {
	for _, groups := range [][]models.Group{
		fixture(),
		{{ID: "g1", OwnerID: "owner", MemberIDs: []string{}}},
		{{ID: "g1", OwnerID: "owner", MemberIDs: []string{"a", "b", "c"}}},
	} {
		_, err := Leave("g1", "owner", groups)
		assert.ErrorIs(t, err, ErrOwnerCannotLeave)
	}
}

func TestLeave_Failures(t *testing.T) {
	_, err := Leave("nope", "u2", fixture())
	assert.ErrorIs(t, err, ErrGroupNotFound)

	_, err = Leave("g1", "stranger", fixture())
	assert.ErrorIs(t, err, ErrNotAMember)
}

func TestUpdateMetadata(t *testing.T) {
	groups := fixture()
	patch := Patch{Name: strPtr("  AP Biology "), School: strPtr("Central High")}

	g, err := UpdateMetadata("g1", patch, "owner", groups)

	require.NoError(t, err)
	assert.Equal(t, "AP Biology", g.Name)
	assert.Equal(t, "Central High", g.School)
	assert.Empty(t, g.Description, "absent fields are left alone")
	assert.Equal(t, groups[0].ShareCode, g.ShareCode)
	assert.Equal(t, groups[0].MemberIDs, g.MemberIDs)
	assert.Equal(t, groups[0].CreatedAt, g.CreatedAt)
}

func TestUpdateMetadata_Failures(t *testing.T) {
	tests := []struct {
		name      string
		groupID   string
		requester string
		patch     Patch
		want      error
	}{
		{"unknown group", "nope", "owner", Patch{}, ErrGroupNotFound},
		{"member is not owner", "g1", "u2", Patch{Description: strPtr("x")}, ErrPermissionDenied},
		{"blank name", "g1", "owner", Patch{Name: strPtr("   ")}, ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UpdateMetadata(tt.groupID, tt.patch, tt.requester, fixture())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
